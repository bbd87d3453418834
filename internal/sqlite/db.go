package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations runs the migrations directly (for testing)
// In production, migrations should be run via the migrate CLI or embed package
func (db *DB) RunMigrations() error {
	// Read and execute the up migration
	migration := `
-- Websites table
CREATE TABLE websites (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    base_path TEXT NOT NULL DEFAULT '',
    default_language_id TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Website languages
CREATE TABLE languages (
    id TEXT PRIMARY KEY,
    website_id TEXT NOT NULL,
    code TEXT NOT NULL,
    name TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (website_id) REFERENCES websites(id) ON DELETE CASCADE
);
CREATE INDEX idx_website_languages ON languages(website_id);

-- Site markers: named pointers to well-known pages
CREATE TABLE site_markers (
    website_id TEXT NOT NULL,
    name TEXT NOT NULL,
    page_id TEXT NOT NULL,
    PRIMARY KEY (website_id, name),
    FOREIGN KEY (website_id) REFERENCES websites(id) ON DELETE CASCADE
);

-- Page templates
CREATE TABLE page_templates (
    id TEXT PRIMARY KEY,
    website_id TEXT NOT NULL,
    name TEXT NOT NULL,
    rewrite_url TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (website_id) REFERENCES websites(id) ON DELETE CASCADE
);
CREATE INDEX idx_website_templates ON page_templates(website_id);

-- Installed solution packages
CREATE TABLE solutions (
    website_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (website_id, name),
    FOREIGN KEY (website_id) REFERENCES websites(id) ON DELETE CASCADE
);

-- Content nodes, all kinds in one table
CREATE TABLE nodes (
    id TEXT PRIMARY KEY,
    website_id TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN (
        'page', 'file', 'shortcut', 'blog', 'blogpost',
        'forum', 'forumthread', 'event', 'survey'
    )),
    name TEXT NOT NULL,
    partial_url TEXT NOT NULL DEFAULT '',
    is_root INTEGER,
    parent_id TEXT,
    root_id TEXT,
    language_id TEXT,
    modified_on TIMESTAMP NOT NULL,
    deactivated INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0,
    title TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    template_id TEXT,
    attachment_file_name TEXT,
    attachment_content_type TEXT,
    attachment_size INTEGER,
    target_id TEXT,
    author_id TEXT,
    published_at TIMESTAMP,
    tags TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (website_id) REFERENCES websites(id) ON DELETE CASCADE
);
CREATE INDEX idx_website_nodes ON nodes(website_id);
CREATE INDEX idx_node_kind ON nodes(website_id, kind);
CREATE INDEX idx_node_parent ON nodes(parent_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
