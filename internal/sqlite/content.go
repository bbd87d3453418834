package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/repository"
)

// ContentRepository implements repository.ContentRepository for SQLite
type ContentRepository struct {
	db *DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// LoadWebsites loads every website with its full content graph.
func (r *ContentRepository) LoadWebsites(ctx context.Context) ([]*content.Website, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, base_path, default_language_id
		FROM websites
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load websites: %w", err)
	}
	defer rows.Close()

	var websites []*content.Website
	for rows.Next() {
		var (
			id, name, basePath string
			defaultLang        sql.NullString
		)
		if err := rows.Scan(&id, &name, &basePath, &defaultLang); err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		websiteID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid website id %q: %w", id, err)
		}
		website := &content.Website{
			ID:            websiteID,
			Name:          name,
			BasePath:      basePath,
			SiteMarkers:   make(map[string]uuid.UUID),
			PageTemplates: make(map[uuid.UUID]*content.PageTemplate),
		}
		website.DefaultLanguageID, err = nullableID(defaultLang)
		if err != nil {
			return nil, fmt.Errorf("invalid default language id: %w", err)
		}
		websites = append(websites, website)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate websites: %w", err)
	}

	for _, website := range websites {
		if err := r.loadLanguages(ctx, website); err != nil {
			return nil, err
		}
		if err := r.loadSiteMarkers(ctx, website); err != nil {
			return nil, err
		}
		if err := r.loadPageTemplates(ctx, website); err != nil {
			return nil, err
		}
		if err := r.loadSolutions(ctx, website); err != nil {
			return nil, err
		}
		if err := r.loadNodes(ctx, website); err != nil {
			return nil, err
		}
	}
	return websites, nil
}

// HasWebsites reports whether any website rows exist.
func (r *ContentRepository) HasWebsites(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM websites").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count websites: %w", err)
	}
	return count > 0, nil
}

// ImportWebsite inserts a complete website graph in one transaction.
func (r *ContentRepository) ImportWebsite(ctx context.Context, website *content.Website) error {
	if website == nil || website.ID == uuid.Nil || website.Name == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO websites (id, name, base_path, default_language_id)
		VALUES (?, ?, ?, ?)
	`, website.ID.String(), website.Name, website.BasePath, idOrNil(website.DefaultLanguageID))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("website %q: %w", website.Name, repository.ErrInvalidInput)
		}
		return fmt.Errorf("failed to insert website: %w", err)
	}

	for _, lang := range website.Languages {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO languages (id, website_id, code, name, published)
			VALUES (?, ?, ?, ?, ?)
		`, lang.ID.String(), website.ID.String(), lang.Code, lang.Name, lang.Published)
		if err != nil {
			return fmt.Errorf("failed to insert language %q: %w", lang.Code, err)
		}
	}

	for name, pageID := range website.SiteMarkers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO site_markers (website_id, name, page_id)
			VALUES (?, ?, ?)
		`, website.ID.String(), name, pageID.String())
		if err != nil {
			return fmt.Errorf("failed to insert site marker %q: %w", name, err)
		}
	}

	for _, tmpl := range website.PageTemplates {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO page_templates (id, website_id, name, rewrite_url)
			VALUES (?, ?, ?, ?)
		`, tmpl.ID.String(), website.ID.String(), tmpl.Name, tmpl.RewriteURL)
		if err != nil {
			return fmt.Errorf("failed to insert page template %q: %w", tmpl.Name, err)
		}
	}

	for _, name := range website.Solutions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO solutions (website_id, name) VALUES (?, ?)
		`, website.ID.String(), name)
		if err != nil {
			return fmt.Errorf("failed to insert solution %q: %w", name, err)
		}
	}

	for _, node := range website.Nodes() {
		if err := insertNode(ctx, tx, website.ID, node); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// DeleteWebsite removes a website and, via cascading foreign keys, its
// whole content graph.
func (r *ContentRepository) DeleteWebsite(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM websites WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ContentRepository) loadLanguages(ctx context.Context, website *content.Website) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, name, published FROM languages WHERE website_id = ? ORDER BY code
	`, website.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			lang content.Language
		)
		if err := rows.Scan(&id, &lang.Code, &lang.Name, &lang.Published); err != nil {
			return fmt.Errorf("failed to scan language: %w", err)
		}
		lang.ID, err = uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid language id %q: %w", id, err)
		}
		language := lang
		website.Languages = append(website.Languages, &language)
	}
	return rows.Err()
}

func (r *ContentRepository) loadSiteMarkers(ctx context.Context, website *content.Website) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, page_id FROM site_markers WHERE website_id = ?
	`, website.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load site markers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, pageID string
		if err := rows.Scan(&name, &pageID); err != nil {
			return fmt.Errorf("failed to scan site marker: %w", err)
		}
		id, err := uuid.Parse(pageID)
		if err != nil {
			return fmt.Errorf("invalid marker page id %q: %w", pageID, err)
		}
		website.SiteMarkers[name] = id
	}
	return rows.Err()
}

func (r *ContentRepository) loadPageTemplates(ctx context.Context, website *content.Website) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, rewrite_url FROM page_templates WHERE website_id = ?
	`, website.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load page templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			tmpl content.PageTemplate
		)
		if err := rows.Scan(&id, &tmpl.Name, &tmpl.RewriteURL); err != nil {
			return fmt.Errorf("failed to scan page template: %w", err)
		}
		tmpl.ID, err = uuid.Parse(id)
		if err != nil {
			return fmt.Errorf("invalid template id %q: %w", id, err)
		}
		template := tmpl
		website.PageTemplates[template.ID] = &template
	}
	return rows.Err()
}

func (r *ContentRepository) loadSolutions(ctx context.Context, website *content.Website) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM solutions WHERE website_id = ? ORDER BY name
	`, website.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load solutions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan solution: %w", err)
		}
		website.Solutions = append(website.Solutions, name)
	}
	return rows.Err()
}

func (r *ContentRepository) loadNodes(ctx context.Context, website *content.Website) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, kind, name, partial_url, is_root, parent_id, root_id,
			language_id, modified_on, deactivated, display_order,
			title, summary, template_id,
			attachment_file_name, attachment_content_type, attachment_size,
			target_id, author_id, published_at, tags
		FROM nodes
		WHERE website_id = ?
		ORDER BY kind, display_order, name
	`, website.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		node, err := scanNode(rows, website.ID)
		if err != nil {
			return err
		}
		website.AddNode(node)
	}
	return rows.Err()
}

func scanNode(rows *sql.Rows, websiteID uuid.UUID) (*content.Node, error) {
	var (
		id, kind                       string
		isRoot                         sql.NullBool
		parentID, rootID, langID       sql.NullString
		templateID, targetID, authorID sql.NullString
		attachName, attachType         sql.NullString
		attachSize                     sql.NullInt64
		publishedAt                    sql.NullTime
		tags                           string
		node                           content.Node
	)
	err := rows.Scan(
		&id, &kind, &node.Name, &node.PartialURL, &isRoot, &parentID, &rootID,
		&langID, &node.ModifiedOn, &node.Deactivated, &node.DisplayOrder,
		&node.Title, &node.Summary, &templateID,
		&attachName, &attachType, &attachSize,
		&targetID, &authorID, &publishedAt, &tags,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan node: %w", err)
	}

	node.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid node id %q: %w", id, err)
	}
	node.Kind = content.Kind(kind)
	node.WebsiteID = websiteID
	if isRoot.Valid {
		v := isRoot.Bool
		node.IsRoot = &v
	}
	for _, f := range []struct {
		src sql.NullString
		dst **uuid.UUID
	}{
		{parentID, &node.ParentID},
		{rootID, &node.RootID},
		{langID, &node.LanguageID},
		{templateID, &node.TemplateID},
		{targetID, &node.TargetID},
		{authorID, &node.AuthorID},
	} {
		*f.dst, err = nullableID(f.src)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		node.PublishedAt = &t
	}
	if attachName.Valid || attachType.Valid || attachSize.Valid {
		node.Attachment = &content.Attachment{
			FileName:    attachName.String,
			ContentType: attachType.String,
			Size:        attachSize.Int64,
		}
	}
	node.Tags = splitTags(tags)
	return &node, nil
}

func insertNode(ctx context.Context, tx *sql.Tx, websiteID uuid.UUID, node *content.Node) error {
	var attachName, attachType any
	var attachSize any
	if node.Attachment != nil {
		attachName = node.Attachment.FileName
		attachType = node.Attachment.ContentType
		attachSize = node.Attachment.Size
	}
	var publishedAt any
	if node.PublishedAt != nil {
		publishedAt = node.PublishedAt.UTC()
	}
	var isRoot any
	if node.IsRoot != nil {
		isRoot = *node.IsRoot
	}
	modifiedOn := node.ModifiedOn
	if modifiedOn.IsZero() {
		modifiedOn = time.Now().UTC()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO nodes (
			id, website_id, kind, name, partial_url, is_root, parent_id,
			root_id, language_id, modified_on, deactivated, display_order,
			title, summary, template_id,
			attachment_file_name, attachment_content_type, attachment_size,
			target_id, author_id, published_at, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		node.ID.String(), websiteID.String(), string(node.Kind), node.Name,
		node.PartialURL, isRoot, idOrNil(node.ParentID), idOrNil(node.RootID),
		idOrNil(node.LanguageID), modifiedOn, node.Deactivated, node.DisplayOrder,
		node.Title, node.Summary, idOrNil(node.TemplateID),
		attachName, attachType, attachSize,
		idOrNil(node.TargetID), idOrNil(node.AuthorID), publishedAt,
		joinTags(node.Tags),
	)
	if err != nil {
		return fmt.Errorf("failed to insert node %s: %w", node.ID, err)
	}
	return nil
}

func nullableID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", s.String, err)
	}
	return &id, nil
}

func idOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func joinTags(tags []string) string {
	return strings.Join(tags, "\n")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
