package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// ContentRepository loads and seeds the content behind snapshots. Reads
// return fully materialized website scopes; the engine consumes them as
// flat collections and owns all indexing.
type ContentRepository interface {
	// LoadWebsites materializes every website scope in the store.
	LoadWebsites(ctx context.Context) ([]*content.Website, error)

	// HasWebsites reports whether the store contains any website.
	HasWebsites(ctx context.Context) (bool, error)

	// ImportWebsite writes a complete website scope into the store.
	// Used for seeding; resolution never writes.
	ImportWebsite(ctx context.Context, website *content.Website) error

	// DeleteWebsite removes a website and all of its content.
	DeleteWebsite(ctx context.Context, id uuid.UUID) error
}
