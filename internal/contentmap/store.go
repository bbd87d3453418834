package contentmap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/repository"
)

// Store holds the current content snapshot behind an atomic pointer.
// Refresh builds a whole new snapshot and swaps it in; resolutions in
// flight keep the snapshot they pinned at call start.
type Store struct {
	repo    repository.ContentRepository
	logger  *slog.Logger
	current atomic.Pointer[held]
}

type held struct {
	snap     content.Snapshot
	websites []*content.Website
}

// NewStore creates a store over the given repository. Refresh must be
// called once before Current is useful.
func NewStore(repo repository.ContentRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, logger: logger}
}

// Refresh reloads all websites from the repository and atomically swaps in
// the rebuilt snapshot.
func (s *Store) Refresh(ctx context.Context) error {
	websites, err := s.repo.LoadWebsites(ctx)
	if err != nil {
		return fmt.Errorf("loading websites: %w", err)
	}
	s.current.Store(&held{snap: Build(websites), websites: websites})
	s.logger.Info("content snapshot refreshed", "websites", len(websites))
	return nil
}

// Current returns the snapshot in effect right now. It is nil until the
// first Refresh succeeds.
func (s *Store) Current() content.Snapshot {
	h := s.current.Load()
	if h == nil {
		return nil
	}
	return h.snap
}

// Websites lists the website scopes of the current snapshot.
func (s *Store) Websites() []*content.Website {
	h := s.current.Load()
	if h == nil {
		return nil
	}
	return h.websites
}

// WebsiteByName finds a website scope by case-insensitive name.
func (s *Store) WebsiteByName(name string) (*content.Website, bool) {
	for _, website := range s.Websites() {
		if strings.EqualFold(website.Name, name) {
			return website, true
		}
	}
	return nil, false
}

// WebsiteByID finds a website scope in the current snapshot.
func (s *Store) WebsiteByID(id uuid.UUID) (*content.Website, bool) {
	snap := s.Current()
	if snap == nil {
		return nil, false
	}
	return snap.Website(id)
}
