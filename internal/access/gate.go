// Package access provides the node access gate applied during sitemap
// resolution. Rules deny individual nodes by id; a denied root page also
// denies its language content variants.
package access

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// Gate is a deny-list access gate. The zero value allows everything.
type Gate struct {
	logger *slog.Logger
	denied map[uuid.UUID]struct{}
}

// NewGate creates a gate denying the given node ids.
func NewGate(deniedIDs []uuid.UUID, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	denied := make(map[uuid.UUID]struct{}, len(deniedIDs))
	for _, id := range deniedIDs {
		denied[id] = struct{}{}
	}
	return &Gate{logger: logger, denied: denied}
}

// IsAccessible reports whether the node passes the deny rules.
func (g *Gate) IsAccessible(_ context.Context, node *content.Node) bool {
	if g == nil || len(g.denied) == 0 || node == nil {
		return true
	}
	if _, ok := g.denied[node.ID]; ok {
		g.logger.Debug("access denied", "node", node.ID, "name", node.Name)
		return false
	}
	if node.RootID != nil {
		if _, ok := g.denied[*node.RootID]; ok {
			g.logger.Debug("access denied via root", "node", node.ID, "root", *node.RootID)
			return false
		}
	}
	return true
}
