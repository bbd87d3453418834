package sitemap

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// Resolver composes the primary website provider with the sub-providers
// into one logical sitemap tree. The trial order is fixed and significant:
// page/file resolution always precedes the sub-providers, and sub-providers
// run in their declared order.
type Resolver struct {
	primary *WebsiteProvider
	subs    []SubProvider
	logger  *slog.Logger
}

// NewResolver creates a resolver. The sub-provider slice order is the
// trial order.
func NewResolver(primary *WebsiteProvider, subs []SubProvider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{primary: primary, subs: subs, logger: logger}
}

// FindNode resolves a raw request path to a node. Misses fall through the
// sub-providers in order; when everything misses the website's not-found
// resolution is synthesized.
func (r *Resolver) FindNode(rc *Request, rawPath string) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey("resolver", "findnode", rawPath), func() (*Resolution, error) {
		res, err := r.primary.FindNode(rc, rawPath)
		if err != nil || res != nil {
			return res, err
		}
		for _, sub := range r.subs {
			if !r.installed(rc, sub) {
				continue
			}
			res, err := sub.FindNode(rc, rawPath)
			if err != nil || res != nil {
				return res, err
			}
		}
		return r.primary.NotFound(rc)
	})
}

// FindNodeWithoutAuthorization resolves a path with the access gate
// bypassed, for internal and system use.
func (r *Resolver) FindNodeWithoutAuthorization(rc *Request, rawPath string) (*Resolution, error) {
	return r.FindNode(rc.WithoutAuthorization(), rawPath)
}

// GetParentNode returns the parent resolution of a node, or nil for the
// site root. The primary tree relations are consulted first, then each
// sub-provider in order.
func (r *Resolver) GetParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey("resolver", "parent", nodeKey(node)), func() (*Resolution, error) {
		res, err := r.primary.ParentNode(rc, node)
		if err != nil || res != nil {
			return res, err
		}
		for _, sub := range r.subs {
			if !r.installed(rc, sub) {
				continue
			}
			res, err := sub.ParentNode(rc, node)
			if err != nil || res != nil {
				return res, err
			}
		}
		return nil, nil
	})
}

// GetChildNodes returns the union of all providers' children of a node,
// sorted by display order and deduplicated by id. Shortcut nodes never
// report children.
func (r *Resolver) GetChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey("resolver", "children", nodeKey(node)), func() ([]*Resolution, error) {
		if node.Kind == content.KindShortcut {
			return nil, nil
		}

		children, err := r.primary.ChildNodes(rc, node)
		if err != nil {
			return nil, err
		}
		for _, sub := range r.subs {
			if !r.installed(rc, sub) {
				continue
			}
			contribution, err := sub.ChildNodes(rc, node)
			if err != nil {
				return nil, err
			}
			children = append(children, contribution...)
		}

		children = dedupeByID(children)
		sort.SliceStable(children, func(i, j int) bool {
			a, b := children[i].Node, children[j].Node
			if a.DisplayOrder != b.DisplayOrder {
				return a.DisplayOrder < b.DisplayOrder
			}
			return false
		})
		return children, nil
	})
}

// installed checks the sub-provider's solution dependencies against the
// website's installed set.
func (r *Resolver) installed(rc *Request, sub SubProvider) bool {
	for _, name := range sub.RequiredSolutions() {
		if !rc.Website.HasSolution(name) {
			r.logger.Debug("skipping provider, solution not installed",
				"provider", sub.Name(), "solution", name, "website", rc.Website.Name)
			return false
		}
	}
	return true
}

func dedupeByID(resolutions []*Resolution) []*Resolution {
	seen := make(map[uuid.UUID]bool, len(resolutions))
	out := resolutions[:0]
	for _, res := range resolutions {
		if res == nil || res.Node == nil || seen[res.Node.ID] {
			continue
		}
		seen[res.Node.ID] = true
		out = append(out, res)
	}
	return out
}

func nodeKey(node *content.Node) string {
	return strings.Join([]string{string(node.Kind), node.ID.String()}, ":")
}
