package sitemap

import (
	"context"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// AccessGate decides whether a resolved node may be served to the current
// caller. The engine treats it as an opaque predicate.
type AccessGate interface {
	IsAccessible(ctx context.Context, node *content.Node) bool
}

// AllowAll is the gate that admits everything.
type AllowAll struct{}

func (AllowAll) IsAccessible(context.Context, *content.Node) bool { return true }

// SubProvider contributes one entity family (blogs, forums, events,
// surveys) to the logical sitemap tree. Providers are tried in a fixed
// declared order after the primary page/file lookup; a nil Resolution with
// a nil error is an ordinary miss.
type SubProvider interface {
	// Name identifies the provider in logs and cache keys.
	Name() string

	// RequiredSolutions lists the solution packages that must be installed
	// on the website for this provider to participate.
	RequiredSolutions() []string

	// FindNode resolves a raw path to a node of this provider's kinds.
	FindNode(rc *Request, rawPath string) (*Resolution, error)

	// ChildNodes returns this provider's children of the given node.
	ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error)

	// ParentNode returns the parent of a node this provider owns, or nil
	// when the node is not its concern.
	ParentNode(rc *Request, node *content.Node) (*Resolution, error)
}
