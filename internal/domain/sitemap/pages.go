package sitemap

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// lookupPage resolves an app-relative page path to a page node. The lookup
// is pure with respect to request state and memoized per (mode, path). The
// only error it can return is a context cancellation.
func lookupPage(rc *Request, rawPath string, mode LookupMode) (MatchResult, error) {
	path := normalizeAppPath(rc.Website, rawPath)

	result, err := lookupPagePath(rc, path, mode)
	if err != nil {
		return MatchResult{}, err
	}
	if result.Node == nil && result.IsUnique {
		// Percent-encoded partial URLs: retry with the decoded path.
		if decoded, derr := url.PathUnescape(path); derr == nil && decoded != path {
			return lookupPagePath(rc, decoded, mode)
		}
	}
	return result, nil
}

func lookupPagePath(rc *Request, path string, mode LookupMode) (MatchResult, error) {
	key := rc.cacheKey("website", "pagelookup", mode.String()+":"+path)
	return getOrCompute(rc.Cache, key, func() (MatchResult, error) {
		return resolvePagePath(rc, path, mode)
	})
}

// resolvePagePath implements the recursive page-segment match: a literal
// full-path pass over all pages first, then parent resolution (root-only)
// followed by a child-segment match among that parent's children.
func resolvePagePath(rc *Request, path string, mode LookupMode) (MatchResult, error) {
	if err := rc.canceled(); err != nil {
		return MatchResult{}, err
	}

	if literal := matchLiteral(rc.Website.Pages, path); len(literal) > 0 {
		result := filterLanguage(rc, literal, mode)
		if result.Node != nil || !result.IsUnique {
			return result, nil
		}
	}

	parent, child, ok := splitPath(path)
	if !ok || parent == "" || child == "" {
		return MatchResult{IsUnique: true}, nil
	}

	parentResult, err := lookupPagePath(rc, parent, ModeRootOnly)
	if err != nil {
		return MatchResult{}, err
	}
	if parentResult.Node == nil {
		return MatchResult{IsUnique: parentResult.IsUnique}, nil
	}

	siblings := matchSegment(childPagesOf(rc, parentResult.Node.ID), child)
	return filterLanguage(rc, siblings, mode), nil
}

// childPagesOf returns active pages whose parent reference is the given
// root page id. Content variants of child pages participate as candidates;
// the language filter selects among them.
func childPagesOf(rc *Request, rootID uuid.UUID) []*content.Node {
	var children []*content.Node
	for _, page := range rc.Website.Pages {
		if page.Deactivated || page.ParentID == nil {
			continue
		}
		if *page.ParentID == rootID {
			children = append(children, page)
		}
	}
	return children
}
