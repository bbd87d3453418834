package sitemap

import (
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// maxPathDepth caps parent walks; deeper trees indicate a reference cycle.
const maxPathDepth = 64

// rootVariant maps a content variant to its root page; roots map to
// themselves. Returns nil when the root reference is dangling.
func rootVariant(rc *Request, page *content.Node) *content.Node {
	if !page.IsContent() {
		return page
	}
	if page.RootID == nil {
		return nil
	}
	root, ok := rc.Snapshot.Node(content.KindPage, *page.RootID)
	if !ok {
		return nil
	}
	return root
}

// pagePath computes the canonical app-relative path of a page: ancestor
// partial URLs joined by slashes, with the page trailing slash. The walk
// follows root parent references only.
func pagePath(rc *Request, page *content.Node) (string, bool) {
	node := rootVariant(rc, page)
	if node == nil {
		return "", false
	}

	var segments []string
	for depth := 0; ; depth++ {
		if depth > maxPathDepth {
			return "", false
		}
		if node.ParentID == nil {
			// The site root contributes no segment of its own.
			break
		}
		seg := strings.Trim(node.PartialURL, "/")
		if seg == "" {
			return "", false
		}
		segments = append(segments, seg)
		parent, ok := rc.Snapshot.Node(content.KindPage, *node.ParentID)
		if !ok {
			return "", false
		}
		node = parent
	}

	if len(segments) == 0 {
		return "/", true
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return "/" + strings.Join(segments, "/") + "/", true
}

// childEntityPath is the canonical path of an entity hanging off a page:
// the page path plus the entity partial URL and a trailing slash.
func childEntityPath(rc *Request, parentPage *content.Node, partial string) (string, bool) {
	base, ok := pagePath(rc, parentPage)
	if !ok {
		return "", false
	}
	seg := strings.Trim(partial, "/")
	if seg == "" {
		return "", false
	}
	return base + seg + "/", true
}
