package sitemap

import (
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// splitPath splits an app-relative page path into its parent remainder and
// right-most segment. Page paths carry a trailing slash; "/a/b/" yields
// ("/a/", "b"). The root path "/" yields ("", "") with ok still true.
// An explicit right-to-left scan, greedy on the right-most segment.
func splitPath(path string) (parent, child string, ok bool) {
	if !strings.HasSuffix(path, "/") {
		return "", "", false
	}
	trimmed := path[:len(path)-1]
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		// Only the degenerate root path has no interior slash.
		return "", "", trimmed == ""
	}
	return trimmed[:i+1], trimmed[i+1:], true
}

// literalMatch reports whether a partial URL matches the full path as a
// literal. This covers partial URLs that legitimately contain slashes and
// the degenerate root match (home page with an empty or "/" partial URL).
func literalMatch(partial, path string) bool {
	if strings.EqualFold(partial, path) {
		return true
	}
	if path == "/" && (partial == "" || partial == "/") {
		return true
	}
	if strings.Contains(partial, "/") {
		return strings.EqualFold(strings.Trim(partial, "/"), strings.Trim(path, "/"))
	}
	return false
}

// segmentMatch reports whether a partial URL matches one path segment.
// Empty or whitespace segments never match.
func segmentMatch(partial, seg string) bool {
	if strings.TrimSpace(seg) == "" {
		return false
	}
	return strings.EqualFold(strings.Trim(partial, "/"), seg)
}

// matchLiteral returns active candidates whose partial URL matches the full
// path literally.
func matchLiteral(candidates []*content.Node, path string) []*content.Node {
	var matches []*content.Node
	for _, node := range candidates {
		if node.Deactivated {
			continue
		}
		if literalMatch(node.PartialURL, path) {
			matches = append(matches, node)
		}
	}
	return matches
}

// matchSegment returns active candidates whose partial URL matches the
// given path segment.
func matchSegment(candidates []*content.Node, seg string) []*content.Node {
	var matches []*content.Node
	for _, node := range candidates {
		if node.Deactivated {
			continue
		}
		if segmentMatch(node.PartialURL, seg) {
			matches = append(matches, node)
		}
	}
	return matches
}

// normalizeAppPath strips the website base path and guarantees a leading
// slash. Trailing slashes are preserved: pages carry one, files do not.
func normalizeAppPath(website *content.Website, path string) string {
	if base := strings.Trim(website.BasePath, "/"); base != "" {
		prefix := "/" + base
		if hasPrefixFold(path, prefix) {
			path = path[len(prefix):]
		}
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// hasPrefixFold is a case-insensitive strings.HasPrefix.
func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
