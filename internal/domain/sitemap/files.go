package sitemap

import (
	"net/url"
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// lookupFile resolves a path to a file node hanging off a resolved page.
// File paths carry no trailing slash; the containing page is resolved in
// root-only mode since files always attach to the language-neutral root.
// Files are not expected to collide, so the first match wins.
func lookupFile(rc *Request, rawPath string) (*content.Node, error) {
	path := normalizeAppPath(rc.Website, rawPath)

	i := strings.LastIndex(path, "/")
	if i < 0 {
		return nil, nil
	}
	parentPath, name := path[:i+1], path[i+1:]
	if name == "" {
		return nil, nil
	}

	parent, err := lookupPagePath(rc, parentPath, ModeRootOnly)
	if err != nil {
		return nil, err
	}
	if parent.Node == nil {
		return nil, nil
	}

	decoded, err := url.PathUnescape(name)
	if err != nil {
		decoded = name
	}
	for _, file := range rc.Website.Files {
		if file.Deactivated || file.ParentID == nil || *file.ParentID != parent.Node.ID {
			continue
		}
		if strings.EqualFold(file.PartialURL, name) || strings.EqualFold(file.PartialURL, decoded) {
			return file, nil
		}
	}
	return nil, nil
}
