package sitemap

import (
	"log/slog"
	"net/url"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// subBase carries the collaborators shared by all sub-providers.
type subBase struct {
	gate   AccessGate
	logger *slog.Logger
}

func newSubBase(gate AccessGate, logger *slog.Logger) subBase {
	if gate == nil {
		gate = AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return subBase{gate: gate, logger: logger}
}

// accessible applies the gate; sub-provider results are access-gated at the
// source, so a denied entity is simply not found here.
func (b subBase) accessible(rc *Request, node *content.Node) bool {
	return rc.skipGate || b.gate.IsAccessible(rc.Ctx, node)
}

func (b subBase) okResolution(rc *Request, node *content.Node) *Resolution {
	if node == nil || !b.accessible(rc, node) {
		return nil
	}
	return &Resolution{Node: node, Status: StatusOK}
}

// requestPath extracts the app-relative, language-stripped path from a raw
// request path.
func requestPath(rc *Request, rawPath string) (string, bool) {
	parsed, err := url.Parse(rawPath)
	if err != nil {
		return "", false
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	return normalizeAppPath(rc.Website, rc.Language.StripCode(path)), true
}

// parentPage resolves a node's parent page from the snapshot.
func parentPage(rc *Request, node *content.Node) *content.Node {
	if node.ParentID == nil {
		return nil
	}
	page, ok := rc.Snapshot.Node(content.KindPage, *node.ParentID)
	if !ok || page.Deactivated {
		return nil
	}
	return page
}
