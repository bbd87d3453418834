package sitemap

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// WebsiteProvider is the primary hierarchy provider: page and file
// resolution, site-marker routes, query-string id overrides, the access
// gate, and synthesis of the not-found and access-denied resolutions.
type WebsiteProvider struct {
	gate   AccessGate
	logger *slog.Logger

	// markerRoutes maps normalized special paths to site-marker names,
	// checked before ordinary page lookup.
	markerRoutes map[string]string
}

// WebsiteProviderOption configures a WebsiteProvider.
type WebsiteProviderOption func(*WebsiteProvider)

// WithMarkerRoute registers a special route resolved via a site marker
// instead of the page tree.
func WithMarkerRoute(path, marker string) WebsiteProviderOption {
	return func(p *WebsiteProvider) {
		p.markerRoutes[strings.ToLower(path)] = marker
	}
}

// NewWebsiteProvider creates the primary provider.
func NewWebsiteProvider(gate AccessGate, logger *slog.Logger, opts ...WebsiteProviderOption) *WebsiteProvider {
	if gate == nil {
		gate = AllowAll{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &WebsiteProvider{
		gate:         gate,
		logger:       logger,
		markerRoutes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the provider in logs and cache keys.
func (p *WebsiteProvider) Name() string { return "website" }

// FindNode resolves a raw request path to a page or file resolution.
// A (nil, nil) return is an ordinary miss: the composite resolver falls
// through to the sub-providers.
func (p *WebsiteProvider) FindNode(rc *Request, rawPath string) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey(p.Name(), "findnode", rawPath), func() (*Resolution, error) {
		return p.findNode(rc, rawPath)
	})
}

func (p *WebsiteProvider) findNode(rc *Request, rawPath string) (*Resolution, error) {
	if err := rc.canceled(); err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawPath)
	if err != nil {
		return nil, nil
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	path = rc.Language.StripCode(path)

	if marker, ok := p.markerRoutes[strings.ToLower(path)]; ok {
		target, err := p.markerTarget(rc, marker)
		if err != nil {
			return nil, err
		}
		return p.resolve(rc, target)
	}

	pageResult, err := lookupPage(rc, path, ModeLanguageContent)
	if err != nil {
		return nil, err
	}
	if !pageResult.IsUnique {
		p.logger.Warn("ambiguous path maps to multiple root-eligible pages",
			"website", rc.Website.Name, "path", path)
		notFound, err := p.NotFound(rc)
		if err != nil {
			return nil, err
		}
		notFound.Duplicate = true
		return notFound, nil
	}
	if pageResult.Node != nil {
		if err := p.checkLanguage(rc, pageResult.Node); err != nil {
			return nil, err
		}
		return p.resolve(rc, pageResult.Node)
	}

	// The page exists but only as a root without a usable translation:
	// callers must be able to tell this apart from a genuine absence.
	if rc.Language.Enabled {
		rootResult, err := lookupPage(rc, path, ModeRootOnly)
		if err != nil {
			return nil, err
		}
		if rootResult.Node != nil && rootResult.IsUnique {
			return nil, fmt.Errorf("%w: %s", ErrLanguageUnavailable, path)
		}
	}

	file, err := lookupFile(rc, path)
	if err != nil {
		return nil, err
	}
	if file != nil {
		return p.resolve(rc, file)
	}

	if override := p.queryStringOverride(rc, parsed); override != nil {
		return p.resolve(rc, override)
	}

	return nil, nil
}

// queryStringOverride honors an explicit ?pageid=GUID addressing a page of
// this website directly.
func (p *WebsiteProvider) queryStringOverride(rc *Request, parsed *url.URL) *content.Node {
	raw := parsed.Query().Get("pageid")
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	page, ok := rc.Snapshot.Node(content.KindPage, id)
	if !ok || page.Deactivated || page.WebsiteID != rc.Website.ID {
		return nil
	}
	return languageVariant(rc, page)
}

// checkLanguage enforces the multi-language publication rules on a page
// selected in language-content mode.
func (p *WebsiteProvider) checkLanguage(rc *Request, node *content.Node) error {
	if !rc.Language.Enabled || node.Kind != content.KindPage {
		return nil
	}
	if node.IsContent() && !rc.Language.ActivePublished() {
		return fmt.Errorf("%w: language %q is not published", ErrLanguageUnavailable, languageCode(rc))
	}
	return nil
}

// resolve gates a node and produces the final resolution. A denied node is
// substituted with the Access Denied marker target tagged Forbidden; a
// missing or deactivated marker target is a configuration error, and when
// the access-denied page is itself denied resolution fails safe to a bare
// 404 rather than recursing.
func (p *WebsiteProvider) resolve(rc *Request, node *content.Node) (*Resolution, error) {
	if node == nil {
		return nil, nil
	}
	if rc.skipGate || p.gate.IsAccessible(rc.Ctx, node) {
		return &Resolution{Node: node, Status: StatusOK, RewriteTarget: p.rewriteTarget(rc, node)}, nil
	}

	denied, err := p.markerTarget(rc, content.MarkerAccessDenied)
	if err != nil {
		return nil, err
	}
	if !p.gate.IsAccessible(rc.Ctx, denied) {
		return &Resolution{Status: StatusNotFound}, nil
	}
	return &Resolution{Node: denied, Status: StatusForbidden, RewriteTarget: p.rewriteTarget(rc, denied)}, nil
}

// NotFound synthesizes the website's not-found resolution from the Page
// Not Found marker. A missing marker or deactivated target is a fatal
// configuration error, distinct from an ordinary miss.
func (p *WebsiteProvider) NotFound(rc *Request) (*Resolution, error) {
	target, err := p.markerTarget(rc, content.MarkerNotFound)
	if err != nil {
		return nil, err
	}
	return &Resolution{Node: target, Status: StatusNotFound, RewriteTarget: p.rewriteTarget(rc, target)}, nil
}

// markerTarget resolves a site marker to the language-appropriate variant
// of its target page.
func (p *WebsiteProvider) markerTarget(rc *Request, marker string) (*content.Node, error) {
	id, ok := rc.Website.SiteMarkers[marker]
	if !ok {
		return nil, fmt.Errorf("%w: marker %q", ErrSiteConfiguration, marker)
	}
	page, ok := rc.Snapshot.Node(content.KindPage, id)
	if !ok || page.Deactivated {
		return nil, fmt.Errorf("%w: marker %q target", ErrSiteConfiguration, marker)
	}
	return languageVariant(rc, page), nil
}

func (p *WebsiteProvider) rewriteTarget(rc *Request, node *content.Node) string {
	if node == nil || node.TemplateID == nil {
		return ""
	}
	tmpl, ok := rc.Website.PageTemplates[*node.TemplateID]
	if !ok {
		return ""
	}
	return tmpl.RewriteURL
}

// ParentNode returns the parent resolution for pages, files and shortcuts.
// Parent references point at root page variants only; self-parent and
// root-with-parent conditions are invariant violations and fail loudly.
func (p *WebsiteProvider) ParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	switch node.Kind {
	case content.KindPage, content.KindFile, content.KindShortcut:
	default:
		return nil, nil
	}

	subject := node
	if node.Kind == content.KindPage {
		subject = rootVariant(rc, node)
		if subject == nil {
			return nil, nil
		}
	}
	if subject.ParentID == nil {
		return nil, nil
	}
	if *subject.ParentID == node.ID || *subject.ParentID == subject.ID {
		return nil, fmt.Errorf("%w: node %s is its own parent", ErrParentInvariant, node.ID)
	}

	parent, ok := rc.Snapshot.Node(content.KindPage, *subject.ParentID)
	if !ok || parent.Deactivated {
		return nil, nil
	}
	if homeID, ok := rc.Website.SiteMarkers[content.MarkerHome]; ok && subject.ID == homeID && node.Kind == content.KindPage {
		return nil, fmt.Errorf("%w: site root %s resolved a parent", ErrParentInvariant, node.ID)
	}
	return p.resolve(rc, languageVariant(rc, parent))
}

// ChildNodes returns a page's child pages, files and shortcuts. Shortcut
// nodes never report children. Nodes the gate denies are omitted.
func (p *WebsiteProvider) ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	if node.Kind != content.KindPage {
		return nil, nil
	}
	root := rootVariant(rc, node)
	if root == nil {
		return nil, nil
	}

	var children []*Resolution
	appendChild := func(child *content.Node) {
		if rc.skipGate || p.gate.IsAccessible(rc.Ctx, child) {
			children = append(children, &Resolution{Node: child, Status: StatusOK, RewriteTarget: p.rewriteTarget(rc, child)})
		}
	}

	for _, page := range rc.Website.Pages {
		if page.Deactivated || !page.RootEligible() || page.ParentID == nil || *page.ParentID != root.ID {
			continue
		}
		appendChild(languageVariant(rc, page))
	}
	for _, file := range rc.Website.Files {
		if file.Deactivated || file.ParentID == nil || *file.ParentID != root.ID {
			continue
		}
		appendChild(file)
	}
	for _, shortcut := range rc.Website.Shortcuts {
		if shortcut.Deactivated || shortcut.ParentID == nil || *shortcut.ParentID != root.ID {
			continue
		}
		appendChild(shortcut)
	}
	return children, nil
}

// languageVariant maps a root page to its active-language content variant
// when one exists; otherwise the root itself.
func languageVariant(rc *Request, page *content.Node) *content.Node {
	if page == nil || page.IsContent() || !rc.Language.Enabled {
		return page
	}
	activeID := rc.Language.ActiveID()
	if activeID == nil {
		return page
	}
	for _, candidate := range rc.Website.Pages {
		if candidate.Deactivated || !candidate.IsContent() {
			continue
		}
		if candidate.RootID != nil && *candidate.RootID == page.ID &&
			candidate.LanguageID != nil && *candidate.LanguageID == *activeID {
			return candidate
		}
	}
	return page
}

func languageCode(rc *Request) string {
	if rc.Language.Active == nil {
		return ""
	}
	return rc.Language.Active.Code
}
