package sitemap_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
	"github.com/cmsforge/sitetree/internal/sitetest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// denyGate denies a fixed set of node ids.
type denyGate struct {
	denied map[uuid.UUID]bool
}

func (g denyGate) IsAccessible(_ context.Context, node *content.Node) bool {
	return !g.denied[node.ID]
}

func newResolver(gate sitemap.AccessGate) *sitemap.Resolver {
	logger := testLogger()
	return sitemap.NewResolver(
		sitemap.NewWebsiteProvider(gate, logger),
		[]sitemap.SubProvider{
			sitemap.NewBlogProvider(gate, logger),
			sitemap.NewForumProvider(gate, logger),
			sitemap.NewEventProvider(gate, logger),
			sitemap.NewSurveyProvider(gate, logger),
		},
		logger,
	)
}

func newRequest(t *testing.T, site *sitetest.Site, activeLanguage string) *sitemap.Request {
	t.Helper()
	rc, err := sitemap.NewRequest(context.Background(), site.Snapshot(), site.Website.ID, activeLanguage)
	require.NoError(t, err)
	return rc
}

func TestFindNode_HomeAndChildPage(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	site.RootPage("About", "about", home)

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	res, err := resolver.FindNode(rc, "/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, "Home", res.Node.Title)

	res, err = resolver.FindNode(rc, "/about/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, "About", res.Node.Title)

	// Pages require a trailing slash; without one the path is a miss.
	res, err = resolver.FindNode(rc, "/about")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
	require.False(t, res.Duplicate)
	require.Equal(t, "Page Not Found", res.Node.Title)
}

func TestFindNode_Idempotent(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	site.RootPage("About", "about", home)

	resolver := newResolver(nil)

	first, err := resolver.FindNode(newRequest(t, site, ""), "/about/")
	require.NoError(t, err)
	second, err := resolver.FindNode(newRequest(t, site, ""), "/about/")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParentWalk_RoundTrip(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	a := site.RootPage("A", "a", home)
	b := site.RootPage("B", "b", a)

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	res, err := resolver.FindNode(rc, "/a/b/")
	require.NoError(t, err)
	require.Equal(t, b.ID, res.Node.ID)

	parent, err := resolver.GetParentNode(rc, res.Node)
	require.NoError(t, err)
	require.Equal(t, a.ID, parent.Node.ID)

	grandparent, err := resolver.GetParentNode(rc, parent.Node)
	require.NoError(t, err)
	require.Equal(t, home.ID, grandparent.Node.ID)

	top, err := resolver.GetParentNode(rc, grandparent.Node)
	require.NoError(t, err)
	require.Nil(t, top)
}

func TestDuplicatePartialURL_IsNotSilentlyResolved(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	site.RootPage("X One", "x", home)
	site.RootPage("X Two", "x", home)

	resolver := newResolver(nil)

	res, err := resolver.FindNode(newRequest(t, site, ""), "/x/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
	require.True(t, res.Duplicate)
}

func TestLanguageFallback_PageWithoutTranslations(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	site.Language("en", true)
	site.Language("fr", true)
	home := pageByTitle(t, site, "Home")
	fresh := site.RootPage("Fresh", "fresh", home)

	resolver := newResolver(nil)

	res, err := resolver.FindNode(newRequest(t, site, "fr"), "/fresh/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, fresh.ID, res.Node.ID, "a page with no translations serves its root")
}

func TestLanguageContent_ActiveVariantWins(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	site.Language("en", true)
	fr := site.Language("fr", true)
	site.Language("de", true)
	home := pageByTitle(t, site, "Home")
	news := site.RootPage("News", "news", home)
	frNews := site.ContentPage(news, fr, "Nouvelles")

	resolver := newResolver(nil)

	res, err := resolver.FindNode(newRequest(t, site, "fr"), "/news/")
	require.NoError(t, err)
	require.Equal(t, frNews.ID, res.Node.ID)

	// Translations exist, but not for the active language: distinct from
	// an ordinary not-found.
	_, err = resolver.FindNode(newRequest(t, site, "de"), "/news/")
	require.ErrorIs(t, err, sitemap.ErrLanguageUnavailable)
}

func TestLanguageUnavailable_UnpublishedLanguage(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	site.Language("en", true)
	fr := site.Language("fr", false)
	home := pageByTitle(t, site, "Home")
	news := site.RootPage("News", "news", home)
	site.ContentPage(news, fr, "Nouvelles")

	resolver := newResolver(nil)

	_, err := resolver.FindNode(newRequest(t, site, "fr"), "/news/")
	require.ErrorIs(t, err, sitemap.ErrLanguageUnavailable)
}

func TestFileResolution(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	site.Language("en", true)
	site.Language("fr", true)
	home := pageByTitle(t, site, "Home")
	docs := site.RootPage("Docs", "docs", home)
	logo := site.File(docs, "logo.png")

	resolver := newResolver(nil)

	for _, lang := range []string{"", "en", "fr"} {
		res, err := resolver.FindNode(newRequest(t, site, lang), "/docs/logo.png")
		require.NoError(t, err)
		require.Equal(t, sitemap.StatusOK, res.Status)
		require.Equal(t, logo.ID, res.Node.ID)
	}

	res, err := resolver.FindNode(newRequest(t, site, ""), "/docs/missing.jpg")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
}

func TestPageResolutionPrecedesSubProviders(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("blogs")
	home := pageByTitle(t, site, "Home")
	newsPage := site.RootPage("News Page", "news", home)
	site.Blog(home, "News Blog", "news", nil)

	resolver := newResolver(nil)

	res, err := resolver.FindNode(newRequest(t, site, ""), "/news/")
	require.NoError(t, err)
	require.Equal(t, content.KindPage, res.Node.Kind)
	require.Equal(t, newsPage.ID, res.Node.ID, "page match must win over an identically named blog")
}

func TestQueryStringIDOverride(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	about := site.RootPage("About", "about", home)

	resolver := newResolver(nil)

	res, err := resolver.FindNode(newRequest(t, site, ""), "/no/such/path/?pageid="+about.ID.String())
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, about.ID, res.Node.ID)

	// A foreign or malformed id falls through to not-found.
	res, err = resolver.FindNode(newRequest(t, site, ""), "/no/such/path/?pageid="+uuid.NewString())
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
}

func TestAccessGate_SubstitutesAccessDeniedPage(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	secret := site.RootPage("Secret", "secret", home)

	gate := denyGate{denied: map[uuid.UUID]bool{secret.ID: true}}
	resolver := newResolver(gate)

	res, err := resolver.FindNode(newRequest(t, site, ""), "/secret/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusForbidden, res.Status)
	require.Equal(t, "Access Denied", res.Node.Title)
}

func TestAccessGate_DeniedAccessDeniedPageFailsSafe(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	secret := site.RootPage("Secret", "secret", home)
	denied := pageByTitle(t, site, "Access Denied")

	gate := denyGate{denied: map[uuid.UUID]bool{secret.ID: true, denied.ID: true}}
	resolver := newResolver(gate)

	res, err := resolver.FindNode(newRequest(t, site, ""), "/secret/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
	require.Nil(t, res.Node, "must not recurse into the access-denied page")
}

func TestFindNodeWithoutAuthorization(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	secret := site.RootPage("Secret", "secret", home)

	gate := denyGate{denied: map[uuid.UUID]bool{secret.ID: true}}
	resolver := newResolver(gate)

	res, err := resolver.FindNodeWithoutAuthorization(newRequest(t, site, ""), "/secret/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, secret.ID, res.Node.ID)
}

func TestMissingNotFoundMarkerIsFatal(t *testing.T) {
	site := sitetest.New("broken")
	home := site.RootPage("Home", "")
	site.Marker(content.MarkerHome, home)

	resolver := newResolver(nil)

	_, err := resolver.FindNode(newRequest(t, site, ""), "/nope/")
	require.ErrorIs(t, err, sitemap.ErrSiteConfiguration)
}

func TestSelfParentFailsLoudly(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	page := site.RootPage("Loop", "loop", home)
	page.ParentID = &page.ID

	resolver := newResolver(nil)

	_, err := resolver.GetParentNode(newRequest(t, site, ""), page)
	require.ErrorIs(t, err, sitemap.ErrParentInvariant)
}

func TestShortcutsNeverReportChildren(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	about := site.RootPage("About", "about", home)
	shortcut := site.Shortcut(home, "go-about", about)

	resolver := newResolver(nil)

	children, err := resolver.GetChildNodes(newRequest(t, site, ""), shortcut)
	require.NoError(t, err)
	require.Empty(t, children)
}

func TestChildNodesSortedByDisplayOrder(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	c := site.RootPage("C", "c", home)
	a := site.RootPage("A", "a", home)
	b := site.RootPage("B", "b", home)
	c.DisplayOrder = 3
	a.DisplayOrder = 1
	b.DisplayOrder = 2

	resolver := newResolver(nil)

	children, err := resolver.GetChildNodes(newRequest(t, site, ""), home)
	require.NoError(t, err)

	var order []string
	for _, child := range children {
		if child.Node.Kind == content.KindPage && child.Node.DisplayOrder > 0 {
			order = append(order, child.Node.Title)
		}
	}
	require.Equal(t, []string{"A", "B", "C"}, order)
}

func TestMarkerRouteOverridesPageLookup(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	site.RootPage("Search", "search", home)

	logger := testLogger()
	routed := sitemap.NewResolver(
		sitemap.NewWebsiteProvider(nil, logger, sitemap.WithMarkerRoute("/search/", content.MarkerHome)),
		nil, logger,
	)

	res, err := routed.FindNode(newRequest(t, site, ""), "/Search/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, "Home", res.Node.Title, "routed path serves the marker target")

	plain := sitemap.NewResolver(sitemap.NewWebsiteProvider(nil, logger), nil, logger)
	res, err = plain.FindNode(newRequest(t, site, ""), "/search/")
	require.NoError(t, err)
	require.Equal(t, "Search", res.Node.Title, "unrouted path falls back to the page")
}

func pageByTitle(t *testing.T, site *sitetest.Site, title string) *content.Node {
	t.Helper()
	for _, page := range site.Website.Pages {
		if page.Title == title {
			return page
		}
	}
	t.Fatalf("no page titled %q", title)
	return nil
}
