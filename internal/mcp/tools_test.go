package mcp

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
	"github.com/cmsforge/sitetree/internal/repository/mocks"
	"github.com/cmsforge/sitetree/internal/sitetest"
)

func newTestHandler(t *testing.T) (*Handler, *sitetest.Site) {
	t.Helper()
	site := sitetest.New("Example").WithStandardPages().Solutions("blogs")
	var home *content.Node
	for _, page := range site.Website.Pages {
		if page.Title == "Home" {
			home = page
		}
	}
	require.NotNil(t, home)
	site.RootPage("About", "about", home)
	site.Blog(home, "Engineering", "engineering", nil)

	repo := new(mocks.ContentRepository)
	repo.On("LoadWebsites", mock.Anything).Return([]*content.Website{site.Website}, nil)

	logger := slog.New(slog.DiscardHandler)
	store := contentmap.NewStore(repo, logger)
	require.NoError(t, store.Refresh(context.Background()))

	resolver := sitemap.NewResolver(
		sitemap.NewWebsiteProvider(nil, logger),
		[]sitemap.SubProvider{sitemap.NewBlogProvider(nil, logger)},
		logger,
	)
	return &Handler{store: store, resolver: resolver, logger: logger}, site
}

func TestResolvePathTool(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	_, result, err := h.resolvePath(ctx, nil, ResolvePathParams{Path: "/about/"})
	require.NoError(t, err)
	require.Equal(t, "ok", result.Status)
	require.Equal(t, "About", result.Node.Title)

	_, result, err = h.resolvePath(ctx, nil, ResolvePathParams{Path: "/engineering/"})
	require.NoError(t, err)
	require.Equal(t, content.KindBlog, result.Node.Kind)

	_, result, err = h.resolvePath(ctx, nil, ResolvePathParams{Path: "/missing/"})
	require.NoError(t, err)
	require.Equal(t, "not_found", result.Status)

	_, _, err = h.resolvePath(ctx, nil, ResolvePathParams{})
	require.Error(t, err)

	_, _, err = h.resolvePath(ctx, nil, ResolvePathParams{Website: "nope", Path: "/about/"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "WEBSITE_NOT_FOUND", apiErr.Code)
}

func TestTreeTools(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	_, resolved, err := h.resolvePath(ctx, nil, ResolvePathParams{Path: "/about/"})
	require.NoError(t, err)

	_, parent, err := h.getParent(ctx, nil, NodeParams{NodeID: resolved.Node.ID.String()})
	require.NoError(t, err)
	require.Equal(t, "Home", parent.Node.Title)

	_, children, err := h.getChildren(ctx, nil, NodeParams{NodeID: parent.Node.ID.String()})
	require.NoError(t, err)

	var titles []string
	for _, node := range children.Nodes {
		titles = append(titles, node.Title)
	}
	require.Contains(t, titles, "About")
	require.Contains(t, titles, "Engineering")

	// Site root has no parent.
	_, top, err := h.getParent(ctx, nil, NodeParams{NodeID: parent.Node.ID.String()})
	require.NoError(t, err)
	require.Nil(t, top.Node)

	_, _, err = h.getChildren(ctx, nil, NodeParams{NodeID: "not-a-uuid"})
	require.Error(t, err)
}

func TestListWebsitesAndRefreshTools(t *testing.T) {
	h, site := newTestHandler(t)
	ctx := context.Background()

	_, list, err := h.listWebsites(ctx, nil, ListWebsitesParams{})
	require.NoError(t, err)
	require.Len(t, list.Websites, 1)
	require.Equal(t, site.Website.Name, list.Websites[0].Name)
	require.Contains(t, list.Websites[0].Solutions, "blogs")

	_, refreshed, err := h.refreshContent(ctx, nil, RefreshParams{})
	require.NoError(t, err)
	require.Equal(t, 1, refreshed.Websites)
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("unmapped")))

	apiErr := MapError(sitemap.ErrLanguageUnavailable)
	require.NotNil(t, apiErr)
	require.Equal(t, "LANGUAGE_UNAVAILABLE", apiErr.Code)

	apiErr = MapError(sitemap.ErrSiteConfiguration)
	require.Equal(t, "SITE_CONFIGURATION", apiErr.Code)
}
