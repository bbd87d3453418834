package contentmap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/repository/mocks"
)

func testWebsite(name string) *content.Website {
	isRoot := true
	home := &content.Node{
		ID:     uuid.New(),
		Kind:   content.KindPage,
		Name:   "Home",
		Title:  "Home",
		IsRoot: &isRoot,
	}
	return &content.Website{
		ID:          uuid.New(),
		Name:        name,
		Pages:       []*content.Node{home},
		SiteMarkers: map[string]uuid.UUID{content.MarkerHome: home.ID},
	}
}

func TestStore_RefreshAndCurrent(t *testing.T) {
	repo := new(mocks.ContentRepository)
	store := contentmap.NewStore(repo, nil)

	require.Nil(t, store.Current(), "empty before first refresh")
	require.Nil(t, store.Websites())

	website := testWebsite("Example")
	repo.On("LoadWebsites", context.Background()).Return([]*content.Website{website}, nil).Once()

	err := store.Refresh(context.Background())
	require.NoError(t, err)

	snap := store.Current()
	require.NotNil(t, snap)
	got, ok := snap.Website(website.ID)
	require.True(t, ok)
	require.Equal(t, website.Name, got.Name)

	node, ok := snap.Node(content.KindPage, website.Pages[0].ID)
	require.True(t, ok)
	require.Equal(t, "Home", node.Title)

	repo.AssertExpectations(t)
}

func TestStore_RefreshSwapsSnapshot(t *testing.T) {
	repo := new(mocks.ContentRepository)
	store := contentmap.NewStore(repo, nil)

	first := testWebsite("First")
	second := testWebsite("Second")
	repo.On("LoadWebsites", context.Background()).Return([]*content.Website{first}, nil).Once()
	repo.On("LoadWebsites", context.Background()).Return([]*content.Website{second}, nil).Once()

	require.NoError(t, store.Refresh(context.Background()))
	pinned := store.Current()

	require.NoError(t, store.Refresh(context.Background()))

	// The pinned snapshot still resolves the old site; the store serves the
	// new one.
	_, ok := pinned.Website(first.ID)
	require.True(t, ok)
	_, ok = store.Current().Website(first.ID)
	require.False(t, ok)
	_, ok = store.Current().Website(second.ID)
	require.True(t, ok)
}

func TestStore_RefreshFailureKeepsSnapshot(t *testing.T) {
	repo := new(mocks.ContentRepository)
	store := contentmap.NewStore(repo, nil)

	website := testWebsite("Example")
	repo.On("LoadWebsites", context.Background()).Return([]*content.Website{website}, nil).Once()
	repo.On("LoadWebsites", context.Background()).Return(nil, errors.New("db gone")).Once()

	require.NoError(t, store.Refresh(context.Background()))
	require.Error(t, store.Refresh(context.Background()))

	_, ok := store.Current().Website(website.ID)
	require.True(t, ok, "failed refresh must not clobber the snapshot")
}

func TestStore_WebsiteLookups(t *testing.T) {
	repo := new(mocks.ContentRepository)
	store := contentmap.NewStore(repo, nil)

	website := testWebsite("Example")
	repo.On("LoadWebsites", context.Background()).Return([]*content.Website{website}, nil).Once()
	require.NoError(t, store.Refresh(context.Background()))

	got, ok := store.WebsiteByName("EXAMPLE")
	require.True(t, ok)
	require.Equal(t, website.ID, got.ID)

	_, ok = store.WebsiteByName("nope")
	require.False(t, ok)

	got, ok = store.WebsiteByID(website.ID)
	require.True(t, ok)
	require.Equal(t, website.Name, got.Name)

	_, ok = store.WebsiteByID(uuid.New())
	require.False(t, ok)
}
