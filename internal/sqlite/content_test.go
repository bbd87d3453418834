package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/repository"
	"github.com/cmsforge/sitetree/internal/sitetest"
)

func newTestSite(t *testing.T) *sitetest.Site {
	t.Helper()
	site := sitetest.New("Example Site").WithStandardPages().Solutions("blogs", "forums")
	site.Language("en", true)
	fr := site.Language("fr", true)

	var home *content.Node
	for _, page := range site.Website.Pages {
		if page.Title == "Home" {
			home = page
		}
	}
	require.NotNil(t, home)

	news := site.RootPage("News", "news", home)
	site.ContentPage(news, fr, "Nouvelles")
	site.File(news, "press-kit.zip").Attachment = &content.Attachment{
		FileName:    "press-kit.zip",
		ContentType: "application/zip",
		Size:        2048,
	}
	site.Shortcut(home, "latest", news)

	blog := site.Blog(home, "Engineering", "engineering", nil)
	post := site.BlogPost(blog, "Hello", "hello", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	post.Tags = []string{"go", "announcements"}

	forum := site.Forum(news, "General", "general", nil)
	site.Thread(forum, "Welcome", "welcome")
	site.Event(home, "Launch", "launch", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))
	site.Survey(home, "Feedback", "feedback")
	return site
}

func TestImportAndLoadWebsites(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	site := newTestSite(t)
	err := repo.ImportWebsite(ctx, site.Website)
	require.NoError(t, err)

	websites, err := repo.LoadWebsites(ctx)
	require.NoError(t, err)
	require.Len(t, websites, 1)

	loaded := websites[0]
	require.Equal(t, site.Website.ID, loaded.ID)
	require.Equal(t, "Example Site", loaded.Name)
	require.Equal(t, site.Website.DefaultLanguageID, loaded.DefaultLanguageID)
	require.Len(t, loaded.Languages, 2)
	require.ElementsMatch(t, []string{"blogs", "forums"}, loaded.Solutions)

	require.Len(t, loaded.Pages, len(site.Website.Pages))
	require.Len(t, loaded.Files, 1)
	require.Len(t, loaded.Shortcuts, 1)
	require.Len(t, loaded.Blogs, 1)
	require.Len(t, loaded.BlogPosts, 1)
	require.Len(t, loaded.Forums, 1)
	require.Len(t, loaded.ForumThreads, 1)
	require.Len(t, loaded.Events, 1)
	require.Len(t, loaded.Surveys, 1)

	require.Len(t, loaded.SiteMarkers, 3)
	require.Equal(t,
		site.Website.SiteMarkers[content.MarkerHome],
		loaded.SiteMarkers[content.MarkerHome])
}

func TestLoadWebsites_RoundTripsNodeFields(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	site := newTestSite(t)
	require.NoError(t, repo.ImportWebsite(ctx, site.Website))

	websites, err := repo.LoadWebsites(ctx)
	require.NoError(t, err)
	loaded := websites[0]

	file := loaded.Files[0]
	require.NotNil(t, file.Attachment)
	require.Equal(t, "press-kit.zip", file.Attachment.FileName)
	require.Equal(t, "application/zip", file.Attachment.ContentType)
	require.Equal(t, int64(2048), file.Attachment.Size)
	require.NotNil(t, file.ParentID)

	post := loaded.BlogPosts[0]
	require.NotNil(t, post.PublishedAt)
	require.True(t, post.PublishedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.Equal(t, []string{"go", "announcements"}, post.Tags)

	shortcut := loaded.Shortcuts[0]
	require.NotNil(t, shortcut.TargetID)

	// Tri-state is_root survives: content variants stay false, roots true.
	var roots, variants int
	for _, page := range loaded.Pages {
		require.NotNil(t, page.IsRoot)
		if *page.IsRoot {
			roots++
		} else {
			variants++
		}
	}
	require.Equal(t, 1, variants)
	require.Equal(t, len(loaded.Pages)-1, roots)
}

func TestHasWebsites(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	has, err := repo.HasWebsites(ctx)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, repo.ImportWebsite(ctx, newTestSite(t).Website))

	has, err = repo.HasWebsites(ctx)
	require.NoError(t, err)
	require.True(t, has)
}

func TestImportWebsite_DuplicateName(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ImportWebsite(ctx, newTestSite(t).Website))

	err := repo.ImportWebsite(ctx, newTestSite(t).Website)
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestImportWebsite_Invalid(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	err := repo.ImportWebsite(ctx, nil)
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	err = repo.ImportWebsite(ctx, &content.Website{ID: uuid.New()})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestDeleteWebsite(t *testing.T) {
	db := NewTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	site := newTestSite(t)
	require.NoError(t, repo.ImportWebsite(ctx, site.Website))

	err := repo.DeleteWebsite(ctx, site.Website.ID)
	require.NoError(t, err)

	has, err := repo.HasWebsites(ctx)
	require.NoError(t, err)
	require.False(t, has)

	err = repo.DeleteWebsite(ctx, site.Website.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
