package sitemap_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
	"github.com/cmsforge/sitetree/internal/sitetest"
)

func TestForumAndThreadResolution(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("forums")
	home := pageByTitle(t, site, "Home")
	community := site.RootPage("Community", "community", home)
	forum := site.Forum(community, "General", "general", nil)
	thread := site.Thread(forum, "Welcome aboard", "welcome-aboard")

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	res, err := resolver.FindNode(rc, "/community/general/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, forum.ID, res.Node.ID)

	res, err = resolver.FindNode(rc, "/community/general/welcome-aboard/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, thread.ID, res.Node.ID)

	// Threads sit one segment below their forum, never deeper.
	res, err = resolver.FindNode(rc, "/community/general/welcome-aboard/reply/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusNotFound, res.Status)
}

func TestForumHierarchy(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("forums")
	home := pageByTitle(t, site, "Home")
	community := site.RootPage("Community", "community", home)
	forum := site.Forum(community, "General", "general", nil)
	a := site.Thread(forum, "First", "first")
	b := site.Thread(forum, "Second", "second")

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	children, err := resolver.GetChildNodes(rc, forum)
	require.NoError(t, err)
	require.Len(t, children, 2)
	require.ElementsMatch(t,
		[]string{a.Title, b.Title},
		[]string{children[0].Node.Title, children[1].Node.Title})

	parent, err := resolver.GetParentNode(rc, a)
	require.NoError(t, err)
	require.Equal(t, forum.ID, parent.Node.ID)

	parent, err = resolver.GetParentNode(rc, forum)
	require.NoError(t, err)
	require.Equal(t, community.ID, parent.Node.ID)

	pageChildren, err := resolver.GetChildNodes(rc, community)
	require.NoError(t, err)
	require.Len(t, pageChildren, 1)
	require.Equal(t, forum.ID, pageChildren[0].Node.ID)
}

func TestEventResolution(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("events")
	home := pageByTitle(t, site, "Home")
	calendar := site.RootPage("Calendar", "calendar", home)
	event := site.Event(calendar, "Launch Day", "launch-day", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	res, err := resolver.FindNode(rc, "/calendar/launch-day/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, event.ID, res.Node.ID)
	require.Equal(t, content.KindEvent, res.Node.Kind)

	children, err := resolver.GetChildNodes(rc, calendar)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, event.ID, children[0].Node.ID)

	parent, err := resolver.GetParentNode(rc, event)
	require.NoError(t, err)
	require.Equal(t, calendar.ID, parent.Node.ID)
}

func TestEventPathIsExact(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("events")
	home := pageByTitle(t, site, "Home")
	calendar := site.RootPage("Calendar", "calendar", home)
	site.Event(calendar, "Launch Day", "launch-day", time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC))

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	for _, path := range []string{"/calendar/launch-day", "/calendar/launch-day/extra/"} {
		res, err := resolver.FindNode(rc, path)
		require.NoError(t, err, path)
		require.Equal(t, sitemap.StatusNotFound, res.Status, path)
	}
}

func TestSurveyResolution(t *testing.T) {
	site := sitetest.New("example").WithStandardPages().Solutions("surveys")
	home := pageByTitle(t, site, "Home")
	feedback := site.RootPage("Feedback", "feedback", home)
	survey := site.Survey(feedback, "Annual Survey", "annual")

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	res, err := resolver.FindNode(rc, "/feedback/annual/")
	require.NoError(t, err)
	require.Equal(t, sitemap.StatusOK, res.Status)
	require.Equal(t, survey.ID, res.Node.ID)

	parent, err := resolver.GetParentNode(rc, survey)
	require.NoError(t, err)
	require.Equal(t, feedback.ID, parent.Node.ID)
}

func TestSubProvidersSkippedWithoutSolutions(t *testing.T) {
	site := sitetest.New("example").WithStandardPages()
	home := pageByTitle(t, site, "Home")
	community := site.RootPage("Community", "community", home)
	site.Forum(community, "General", "general", nil)
	site.Event(community, "Meetup", "meetup", time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC))
	site.Survey(community, "Poll", "poll")

	resolver := newResolver(nil)
	rc := newRequest(t, site, "")

	for _, path := range []string{"/community/general/", "/community/meetup/", "/community/poll/"} {
		res, err := resolver.FindNode(rc, path)
		require.NoError(t, err, path)
		require.Equal(t, sitemap.StatusNotFound, res.Status, path)
	}
}
