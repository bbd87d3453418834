package sitetest

import (
	"time"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/content"
)

// Site builds an in-memory website scope for tests. Helpers return the
// created node so fixtures can chain parents and markers without ids.
type Site struct {
	Website *content.Website
}

// New creates an empty website named name.
func New(name string) *Site {
	return &Site{
		Website: &content.Website{
			ID:            uuid.New(),
			Name:          name,
			SiteMarkers:   make(map[string]uuid.UUID),
			PageTemplates: make(map[uuid.UUID]*content.PageTemplate),
		},
	}
}

// WithStandardPages adds a home page plus not-found and access-denied
// pages wired to their markers, the minimum a functioning site carries.
func (s *Site) WithStandardPages() *Site {
	home := s.RootPage("Home", "")
	notFound := s.RootPage("Page Not Found", "not-found", home)
	denied := s.RootPage("Access Denied", "access-denied", home)
	s.Marker(content.MarkerHome, home)
	s.Marker(content.MarkerNotFound, notFound)
	s.Marker(content.MarkerAccessDenied, denied)
	return s
}

// Language adds a website language. The first language added becomes the
// default.
func (s *Site) Language(code string, published bool) *content.Language {
	lang := &content.Language{ID: uuid.New(), Code: code, Name: code, Published: published}
	s.Website.Languages = append(s.Website.Languages, lang)
	if s.Website.DefaultLanguageID == nil {
		id := lang.ID
		s.Website.DefaultLanguageID = &id
	}
	return lang
}

// Solutions marks solution packages as installed.
func (s *Site) Solutions(names ...string) *Site {
	s.Website.Solutions = append(s.Website.Solutions, names...)
	return s
}

// Marker points a site marker at a page.
func (s *Site) Marker(name string, page *content.Node) *Site {
	s.Website.SiteMarkers[name] = page.ID
	return s
}

// Template registers a page template and returns its id for use on pages.
func (s *Site) Template(name, rewriteURL string) uuid.UUID {
	tmpl := &content.PageTemplate{ID: uuid.New(), Name: name, RewriteURL: rewriteURL}
	s.Website.PageTemplates[tmpl.ID] = tmpl
	return tmpl.ID
}

// RootPage adds a root page variant. At most one parent may be given; a
// parentless page is a site root.
func (s *Site) RootPage(title, partial string, parent ...*content.Node) *content.Node {
	isRoot := true
	page := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindPage,
		WebsiteID:  s.Website.ID,
		Name:       title,
		Title:      title,
		PartialURL: partial,
		IsRoot:     &isRoot,
		ModifiedOn: time.Now(),
	}
	if len(parent) > 0 && parent[0] != nil {
		id := parent[0].ID
		page.ParentID = &id
	}
	s.Website.Pages = append(s.Website.Pages, page)
	return page
}

// ContentPage adds a language content variant of a root page, sharing the
// root's partial URL and parent reference.
func (s *Site) ContentPage(root *content.Node, lang *content.Language, title string) *content.Node {
	isRoot := false
	rootID := root.ID
	langID := lang.ID
	page := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindPage,
		WebsiteID:  s.Website.ID,
		Name:       title,
		Title:      title,
		PartialURL: root.PartialURL,
		IsRoot:     &isRoot,
		ParentID:   root.ParentID,
		RootID:     &rootID,
		LanguageID: &langID,
		ModifiedOn: time.Now(),
	}
	s.Website.Pages = append(s.Website.Pages, page)
	return page
}

// File adds a file node under a page.
func (s *Site) File(parent *content.Node, partial string) *content.Node {
	parentID := parent.ID
	file := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindFile,
		WebsiteID:  s.Website.ID,
		Name:       partial,
		PartialURL: partial,
		ParentID:   &parentID,
		ModifiedOn: time.Now(),
		Attachment: &content.Attachment{FileName: partial, ContentType: "application/octet-stream"},
	}
	s.Website.Files = append(s.Website.Files, file)
	return file
}

// Shortcut adds a shortcut node under a page, pointing at target.
func (s *Site) Shortcut(parent *content.Node, partial string, target *content.Node) *content.Node {
	parentID := parent.ID
	targetID := target.ID
	shortcut := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindShortcut,
		WebsiteID:  s.Website.ID,
		Name:       partial,
		PartialURL: partial,
		ParentID:   &parentID,
		TargetID:   &targetID,
		ModifiedOn: time.Now(),
	}
	s.Website.Shortcuts = append(s.Website.Shortcuts, shortcut)
	return shortcut
}

// Blog adds a blog under a page. lang may be nil for a language-neutral
// blog.
func (s *Site) Blog(parent *content.Node, name, partial string, lang *content.Language) *content.Node {
	parentID := parent.ID
	blog := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindBlog,
		WebsiteID:  s.Website.ID,
		Name:       name,
		Title:      name,
		PartialURL: partial,
		ParentID:   &parentID,
		ModifiedOn: time.Now(),
	}
	if lang != nil {
		id := lang.ID
		blog.LanguageID = &id
	}
	s.Website.Blogs = append(s.Website.Blogs, blog)
	return blog
}

// BlogPost adds a post to a blog.
func (s *Site) BlogPost(blog *content.Node, title, partial string, publishedAt time.Time) *content.Node {
	parentID := blog.ID
	post := &content.Node{
		ID:          uuid.New(),
		Kind:        content.KindBlogPost,
		WebsiteID:   s.Website.ID,
		Name:        title,
		Title:       title,
		PartialURL:  partial,
		ParentID:    &parentID,
		ModifiedOn:  time.Now(),
		PublishedAt: &publishedAt,
	}
	s.Website.BlogPosts = append(s.Website.BlogPosts, post)
	return post
}

// Forum adds a forum under a page. lang may be nil.
func (s *Site) Forum(parent *content.Node, name, partial string, lang *content.Language) *content.Node {
	parentID := parent.ID
	forum := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindForum,
		WebsiteID:  s.Website.ID,
		Name:       name,
		Title:      name,
		PartialURL: partial,
		ParentID:   &parentID,
		ModifiedOn: time.Now(),
	}
	if lang != nil {
		id := lang.ID
		forum.LanguageID = &id
	}
	s.Website.Forums = append(s.Website.Forums, forum)
	return forum
}

// Thread adds a thread to a forum.
func (s *Site) Thread(forum *content.Node, title, partial string) *content.Node {
	parentID := forum.ID
	thread := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindForumThread,
		WebsiteID:  s.Website.ID,
		Name:       title,
		Title:      title,
		PartialURL: partial,
		ParentID:   &parentID,
		ModifiedOn: time.Now(),
	}
	s.Website.ForumThreads = append(s.Website.ForumThreads, thread)
	return thread
}

// Event adds an event under a page.
func (s *Site) Event(parent *content.Node, name, partial string, startsAt time.Time) *content.Node {
	parentID := parent.ID
	event := &content.Node{
		ID:          uuid.New(),
		Kind:        content.KindEvent,
		WebsiteID:   s.Website.ID,
		Name:        name,
		Title:       name,
		PartialURL:  partial,
		ParentID:    &parentID,
		ModifiedOn:  time.Now(),
		PublishedAt: &startsAt,
	}
	s.Website.Events = append(s.Website.Events, event)
	return event
}

// Survey adds a survey under a page.
func (s *Site) Survey(parent *content.Node, name, partial string) *content.Node {
	parentID := parent.ID
	survey := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindSurvey,
		WebsiteID:  s.Website.ID,
		Name:       name,
		Title:      name,
		PartialURL: partial,
		ParentID:   &parentID,
		ModifiedOn: time.Now(),
	}
	s.Website.Surveys = append(s.Website.Surveys, survey)
	return survey
}

// Snapshot builds an immutable snapshot of the site as it stands.
func (s *Site) Snapshot() content.Snapshot {
	return contentmap.Build([]*content.Website{s.Website})
}
