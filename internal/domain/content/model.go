package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the entity type behind a hierarchy node.
type Kind string

const (
	KindPage        Kind = "page"
	KindFile        Kind = "file"
	KindShortcut    Kind = "shortcut"
	KindBlog        Kind = "blog"
	KindBlogPost    Kind = "blogpost"
	KindBlogArchive Kind = "blogarchive"
	KindForum       Kind = "forum"
	KindForumThread Kind = "forumthread"
	KindEvent       Kind = "event"
	KindSurvey      Kind = "survey"
)

// Well-known site marker names. Every website must define Home and
// Page Not Found; Access Denied is strongly recommended.
const (
	MarkerHome         = "Home"
	MarkerNotFound     = "Page Not Found"
	MarkerAccessDenied = "Access Denied"
)

// ArchiveKind distinguishes synthesized blog archive views.
type ArchiveKind string

const (
	ArchiveByAuthor ArchiveKind = "author"
	ArchiveByMonth  ArchiveKind = "month"
	ArchiveByTag    ArchiveKind = "tag"
)

// ArchiveInfo carries the filter behind a synthesized archive node.
// Exactly one of the filter fields is meaningful per ArchiveKind.
type ArchiveInfo struct {
	Kind     ArchiveKind `json:"kind"`
	BlogID   uuid.UUID   `json:"blog_id"`
	AuthorID uuid.UUID   `json:"author_id,omitempty"`
	Year     int         `json:"year,omitempty"`
	Month    time.Month  `json:"month,omitempty"`
	Tag      string      `json:"tag,omitempty"`
}

// Attachment describes the stored file behind a file node.
type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Node is a read-only projection of one content entity in the site
// hierarchy. A single struct carries all kinds; kind-specific fields are
// nil or zero for kinds they do not apply to.
type Node struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	WebsiteID  uuid.UUID `json:"website_id"`
	Name       string    `json:"name"`
	PartialURL string    `json:"partial_url"`

	// IsRoot is tri-state for pages: nil and true are both root-eligible,
	// false marks a language content variant.
	IsRoot *bool `json:"is_root,omitempty"`

	// ParentID points at the root variant of the parent logical page,
	// never at a language content variant.
	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	// RootID links a content variant back to its root page.
	RootID *uuid.UUID `json:"root_id,omitempty"`

	LanguageID   *uuid.UUID `json:"language_id,omitempty"`
	ModifiedOn   time.Time  `json:"modified_on"`
	Deactivated  bool       `json:"deactivated,omitempty"`
	DisplayOrder int        `json:"display_order"`

	// Page fields.
	Title      string     `json:"title,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`

	// File fields.
	Attachment *Attachment `json:"attachment,omitempty"`

	// Shortcut fields.
	TargetID *uuid.UUID `json:"target_id,omitempty"`

	// Blog post / event fields.
	AuthorID    *uuid.UUID `json:"author_id,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	// Archive fields (synthesized nodes only, never persisted).
	Archive *ArchiveInfo `json:"archive,omitempty"`
}

// RootEligible reports whether the node counts as a root variant for
// duplicate detection. The tri-state rule: only an explicit false excludes.
func (n *Node) RootEligible() bool {
	return n.IsRoot == nil || *n.IsRoot
}

// IsContent reports whether the node is a language content variant.
func (n *Node) IsContent() bool {
	return n.IsRoot != nil && !*n.IsRoot
}

// Language is one publishable website language.
type Language struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Published bool      `json:"published"`
}

// PageTemplate is the rendering template referenced by pages. RewriteURL is
// the physical path the host rewrites matched requests to.
type PageTemplate struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	RewriteURL string    `json:"rewrite_url"`
}

// Website is the full scope of one site inside a snapshot: flat entity
// collections plus markers, languages and installed solutions. The engine
// owns all indexing and matching over these collections.
type Website struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	BasePath string    `json:"base_path"`

	Pages        []*Node `json:"pages"`
	Files        []*Node `json:"files"`
	Shortcuts    []*Node `json:"shortcuts"`
	Blogs        []*Node `json:"blogs"`
	BlogPosts    []*Node `json:"blog_posts"`
	Forums       []*Node `json:"forums"`
	ForumThreads []*Node `json:"forum_threads"`
	Events       []*Node `json:"events"`
	Surveys      []*Node `json:"surveys"`

	// SiteMarkers maps marker name to the target page id.
	SiteMarkers map[string]uuid.UUID `json:"site_markers"`

	Languages         []*Language                 `json:"languages"`
	DefaultLanguageID *uuid.UUID                  `json:"default_language_id,omitempty"`
	PageTemplates     map[uuid.UUID]*PageTemplate `json:"page_templates"`

	// Solutions lists the upstream solution packages installed on this
	// website; sub-providers are gated on their presence.
	Solutions []string `json:"solutions"`
}

// Collection returns the flat collection holding nodes of the given kind.
func (w *Website) Collection(kind Kind) []*Node {
	switch kind {
	case KindPage:
		return w.Pages
	case KindFile:
		return w.Files
	case KindShortcut:
		return w.Shortcuts
	case KindBlog:
		return w.Blogs
	case KindBlogPost:
		return w.BlogPosts
	case KindForum:
		return w.Forums
	case KindForumThread:
		return w.ForumThreads
	case KindEvent:
		return w.Events
	case KindSurvey:
		return w.Surveys
	default:
		return nil
	}
}

// AddNode appends a node to the collection for its kind. Unknown and
// synthesized kinds are ignored.
func (w *Website) AddNode(n *Node) {
	switch n.Kind {
	case KindPage:
		w.Pages = append(w.Pages, n)
	case KindFile:
		w.Files = append(w.Files, n)
	case KindShortcut:
		w.Shortcuts = append(w.Shortcuts, n)
	case KindBlog:
		w.Blogs = append(w.Blogs, n)
	case KindBlogPost:
		w.BlogPosts = append(w.BlogPosts, n)
	case KindForum:
		w.Forums = append(w.Forums, n)
	case KindForumThread:
		w.ForumThreads = append(w.ForumThreads, n)
	case KindEvent:
		w.Events = append(w.Events, n)
	case KindSurvey:
		w.Surveys = append(w.Surveys, n)
	}
}

// Nodes returns every persistable node across all collections.
func (w *Website) Nodes() []*Node {
	var all []*Node
	for _, kind := range []Kind{
		KindPage, KindFile, KindShortcut, KindBlog, KindBlogPost,
		KindForum, KindForumThread, KindEvent, KindSurvey,
	} {
		all = append(all, w.Collection(kind)...)
	}
	return all
}

// Language returns the website language with the given id.
func (w *Website) Language(id uuid.UUID) (*Language, bool) {
	for _, lang := range w.Languages {
		if lang.ID == id {
			return lang, true
		}
	}
	return nil, false
}

// LanguageByCode returns the website language with the given code,
// matched case-insensitively.
func (w *Website) LanguageByCode(code string) (*Language, bool) {
	for _, lang := range w.Languages {
		if strings.EqualFold(lang.Code, code) {
			return lang, true
		}
	}
	return nil, false
}

// HasSolution reports whether the named solution package is installed.
func (w *Website) HasSolution(name string) bool {
	for _, s := range w.Solutions {
		if s == name {
			return true
		}
	}
	return false
}
