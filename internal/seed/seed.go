// Package seed loads website definitions from YAML files. A seed file
// describes one website as a page tree with attached files, shortcuts and
// community content; ids are generated on load.
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

type seedFile struct {
	Website seedWebsite `yaml:"website"`
}

type seedWebsite struct {
	Name      string         `yaml:"name"`
	BasePath  string         `yaml:"base_path"`
	Languages []seedLanguage `yaml:"languages"`
	Solutions []string       `yaml:"solutions"`
	Templates []seedTemplate `yaml:"templates"`
	Pages     []seedPage     `yaml:"pages"`
}

type seedLanguage struct {
	Code      string `yaml:"code"`
	Name      string `yaml:"name"`
	Published *bool  `yaml:"published"`
	Default   bool   `yaml:"default"`
}

type seedTemplate struct {
	Name       string `yaml:"name"`
	RewriteURL string `yaml:"rewrite_url"`
}

type seedPage struct {
	Title        string            `yaml:"title"`
	PartialURL   string            `yaml:"partial_url"`
	Summary      string            `yaml:"summary"`
	Marker       string            `yaml:"marker"`
	Template     string            `yaml:"template"`
	DisplayOrder int               `yaml:"display_order"`
	Translations []seedTranslation `yaml:"translations"`
	Children     []seedPage        `yaml:"children"`
	Files        []seedFileNode    `yaml:"files"`
	Shortcuts    []seedShortcut    `yaml:"shortcuts"`
	Blogs        []seedBlog        `yaml:"blogs"`
	Forums       []seedForum       `yaml:"forums"`
	Events       []seedEvent       `yaml:"events"`
	Surveys      []seedSurvey      `yaml:"surveys"`
}

type seedTranslation struct {
	Language string `yaml:"language"`
	Title    string `yaml:"title"`
	Summary  string `yaml:"summary"`
}

type seedFileNode struct {
	Name        string `yaml:"name"`
	ContentType string `yaml:"content_type"`
	Size        int64  `yaml:"size"`
}

type seedShortcut struct {
	PartialURL string `yaml:"partial_url"`
	Target     string `yaml:"target"`
}

type seedBlog struct {
	Name       string     `yaml:"name"`
	PartialURL string     `yaml:"partial_url"`
	Language   string     `yaml:"language"`
	Posts      []seedPost `yaml:"posts"`
}

type seedPost struct {
	Title       string     `yaml:"title"`
	PartialURL  string     `yaml:"partial_url"`
	PublishedAt *time.Time `yaml:"published_at"`
	Tags        []string   `yaml:"tags"`
}

type seedForum struct {
	Name       string       `yaml:"name"`
	PartialURL string       `yaml:"partial_url"`
	Language   string       `yaml:"language"`
	Threads    []seedThread `yaml:"threads"`
}

type seedThread struct {
	Title      string `yaml:"title"`
	PartialURL string `yaml:"partial_url"`
}

type seedEvent struct {
	Name       string     `yaml:"name"`
	PartialURL string     `yaml:"partial_url"`
	StartsAt   *time.Time `yaml:"starts_at"`
}

type seedSurvey struct {
	Name       string `yaml:"name"`
	PartialURL string `yaml:"partial_url"`
}

// Load reads and parses a website seed file.
func Load(path string) (*content.Website, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse builds a website graph from YAML seed data.
func Parse(data []byte) (*content.Website, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	seed := file.Website
	if seed.Name == "" {
		return nil, fmt.Errorf("seed file: website name is required")
	}

	b := &builder{
		website: &content.Website{
			ID:            uuid.New(),
			Name:          seed.Name,
			BasePath:      seed.BasePath,
			SiteMarkers:   make(map[string]uuid.UUID),
			PageTemplates: make(map[uuid.UUID]*content.PageTemplate),
		},
		languages: make(map[string]*content.Language),
		templates: make(map[string]uuid.UUID),
		pages:     make(map[string]*content.Node),
	}

	for _, lang := range seed.Languages {
		if err := b.addLanguage(lang); err != nil {
			return nil, err
		}
	}
	b.website.Solutions = seed.Solutions
	for _, tmpl := range seed.Templates {
		b.addTemplate(tmpl)
	}
	for _, page := range seed.Pages {
		if err := b.addPage(page, nil); err != nil {
			return nil, err
		}
	}
	for _, sc := range b.shortcuts {
		target, ok := b.pages[sc.def.Target]
		if !ok {
			return nil, fmt.Errorf("seed file: shortcut %q targets unknown page %q", sc.def.PartialURL, sc.def.Target)
		}
		sc.node.TargetID = &target.ID
	}
	return b.website, nil
}

type builder struct {
	website   *content.Website
	languages map[string]*content.Language
	templates map[string]uuid.UUID
	pages     map[string]*content.Node
	shortcuts []pendingShortcut
}

type pendingShortcut struct {
	def  seedShortcut
	node *content.Node
}

func (b *builder) addLanguage(def seedLanguage) error {
	if def.Code == "" {
		return fmt.Errorf("seed file: language code is required")
	}
	published := true
	if def.Published != nil {
		published = *def.Published
	}
	name := def.Name
	if name == "" {
		name = def.Code
	}
	lang := &content.Language{ID: uuid.New(), Code: def.Code, Name: name, Published: published}
	b.website.Languages = append(b.website.Languages, lang)
	b.languages[def.Code] = lang
	if def.Default || b.website.DefaultLanguageID == nil {
		id := lang.ID
		b.website.DefaultLanguageID = &id
	}
	return nil
}

func (b *builder) addTemplate(def seedTemplate) {
	tmpl := &content.PageTemplate{ID: uuid.New(), Name: def.Name, RewriteURL: def.RewriteURL}
	b.website.PageTemplates[tmpl.ID] = tmpl
	b.templates[def.Name] = tmpl.ID
}

func (b *builder) addPage(def seedPage, parent *content.Node) error {
	if def.Title == "" {
		return fmt.Errorf("seed file: page title is required")
	}
	isRoot := true
	page := &content.Node{
		ID:           uuid.New(),
		Kind:         content.KindPage,
		WebsiteID:    b.website.ID,
		Name:         def.Title,
		Title:        def.Title,
		Summary:      def.Summary,
		PartialURL:   def.PartialURL,
		IsRoot:       &isRoot,
		DisplayOrder: def.DisplayOrder,
		ModifiedOn:   time.Now().UTC(),
	}
	if parent != nil {
		id := parent.ID
		page.ParentID = &id
	}
	if def.Template != "" {
		tmplID, ok := b.templates[def.Template]
		if !ok {
			return fmt.Errorf("seed file: page %q uses unknown template %q", def.Title, def.Template)
		}
		page.TemplateID = &tmplID
	}
	b.website.AddNode(page)
	if _, dup := b.pages[def.Title]; dup {
		return fmt.Errorf("seed file: duplicate page title %q", def.Title)
	}
	b.pages[def.Title] = page
	if def.Marker != "" {
		b.website.SiteMarkers[def.Marker] = page.ID
	}

	for _, tr := range def.Translations {
		lang, ok := b.languages[tr.Language]
		if !ok {
			return fmt.Errorf("seed file: page %q translation uses unknown language %q", def.Title, tr.Language)
		}
		notRoot := false
		rootID := page.ID
		langID := lang.ID
		b.website.AddNode(&content.Node{
			ID:         uuid.New(),
			Kind:       content.KindPage,
			WebsiteID:  b.website.ID,
			Name:       tr.Title,
			Title:      tr.Title,
			Summary:    tr.Summary,
			PartialURL: page.PartialURL,
			IsRoot:     &notRoot,
			ParentID:   page.ParentID,
			RootID:     &rootID,
			LanguageID: &langID,
			TemplateID: page.TemplateID,
			ModifiedOn: time.Now().UTC(),
		})
	}

	parentID := page.ID
	for _, f := range def.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		b.website.AddNode(&content.Node{
			ID:         uuid.New(),
			Kind:       content.KindFile,
			WebsiteID:  b.website.ID,
			Name:       f.Name,
			PartialURL: f.Name,
			ParentID:   &parentID,
			ModifiedOn: time.Now().UTC(),
			Attachment: &content.Attachment{FileName: f.Name, ContentType: contentType, Size: f.Size},
		})
	}
	for _, sc := range def.Shortcuts {
		node := &content.Node{
			ID:         uuid.New(),
			Kind:       content.KindShortcut,
			WebsiteID:  b.website.ID,
			Name:       sc.PartialURL,
			PartialURL: sc.PartialURL,
			ParentID:   &parentID,
			ModifiedOn: time.Now().UTC(),
		}
		b.website.AddNode(node)
		b.shortcuts = append(b.shortcuts, pendingShortcut{def: sc, node: node})
	}
	for _, blog := range def.Blogs {
		if err := b.addBlog(blog, page); err != nil {
			return err
		}
	}
	for _, forum := range def.Forums {
		if err := b.addForum(forum, page); err != nil {
			return err
		}
	}
	for _, event := range def.Events {
		b.website.AddNode(&content.Node{
			ID:          uuid.New(),
			Kind:        content.KindEvent,
			WebsiteID:   b.website.ID,
			Name:        event.Name,
			Title:       event.Name,
			PartialURL:  event.PartialURL,
			ParentID:    &parentID,
			ModifiedOn:  time.Now().UTC(),
			PublishedAt: event.StartsAt,
		})
	}
	for _, survey := range def.Surveys {
		b.website.AddNode(&content.Node{
			ID:         uuid.New(),
			Kind:       content.KindSurvey,
			WebsiteID:  b.website.ID,
			Name:       survey.Name,
			Title:      survey.Name,
			PartialURL: survey.PartialURL,
			ParentID:   &parentID,
			ModifiedOn: time.Now().UTC(),
		})
	}

	for _, child := range def.Children {
		if err := b.addPage(child, page); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) addBlog(def seedBlog, parent *content.Node) error {
	parentID := parent.ID
	blog := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindBlog,
		WebsiteID:  b.website.ID,
		Name:       def.Name,
		Title:      def.Name,
		PartialURL: def.PartialURL,
		ParentID:   &parentID,
		ModifiedOn: time.Now().UTC(),
	}
	if def.Language != "" {
		lang, ok := b.languages[def.Language]
		if !ok {
			return fmt.Errorf("seed file: blog %q uses unknown language %q", def.Name, def.Language)
		}
		id := lang.ID
		blog.LanguageID = &id
	}
	b.website.AddNode(blog)

	blogID := blog.ID
	for _, post := range def.Posts {
		b.website.AddNode(&content.Node{
			ID:          uuid.New(),
			Kind:        content.KindBlogPost,
			WebsiteID:   b.website.ID,
			Name:        post.Title,
			Title:       post.Title,
			PartialURL:  post.PartialURL,
			ParentID:    &blogID,
			ModifiedOn:  time.Now().UTC(),
			PublishedAt: post.PublishedAt,
			Tags:        post.Tags,
		})
	}
	return nil
}

func (b *builder) addForum(def seedForum, parent *content.Node) error {
	parentID := parent.ID
	forum := &content.Node{
		ID:         uuid.New(),
		Kind:       content.KindForum,
		WebsiteID:  b.website.ID,
		Name:       def.Name,
		Title:      def.Name,
		PartialURL: def.PartialURL,
		ParentID:   &parentID,
		ModifiedOn: time.Now().UTC(),
	}
	if def.Language != "" {
		lang, ok := b.languages[def.Language]
		if !ok {
			return fmt.Errorf("seed file: forum %q uses unknown language %q", def.Name, def.Language)
		}
		id := lang.ID
		forum.LanguageID = &id
	}
	b.website.AddNode(forum)

	forumID := forum.ID
	for _, thread := range def.Threads {
		b.website.AddNode(&content.Node{
			ID:         uuid.New(),
			Kind:       content.KindForumThread,
			WebsiteID:  b.website.ID,
			Name:       thread.Title,
			Title:      thread.Title,
			PartialURL: thread.PartialURL,
			ParentID:   &forumID,
			ModifiedOn: time.Now().UTC(),
		})
	}
	return nil
}
