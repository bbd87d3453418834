package sitemap

import (
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// BlogProvider resolves blogs, blog posts and the synthesized archive
// views (author, month, tag) hanging under each blog.
type BlogProvider struct {
	subBase
}

// NewBlogProvider creates the blog sub-provider.
func NewBlogProvider(gate AccessGate, logger *slog.Logger) *BlogProvider {
	return &BlogProvider{subBase: newSubBase(gate, logger)}
}

func (p *BlogProvider) Name() string { return "blogs" }

func (p *BlogProvider) RequiredSolutions() []string { return []string{"blogs"} }

// FindNode resolves blog home, archive and post paths. Archive patterns
// are matched before plain post lookup; a right-most GUID segment selects
// a post by id before its optional friendly URL is consulted.
func (p *BlogProvider) FindNode(rc *Request, rawPath string) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey(p.Name(), "findnode", rawPath), func() (*Resolution, error) {
		if err := rc.canceled(); err != nil {
			return nil, err
		}
		path, ok := requestPath(rc, rawPath)
		if !ok {
			return nil, nil
		}

		for _, blog := range rc.Website.Blogs {
			if blog.Deactivated || !languageOrNeutral(rc, blog) {
				continue
			}
			page := parentPage(rc, blog)
			if page == nil {
				continue
			}
			blogPath, ok := childEntityPath(rc, page, blog.PartialURL)
			if !ok || !hasPrefixFold(path, blogPath) {
				continue
			}
			if res := p.matchUnder(rc, blog, path[len(blogPath):]); res != nil {
				return res, nil
			}
		}
		return nil, nil
	})
}

// matchUnder resolves the remainder of a path below one blog's home path.
func (p *BlogProvider) matchUnder(rc *Request, blog *content.Node, rest string) *Resolution {
	if rest == "" {
		return p.okResolution(rc, blog)
	}

	if archive := p.matchArchive(rc, blog, rest); archive != nil {
		return p.okResolution(rc, archive)
	}

	seg, trailing := strings.CutSuffix(rest, "/")
	if !trailing || seg == "" || strings.Contains(seg, "/") {
		return nil
	}
	if id, err := uuid.Parse(seg); err == nil {
		if post := p.postByID(rc, blog, id); post != nil {
			return p.okResolution(rc, post)
		}
	}
	return p.okResolution(rc, p.postByPartialURL(rc, blog, seg))
}

// matchArchive recognizes the virtual archive paths below a blog:
// author/<guid>/, <yyyy>/<mm>/ and tags/<tag>/.
func (p *BlogProvider) matchArchive(rc *Request, blog *content.Node, rest string) *content.Node {
	segs, trailing := splitSegments(rest)
	if !trailing || len(segs) != 2 {
		return nil
	}

	switch strings.ToLower(segs[0]) {
	case "author":
		authorID, err := uuid.Parse(segs[1])
		if err != nil {
			return nil
		}
		return archiveNode(blog, rest, fmt.Sprintf("Posts by %s", authorID), &content.ArchiveInfo{
			Kind:     content.ArchiveByAuthor,
			BlogID:   blog.ID,
			AuthorID: authorID,
		})
	case "tags":
		tag, err := url.PathUnescape(segs[1])
		if err != nil || tag == "" {
			return nil
		}
		return archiveNode(blog, rest, fmt.Sprintf("Posts tagged %s", tag), &content.ArchiveInfo{
			Kind:   content.ArchiveByTag,
			BlogID: blog.ID,
			Tag:    tag,
		})
	}

	year, err := strconv.Atoi(segs[0])
	if err != nil || len(segs[0]) != 4 {
		return nil
	}
	month, err := strconv.Atoi(segs[1])
	if err != nil || month < 1 || month > 12 {
		return nil
	}
	return archiveNode(blog, rest, fmt.Sprintf("Posts from %04d-%02d", year, month), &content.ArchiveInfo{
		Kind:   content.ArchiveByMonth,
		BlogID: blog.ID,
		Year:   year,
		Month:  time.Month(month),
	})
}

func (p *BlogProvider) postByID(rc *Request, blog *content.Node, id uuid.UUID) *content.Node {
	for _, post := range rc.Website.BlogPosts {
		if post.Deactivated || post.ParentID == nil || *post.ParentID != blog.ID {
			continue
		}
		if post.ID == id {
			return post
		}
	}
	return nil
}

func (p *BlogProvider) postByPartialURL(rc *Request, blog *content.Node, seg string) *content.Node {
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		decoded = seg
	}
	for _, post := range rc.Website.BlogPosts {
		if post.Deactivated || post.ParentID == nil || *post.ParentID != blog.ID {
			continue
		}
		if segmentMatch(post.PartialURL, seg) || segmentMatch(post.PartialURL, decoded) {
			return post
		}
	}
	return nil
}

// ChildNodes contributes blogs under a page, posts under a blog, and the
// filtered post set under an archive node.
func (p *BlogProvider) ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	switch node.Kind {
	case content.KindPage:
		root := rootVariant(rc, node)
		if root == nil {
			return nil, nil
		}
		var children []*Resolution
		for _, blog := range rc.Website.Blogs {
			if blog.Deactivated || !languageOrNeutral(rc, blog) {
				continue
			}
			if blog.ParentID == nil || *blog.ParentID != root.ID {
				continue
			}
			if res := p.okResolution(rc, blog); res != nil {
				children = append(children, res)
			}
		}
		return children, nil

	case content.KindBlog:
		return p.postResolutions(rc, node.ID, nil), nil

	case content.KindBlogArchive:
		if node.Archive == nil {
			return nil, nil
		}
		return p.postResolutions(rc, node.Archive.BlogID, node.Archive), nil

	default:
		return nil, nil
	}
}

// postResolutions lists a blog's posts newest first, optionally narrowed by
// an archive filter.
func (p *BlogProvider) postResolutions(rc *Request, blogID uuid.UUID, filter *content.ArchiveInfo) []*Resolution {
	var posts []*content.Node
	for _, post := range rc.Website.BlogPosts {
		if post.Deactivated || post.ParentID == nil || *post.ParentID != blogID {
			continue
		}
		if filter != nil && !archiveMatches(filter, post) {
			continue
		}
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return publishedAfter(posts[i], posts[j])
	})

	var children []*Resolution
	for _, post := range posts {
		if res := p.okResolution(rc, post); res != nil {
			children = append(children, res)
		}
	}
	return children
}

// ParentNode walks post -> blog, archive -> blog, blog -> page.
func (p *BlogProvider) ParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	switch node.Kind {
	case content.KindBlogPost:
		if node.ParentID == nil {
			return nil, nil
		}
		blog, ok := rc.Snapshot.Node(content.KindBlog, *node.ParentID)
		if !ok || blog.Deactivated {
			return nil, nil
		}
		return p.okResolution(rc, blog), nil

	case content.KindBlogArchive:
		if node.Archive == nil {
			return nil, nil
		}
		blog, ok := rc.Snapshot.Node(content.KindBlog, node.Archive.BlogID)
		if !ok || blog.Deactivated {
			return nil, nil
		}
		return p.okResolution(rc, blog), nil

	case content.KindBlog:
		page := parentPage(rc, node)
		if page == nil {
			return nil, nil
		}
		return p.okResolution(rc, languageVariant(rc, page)), nil

	default:
		return nil, nil
	}
}

func archiveMatches(filter *content.ArchiveInfo, post *content.Node) bool {
	switch filter.Kind {
	case content.ArchiveByAuthor:
		return post.AuthorID != nil && *post.AuthorID == filter.AuthorID
	case content.ArchiveByMonth:
		if post.PublishedAt == nil {
			return false
		}
		return post.PublishedAt.Year() == filter.Year && post.PublishedAt.Month() == filter.Month
	case content.ArchiveByTag:
		for _, tag := range post.Tags {
			if strings.EqualFold(tag, filter.Tag) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func publishedAfter(a, b *content.Node) bool {
	switch {
	case a.PublishedAt == nil:
		return false
	case b.PublishedAt == nil:
		return true
	default:
		return a.PublishedAt.After(*b.PublishedAt)
	}
}

// archiveNode synthesizes a non-persisted node for an archive view. The id
// derives deterministically from the blog id and the archive path so that
// repeated resolutions are structurally equal.
func archiveNode(blog *content.Node, rest, name string, info *content.ArchiveInfo) *content.Node {
	parentID := blog.ID
	return &content.Node{
		ID:         uuid.NewSHA1(blog.ID, []byte("archive:"+strings.ToLower(rest))),
		Kind:       content.KindBlogArchive,
		WebsiteID:  blog.WebsiteID,
		Name:       name,
		Title:      name,
		PartialURL: strings.Trim(rest, "/"),
		ParentID:   &parentID,
		ModifiedOn: blog.ModifiedOn,
		Archive:    info,
	}
}

// splitSegments splits a path remainder into segments, reporting whether it
// carried the page trailing slash.
func splitSegments(rest string) ([]string, bool) {
	trimmed, trailing := strings.CutSuffix(rest, "/")
	if trimmed == "" {
		return nil, trailing
	}
	return strings.Split(trimmed, "/"), trailing
}
