package sitemap

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// ForumProvider resolves discussion forums and their threads. Forums are
// locale-scoped like blogs; threads inherit the forum's scope.
type ForumProvider struct {
	subBase
}

// NewForumProvider creates the forum sub-provider.
func NewForumProvider(gate AccessGate, logger *slog.Logger) *ForumProvider {
	return &ForumProvider{subBase: newSubBase(gate, logger)}
}

func (p *ForumProvider) Name() string { return "forums" }

func (p *ForumProvider) RequiredSolutions() []string { return []string{"forums"} }

// FindNode resolves forum home paths and single thread paths beneath them.
func (p *ForumProvider) FindNode(rc *Request, rawPath string) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey(p.Name(), "findnode", rawPath), func() (*Resolution, error) {
		if err := rc.canceled(); err != nil {
			return nil, err
		}
		path, ok := requestPath(rc, rawPath)
		if !ok {
			return nil, nil
		}

		for _, forum := range rc.Website.Forums {
			if forum.Deactivated || !languageOrNeutral(rc, forum) {
				continue
			}
			page := parentPage(rc, forum)
			if page == nil {
				continue
			}
			forumPath, ok := childEntityPath(rc, page, forum.PartialURL)
			if !ok || !hasPrefixFold(path, forumPath) {
				continue
			}
			rest := path[len(forumPath):]
			if rest == "" {
				return p.okResolution(rc, forum), nil
			}
			seg, trailing := strings.CutSuffix(rest, "/")
			if !trailing || seg == "" || strings.Contains(seg, "/") {
				continue
			}
			if thread := p.threadByPartialURL(rc, forum, seg); thread != nil {
				return p.okResolution(rc, thread), nil
			}
		}
		return nil, nil
	})
}

func (p *ForumProvider) threadByPartialURL(rc *Request, forum *content.Node, seg string) *content.Node {
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		decoded = seg
	}
	for _, thread := range rc.Website.ForumThreads {
		if thread.Deactivated || thread.ParentID == nil || *thread.ParentID != forum.ID {
			continue
		}
		if segmentMatch(thread.PartialURL, seg) || segmentMatch(thread.PartialURL, decoded) {
			return thread
		}
	}
	return nil
}

// ChildNodes contributes forums under a page and threads under a forum.
func (p *ForumProvider) ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	switch node.Kind {
	case content.KindPage:
		root := rootVariant(rc, node)
		if root == nil {
			return nil, nil
		}
		var children []*Resolution
		for _, forum := range rc.Website.Forums {
			if forum.Deactivated || !languageOrNeutral(rc, forum) {
				continue
			}
			if forum.ParentID == nil || *forum.ParentID != root.ID {
				continue
			}
			if res := p.okResolution(rc, forum); res != nil {
				children = append(children, res)
			}
		}
		return children, nil

	case content.KindForum:
		var children []*Resolution
		for _, thread := range rc.Website.ForumThreads {
			if thread.Deactivated || thread.ParentID == nil || *thread.ParentID != node.ID {
				continue
			}
			if res := p.okResolution(rc, thread); res != nil {
				children = append(children, res)
			}
		}
		return children, nil

	default:
		return nil, nil
	}
}

// ParentNode walks thread -> forum, forum -> page.
func (p *ForumProvider) ParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	switch node.Kind {
	case content.KindForumThread:
		if node.ParentID == nil {
			return nil, nil
		}
		forum, ok := rc.Snapshot.Node(content.KindForum, *node.ParentID)
		if !ok || forum.Deactivated {
			return nil, nil
		}
		return p.okResolution(rc, forum), nil

	case content.KindForum:
		page := parentPage(rc, node)
		if page == nil {
			return nil, nil
		}
		return p.okResolution(rc, languageVariant(rc, page)), nil

	default:
		return nil, nil
	}
}
