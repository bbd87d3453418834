package contentmap

import (
	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// snapshot is an immutable content.Snapshot over fully materialized
// website scopes. All nodes are indexed by kind and id at build time.
type snapshot struct {
	websites map[uuid.UUID]*content.Website
	nodes    map[content.Kind]map[uuid.UUID]*content.Node
}

// Build assembles an immutable snapshot from website scopes. The input
// slices are not copied; callers hand over ownership.
func Build(websites []*content.Website) content.Snapshot {
	s := &snapshot{
		websites: make(map[uuid.UUID]*content.Website, len(websites)),
		nodes:    make(map[content.Kind]map[uuid.UUID]*content.Node),
	}
	for _, website := range websites {
		s.websites[website.ID] = website
		for _, kind := range []content.Kind{
			content.KindPage, content.KindFile, content.KindShortcut,
			content.KindBlog, content.KindBlogPost,
			content.KindForum, content.KindForumThread,
			content.KindEvent, content.KindSurvey,
		} {
			for _, node := range website.Collection(kind) {
				s.index(kind, node)
			}
		}
	}
	return s
}

func (s *snapshot) index(kind content.Kind, node *content.Node) {
	byID, ok := s.nodes[kind]
	if !ok {
		byID = make(map[uuid.UUID]*content.Node)
		s.nodes[kind] = byID
	}
	byID[node.ID] = node
}

func (s *snapshot) Website(id uuid.UUID) (*content.Website, bool) {
	website, ok := s.websites[id]
	return website, ok
}

func (s *snapshot) Node(kind content.Kind, id uuid.UUID) (*content.Node, bool) {
	node, ok := s.nodes[kind][id]
	return node, ok
}
