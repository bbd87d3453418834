package sitemap

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// EventProvider resolves event pages hanging off content pages.
type EventProvider struct {
	subBase
}

// NewEventProvider creates the event sub-provider.
func NewEventProvider(gate AccessGate, logger *slog.Logger) *EventProvider {
	return &EventProvider{subBase: newSubBase(gate, logger)}
}

func (p *EventProvider) Name() string { return "events" }

func (p *EventProvider) RequiredSolutions() []string { return []string{"events"} }

// FindNode resolves an event by exact partial-url equality beneath its
// parent page.
func (p *EventProvider) FindNode(rc *Request, rawPath string) (*Resolution, error) {
	return getOrCompute(rc.Cache, rc.cacheKey(p.Name(), "findnode", rawPath), func() (*Resolution, error) {
		if err := rc.canceled(); err != nil {
			return nil, err
		}
		path, ok := requestPath(rc, rawPath)
		if !ok {
			return nil, nil
		}
		decoded, err := url.PathUnescape(path)
		if err != nil {
			decoded = path
		}

		for _, event := range rc.Website.Events {
			if event.Deactivated {
				continue
			}
			page := parentPage(rc, event)
			if page == nil {
				continue
			}
			eventPath, ok := childEntityPath(rc, page, event.PartialURL)
			if !ok {
				continue
			}
			if strings.EqualFold(path, eventPath) || strings.EqualFold(decoded, eventPath) {
				return p.okResolution(rc, event), nil
			}
		}
		return nil, nil
	})
}

// ChildNodes contributes events under a page.
func (p *EventProvider) ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	if node.Kind != content.KindPage {
		return nil, nil
	}
	root := rootVariant(rc, node)
	if root == nil {
		return nil, nil
	}
	var children []*Resolution
	for _, event := range rc.Website.Events {
		if event.Deactivated || event.ParentID == nil || *event.ParentID != root.ID {
			continue
		}
		if res := p.okResolution(rc, event); res != nil {
			children = append(children, res)
		}
	}
	return children, nil
}

// ParentNode walks event -> page.
func (p *EventProvider) ParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	if node.Kind != content.KindEvent {
		return nil, nil
	}
	page := parentPage(rc, node)
	if page == nil {
		return nil, nil
	}
	return p.okResolution(rc, languageVariant(rc, page)), nil
}
