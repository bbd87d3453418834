package sitemap

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// SurveyProvider resolves surveys hanging off content pages. Surveys are
// not locale-scoped; the same survey serves every language.
type SurveyProvider struct {
	subBase
}

// NewSurveyProvider creates the survey sub-provider.
func NewSurveyProvider(gate AccessGate, logger *slog.Logger) *SurveyProvider {
	return &SurveyProvider{subBase: newSubBase(gate, logger)}
}

func (p *SurveyProvider) Name() string { return "surveys" }

func (p *SurveyProvider) RequiredSolutions() []string { return []string{"surveys"} }

// FindNode resolves a survey by exact partial-url equality beneath its
// parent page.
func (p *SurveyProvider) FindNode(rc *Request, rawPath string) (*Resolution, error) {
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

		for _, survey := range rc.Website.Surveys {
			if survey.Deactivated {
				continue
			}
			page := parentPage(rc, survey)
			if page == nil {
				continue
			}
			surveyPath, ok := childEntityPath(rc, page, survey.PartialURL)
			if !ok {
				continue
			}
			if strings.EqualFold(path, surveyPath) || strings.EqualFold(decoded, surveyPath) {
				return p.okResolution(rc, survey), nil
			}
		}
		return nil, nil
	})
}

// ChildNodes contributes surveys under a page.
func (p *SurveyProvider) ChildNodes(rc *Request, node *content.Node) ([]*Resolution, error) {
	if node.Kind != content.KindPage {
		return nil, nil
	}
	root := rootVariant(rc, node)
	if root == nil {
		return nil, nil
	}
	var children []*Resolution
	for _, survey := range rc.Website.Surveys {
		if survey.Deactivated || survey.ParentID == nil || *survey.ParentID != root.ID {
			continue
		}
		if res := p.okResolution(rc, survey); res != nil {
			children = append(children, res)
		}
	}
	return children, nil
}

// ParentNode walks survey -> page.
func (p *SurveyProvider) ParentNode(rc *Request, node *content.Node) (*Resolution, error) {
	if node.Kind != content.KindSurvey {
		return nil, nil
	}
	page := parentPage(rc, node)
	if page == nil {
		return nil, nil
	}
	return p.okResolution(rc, languageVariant(rc, page)), nil
}
