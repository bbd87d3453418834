package sitemap

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/cmsforge/sitetree/internal/domain/content"
)

// Status is the HTTP status hint attached to a resolution.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusForbidden
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving a path or a traversal step.
type Resolution struct {
	Node   *content.Node `json:"node,omitempty"`
	Status Status        `json:"status"`

	// Duplicate marks a not-found caused by an ambiguous match. The
	// resource is not absent; the page tree maps the path to more than
	// one root-eligible node, which is a data-integrity problem upstream.
	Duplicate bool `json:"duplicate,omitempty"`

	// RewriteTarget is the physical path of the node's page template,
	// when it has one.
	RewriteTarget string `json:"rewrite_target,omitempty"`
}

// MatchResult is the outcome of matching a path against a candidate set.
// IsUnique answers whether the page tree is unambiguous at this path,
// independent of whether a node was selected.
type MatchResult struct {
	Node     *content.Node
	IsUnique bool
}

// LookupMode selects which page variant a lookup targets.
type LookupMode int

const (
	// ModeAny accepts any variant, preferring a root.
	ModeAny LookupMode = iota
	// ModeRootOnly targets the language-neutral root variant.
	ModeRootOnly
	// ModeLanguageContent targets the content variant for the active
	// language, falling back to the root when no variant exists yet.
	ModeLanguageContent
)

func (m LookupMode) String() string {
	switch m {
	case ModeRootOnly:
		return "root"
	case ModeLanguageContent:
		return "content"
	default:
		return "any"
	}
}

// LanguageContext carries the multi-language state of one resolution call.
type LanguageContext struct {
	Enabled bool
	Active  *content.Language
	Default *content.Language

	known []*content.Language
}

// NewLanguageContext builds the language context for a website. activeCode
// selects the requested language; empty falls back to the website default.
// Multi-language is enabled when the website declares any language.
func NewLanguageContext(website *content.Website, activeCode string) LanguageContext {
	ctx := LanguageContext{
		Enabled: len(website.Languages) > 0,
		known:   website.Languages,
	}
	if website.DefaultLanguageID != nil {
		if lang, ok := website.Language(*website.DefaultLanguageID); ok {
			ctx.Default = lang
		}
	}
	if activeCode != "" {
		if lang, ok := website.LanguageByCode(activeCode); ok {
			ctx.Active = lang
		}
	}
	if ctx.Active == nil {
		ctx.Active = ctx.Default
	}
	return ctx
}

// ActiveID returns the active language id, or nil when none applies.
func (c LanguageContext) ActiveID() *uuid.UUID {
	if !c.Enabled || c.Active == nil {
		return nil
	}
	id := c.Active.ID
	return &id
}

// ActivePublished reports whether the active language is published.
func (c LanguageContext) ActivePublished() bool {
	return c.Active != nil && c.Active.Published
}

// StripCode removes a leading language-code segment from path when it
// matches one of the website's languages.
func (c LanguageContext) StripCode(path string) string {
	if !c.Enabled || !strings.HasPrefix(path, "/") {
		return path
	}
	rest := path[1:]
	seg := rest
	if i := strings.Index(rest, "/"); i >= 0 {
		seg = rest[:i]
		rest = rest[i:]
	} else {
		rest = "/"
	}
	for _, lang := range c.known {
		if strings.EqualFold(lang.Code, seg) {
			return rest
		}
	}
	return path
}

// Request is the explicit per-resolution state: one pinned snapshot, the
// website scope, the language context and the request cache. It is created
// at the start of handling an inbound request and discarded afterward;
// nothing here is shared across requests.
type Request struct {
	Ctx      context.Context
	Snapshot content.Snapshot
	Website  *content.Website
	Language LanguageContext
	Cache    *Cache

	skipGate bool
}

// NewRequest pins a snapshot and builds the per-request resolution state.
func NewRequest(ctx context.Context, snap content.Snapshot, websiteID uuid.UUID, activeLanguage string) (*Request, error) {
	website, ok := snap.Website(websiteID)
	if !ok {
		return nil, ErrWebsiteNotFound
	}
	return &Request{
		Ctx:      ctx,
		Snapshot: snap,
		Website:  website,
		Language: NewLanguageContext(website, activeLanguage),
		Cache:    NewCache(),
	}, nil
}

// WithoutAuthorization returns a request whose resolutions bypass the
// access gate. Cache slots are segregated from the gated variant.
func (rc *Request) WithoutAuthorization() *Request {
	clone := *rc
	clone.skipGate = true
	return &clone
}

func (rc *Request) canceled() error {
	if rc.Ctx == nil {
		return nil
	}
	return rc.Ctx.Err()
}

// cacheKey builds the memoization key for one provider operation. Gated and
// ungated resolutions must never share a slot.
func (rc *Request) cacheKey(provider, op, arg string) string {
	key := provider + ":" + op + ":" + arg
	if rc.skipGate {
		key = "noauth:" + key
	}
	return key
}
