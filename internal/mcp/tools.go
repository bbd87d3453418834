package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
)

// Handler carries the dependencies behind the MCP tools.
type Handler struct {
	store    *contentmap.Store
	resolver *sitemap.Resolver
	logger   *slog.Logger
}

// ResolvePathParams selects a path to resolve.
type ResolvePathParams struct {
	Website           string `json:"website,omitempty" jsonschema:"Website name. May be omitted when exactly one website is loaded."`
	Path              string `json:"path" jsonschema:"Request path to resolve, e.g. /news/ or /docs/logo.png."`
	Language          string `json:"language,omitempty" jsonschema:"Active language code, e.g. en or fr."`
	SkipAuthorization bool   `json:"skip_authorization,omitempty" jsonschema:"Resolve without applying the access gate."`
}

// ResolvePathResult is the resolution outcome.
type ResolvePathResult struct {
	Status        string        `json:"status"`
	Duplicate     bool          `json:"duplicate,omitempty"`
	RewriteTarget string        `json:"rewrite_target,omitempty"`
	Node          *content.Node `json:"node,omitempty"`
}

// NodeParams addresses one node inside a website.
type NodeParams struct {
	Website  string `json:"website,omitempty" jsonschema:"Website name. May be omitted when exactly one website is loaded."`
	NodeID   string `json:"node_id" jsonschema:"Node id (UUID)."`
	Language string `json:"language,omitempty" jsonschema:"Active language code."`
}

// NodesResult lists nodes.
type NodesResult struct {
	Nodes []*content.Node `json:"nodes"`
}

// NodeResult carries a single node, or none.
type NodeResult struct {
	Node *content.Node `json:"node,omitempty"`
}

// ListWebsitesParams has no fields.
type ListWebsitesParams struct{}

// WebsiteSummary describes one loaded website.
type WebsiteSummary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	BasePath  string   `json:"base_path,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Solutions []string `json:"solutions,omitempty"`
	Pages     int      `json:"pages"`
}

// ListWebsitesResult lists the loaded websites.
type ListWebsitesResult struct {
	Websites []WebsiteSummary `json:"websites"`
}

// RefreshParams has no fields.
type RefreshParams struct{}

// RefreshResult reports the refreshed snapshot size.
type RefreshResult struct {
	Websites int `json:"websites"`
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_path",
		Description: "Resolve a request path to a site hierarchy node, applying language and access rules",
	}, h.resolvePath)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_children",
		Description: "List the visible child nodes of a hierarchy node",
	}, h.getChildren)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_parent",
		Description: "Get the parent of a hierarchy node, or nothing for a site root",
	}, h.getParent)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_websites",
		Description: "List the websites in the current content snapshot",
	}, h.listWebsites)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "refresh_content",
		Description: "Reload all websites from storage and swap in a fresh snapshot",
	}, h.refreshContent)
}

func (h *Handler) resolvePath(ctx context.Context, _ *sdkmcp.CallToolRequest, params ResolvePathParams) (*sdkmcp.CallToolResult, ResolvePathResult, error) {
	if params.Path == "" {
		return nil, ResolvePathResult{}, fmt.Errorf("path is required")
	}
	rc, err := h.newRequest(ctx, params.Website, params.Language)
	if err != nil {
		return nil, ResolvePathResult{}, toolError(err)
	}

	var res *sitemap.Resolution
	if params.SkipAuthorization {
		res, err = h.resolver.FindNodeWithoutAuthorization(rc, params.Path)
	} else {
		res, err = h.resolver.FindNode(rc, params.Path)
	}
	if err != nil {
		return nil, ResolvePathResult{}, toolError(err)
	}
	return nil, ResolvePathResult{
		Status:        res.Status.String(),
		Duplicate:     res.Duplicate,
		RewriteTarget: res.RewriteTarget,
		Node:          res.Node,
	}, nil
}

func (h *Handler) getChildren(ctx context.Context, _ *sdkmcp.CallToolRequest, params NodeParams) (*sdkmcp.CallToolResult, NodesResult, error) {
	rc, node, err := h.requestNode(ctx, params)
	if err != nil {
		return nil, NodesResult{}, toolError(err)
	}
	children, err := h.resolver.GetChildNodes(rc, node)
	if err != nil {
		return nil, NodesResult{}, toolError(err)
	}
	result := NodesResult{Nodes: []*content.Node{}}
	for _, child := range children {
		result.Nodes = append(result.Nodes, child.Node)
	}
	return nil, result, nil
}

func (h *Handler) getParent(ctx context.Context, _ *sdkmcp.CallToolRequest, params NodeParams) (*sdkmcp.CallToolResult, NodeResult, error) {
	rc, node, err := h.requestNode(ctx, params)
	if err != nil {
		return nil, NodeResult{}, toolError(err)
	}
	parent, err := h.resolver.GetParentNode(rc, node)
	if err != nil {
		return nil, NodeResult{}, toolError(err)
	}
	if parent == nil {
		return nil, NodeResult{}, nil
	}
	return nil, NodeResult{Node: parent.Node}, nil
}

func (h *Handler) listWebsites(_ context.Context, _ *sdkmcp.CallToolRequest, _ ListWebsitesParams) (*sdkmcp.CallToolResult, ListWebsitesResult, error) {
	result := ListWebsitesResult{Websites: []WebsiteSummary{}}
	for _, website := range h.store.Websites() {
		summary := WebsiteSummary{
			ID:        website.ID.String(),
			Name:      website.Name,
			BasePath:  website.BasePath,
			Solutions: website.Solutions,
			Pages:     len(website.Pages),
		}
		for _, lang := range website.Languages {
			summary.Languages = append(summary.Languages, lang.Code)
		}
		result.Websites = append(result.Websites, summary)
	}
	return nil, result, nil
}

func (h *Handler) refreshContent(ctx context.Context, _ *sdkmcp.CallToolRequest, _ RefreshParams) (*sdkmcp.CallToolResult, RefreshResult, error) {
	if err := h.store.Refresh(ctx); err != nil {
		return nil, RefreshResult{}, fmt.Errorf("refresh failed: %w", err)
	}
	return nil, RefreshResult{Websites: len(h.store.Websites())}, nil
}

// newRequest pins the current snapshot and binds the request to a website
// scope. An empty website name is allowed when exactly one site is loaded.
func (h *Handler) newRequest(ctx context.Context, websiteName, language string) (*sitemap.Request, error) {
	snap := h.store.Current()
	if snap == nil {
		return nil, fmt.Errorf("no content snapshot loaded; call refresh_content")
	}

	var website *content.Website
	if websiteName != "" {
		var ok bool
		website, ok = h.store.WebsiteByName(websiteName)
		if !ok {
			return nil, sitemap.ErrWebsiteNotFound
		}
	} else {
		websites := h.store.Websites()
		if len(websites) != 1 {
			return nil, fmt.Errorf("website is required when %d websites are loaded", len(websites))
		}
		website = websites[0]
	}
	return sitemap.NewRequest(ctx, snap, website.ID, language)
}

func (h *Handler) requestNode(ctx context.Context, params NodeParams) (*sitemap.Request, *content.Node, error) {
	rc, err := h.newRequest(ctx, params.Website, params.Language)
	if err != nil {
		return nil, nil, err
	}
	id, err := uuid.Parse(params.NodeID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid node_id: %w", err)
	}
	for _, kind := range []content.Kind{
		content.KindPage, content.KindFile, content.KindShortcut,
		content.KindBlog, content.KindBlogPost,
		content.KindForum, content.KindForumThread,
		content.KindEvent, content.KindSurvey,
	} {
		if node, ok := rc.Snapshot.Node(kind, id); ok {
			return rc, node, nil
		}
	}
	return nil, nil, fmt.Errorf("unknown node %s", id)
}
