package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `sitetree resolves request paths against multi-language CMS site hierarchies.

Core concepts:
- Website: one site scope with pages, files, shortcuts and community content, plus languages, site markers and installed solutions.
- Node: one entity in the hierarchy. Pages come as root variants plus per-language content variants sharing the root's partial URL.
- Resolution: the outcome of resolving a path: a node plus a status (ok, not_found, forbidden), a duplicate flag for ambiguous matches, and an optional rewrite target.
- Snapshot: the immutable content view resolutions run against. refresh_content swaps in a new one; in-flight requests keep the old.

Typical workflow:
1) list_websites to see what is loaded.
2) resolve_path with a path (trailing slash for pages: /about/, bare name for files: /docs/logo.png). Pass language for localized sites.
3) Walk the tree with get_children / get_parent from any resolved node.
4) After changing stored content, call refresh_content.

Notes:
- A not_found with duplicate=true means two root pages share a partial URL under one parent; the ambiguity is reported, never silently picked through.
- Blogs expose virtual archive nodes: /blog/2026/03/, /blog/author/<guid>/, /blog/tags/<tag>/.
- resolve_path with skip_authorization=true bypasses the access gate for administrative inspection.
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "sitetree://docs/paths",
		Name:        "docs_paths",
		Title:       "Path resolution rules",
		Description: "How request paths map to pages, files and community content.",
		Content: `# Path resolution rules

Pages are addressed by full path with a trailing slash. Resolution tries a
literal match on the page's partial URL first, then splits the path on the
right-most segment, resolves the parent recursively, and matches the final
segment among the parent's children. Partial URLs containing slashes only
ever match literally.

Files are addressed without a trailing slash: the last segment is the file
name, everything before it must resolve to the parent page.

When two root page variants share a partial URL under the same parent, the
path is ambiguous and resolves to the Page Not Found page with
duplicate=true.

Community content hangs under pages: a blog at page /news/ with partial URL
"journal" lives at /news/journal/, its posts one segment deeper. Blogs,
forums, events and surveys only resolve when their solution package is
installed on the website.
`,
	},
	{
		URI:         "sitetree://docs/languages",
		Name:        "docs_languages",
		Title:       "Language handling",
		Description: "Active language selection, content variants and fallbacks.",
		Content: `# Language handling

A website with no languages configured serves root page variants directly.
Otherwise each request runs under an active language (the request's, or the
website default).

A page with no content variants serves its root variant in every language.
A page with content variants serves the variant matching the active
language; if variants exist but none match, the path reports
LANGUAGE_UNAVAILABLE rather than not found.

A leading language code segment in the path (/en/about/) is stripped before
matching. Blogs and forums may be pinned to one language and disappear from
other languages' sitemaps.
`,
	},
	{
		URI:         "sitetree://docs/markers",
		Name:        "docs_markers",
		Title:       "Site markers",
		Description: "Required well-known pages and failure semantics.",
		Content: `# Site markers

Every website must point the Home and Page Not Found markers at pages.
Access Denied is strongly recommended: when the gate rejects a node the
resolution substitutes the Access Denied page with status forbidden.

A missing or deactivated marker target is a configuration error
(SITE_CONFIGURATION), not an ordinary miss. If the Access Denied page is
itself inaccessible the resolution degrades to a bare not_found without a
node rather than recursing.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
