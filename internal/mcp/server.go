// Package mcp exposes the sitemap resolver as an MCP server so agent
// clients can navigate and resolve site hierarchies.
package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
)

// Config contains server configuration.
type Config struct {
	Store    *contentmap.Store
	Resolver *sitemap.Resolver
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sitetree",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &Handler{store: cfg.Store, resolver: cfg.Resolver, logger: cfg.Logger})

	return server
}
