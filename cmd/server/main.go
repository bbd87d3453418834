package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cmsforge/sitetree/internal/access"
	"github.com/cmsforge/sitetree/internal/config"
	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
	"github.com/cmsforge/sitetree/internal/mcp"
	"github.com/cmsforge/sitetree/internal/metrics"
	"github.com/cmsforge/sitetree/internal/seed"
	"github.com/cmsforge/sitetree/internal/sqlite"
	"github.com/cmsforge/sitetree/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo := sqlite.NewContentRepository(db)
	ctx := context.Background()

	var tables int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='websites'").Scan(&tables)
	if err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if tables == 0 {
		if err := db.RunMigrations(); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
	}

	has, err := repo.HasWebsites(ctx)
	if err != nil {
		return fmt.Errorf("checking websites: %w", err)
	}

	if !has && cfg.Site.SeedPath != "" {
		website, err := seed.Load(cfg.Site.SeedPath)
		if err != nil {
			return fmt.Errorf("loading seed: %w", err)
		}
		if err := repo.ImportWebsite(ctx, website); err != nil {
			return fmt.Errorf("importing seed website: %w", err)
		}
		logger.Info("seeded website", "name", website.Name, "path", cfg.Site.SeedPath)
	}

	store := contentmap.NewStore(repo, logger)
	if err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("loading content snapshot: %w", err)
	}

	gate, err := buildGate(cfg.Site.DeniedNodes, logger)
	if err != nil {
		return err
	}

	var routes []sitemap.WebsiteProviderOption
	for path, marker := range cfg.Site.MarkerRoutes {
		routes = append(routes, sitemap.WithMarkerRoute(path, marker))
	}

	resolver := sitemap.NewResolver(
		sitemap.NewWebsiteProvider(gate, logger, routes...),
		[]sitemap.SubProvider{
			sitemap.NewBlogProvider(gate, logger),
			sitemap.NewForumProvider(gate, logger),
			sitemap.NewEventProvider(gate, logger),
			sitemap.NewSurveyProvider(gate, logger),
		},
		logger,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if cfg.Server.Transport == "mcp" {
		return runMCP(logger, store, resolver, addr)
	}
	return runHTTP(logger, store, resolver, addr)
}

func runHTTP(logger *slog.Logger, store *contentmap.Store, resolver *sitemap.Resolver, addr string) error {
	registry := prometheus.NewRegistry()
	router := transport.NewServer(store, resolver, logger, metrics.New(registry), registry)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "transport", "http")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
	return nil
}

func runMCP(logger *slog.Logger, store *contentmap.Store, resolver *sitemap.Resolver, addr string) error {
	mcpServer := mcp.NewServer(mcp.Config{
		Store:    store,
		Resolver: resolver,
		Logger:   logger,
	})

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "transport", "mcp")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
	return nil
}

func buildGate(deniedNodes []string, logger *slog.Logger) (*access.Gate, error) {
	ids := make([]uuid.UUID, 0, len(deniedNodes))
	for _, raw := range deniedNodes {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid denied node id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return access.NewGate(ids, logger), nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
