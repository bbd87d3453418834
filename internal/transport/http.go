// Package transport exposes the resolver over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cmsforge/sitetree/internal/contentmap"
	"github.com/cmsforge/sitetree/internal/domain/content"
	"github.com/cmsforge/sitetree/internal/domain/sitemap"
	"github.com/cmsforge/sitetree/internal/metrics"
)

// Server wires HTTP handlers over the store and resolver.
type Server struct {
	store    *contentmap.Store
	resolver *sitemap.Resolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewServer creates the HTTP router.
func NewServer(store *contentmap.Store, resolver *sitemap.Resolver, logger *slog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{store: store, resolver: resolver, logger: logger, metrics: m}

	r := chi.NewRouter()
	r.Get("/resolve", srv.handleResolve)
	r.Get("/nodes/{id}/children", srv.handleChildren)
	r.Get("/nodes/{id}/parent", srv.handleParent)
	r.Post("/refresh", srv.handleRefresh)
	r.Get("/healthz", srv.handleHealth)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type resolveResponse struct {
	Status        string        `json:"status"`
	Duplicate     bool          `json:"duplicate,omitempty"`
	RewriteTarget string        `json:"rewrite_target,omitempty"`
	Node          *content.Node `json:"node,omitempty"`
}

type nodesResponse struct {
	Nodes []*content.Node `json:"nodes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}

	rc, ok := s.newRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.resolver.FindNode(rc, path)
	if err != nil {
		s.metrics.ObserveResolution(rc.Website.Name, errorOutcome(err), false, time.Since(start))
		s.writeResolveError(w, rc, err)
		return
	}
	s.metrics.ObserveResolution(rc.Website.Name, res.Status.String(), res.Duplicate, time.Since(start))

	status := http.StatusOK
	switch {
	case res.Duplicate:
		status = http.StatusConflict
	case res.Status == sitemap.StatusNotFound:
		status = http.StatusNotFound
	case res.Status == sitemap.StatusForbidden:
		status = http.StatusForbidden
	}
	writeJSON(w, status, resolveResponse{
		Status:        res.Status.String(),
		Duplicate:     res.Duplicate,
		RewriteTarget: res.RewriteTarget,
		Node:          res.Node,
	})
}

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	rc, node, ok := s.requestNode(w, r)
	if !ok {
		return
	}
	children, err := s.resolver.GetChildNodes(rc, node)
	if err != nil {
		s.writeResolveError(w, rc, err)
		return
	}
	resp := nodesResponse{Nodes: []*content.Node{}}
	for _, child := range children {
		resp.Nodes = append(resp.Nodes, child.Node)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParent(w http.ResponseWriter, r *http.Request) {
	rc, node, ok := s.requestNode(w, r)
	if !ok {
		return
	}
	parent, err := s.resolver.GetParentNode(rc, node)
	if err != nil {
		s.writeResolveError(w, rc, err)
		return
	}
	if parent == nil {
		writeError(w, http.StatusNotFound, "node has no parent")
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Status:        parent.Status.String(),
		RewriteTarget: parent.RewriteTarget,
		Node:          parent.Node,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		s.logger.Error("refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	s.metrics.ObserveRefresh(len(s.store.Websites()))
	writeJSON(w, http.StatusOK, map[string]int{"websites": len(s.store.Websites())})
}

// newRequest builds a resolution request from the website and lang query
// parameters. With a single website loaded the website parameter may be
// omitted.
func (s *Server) newRequest(w http.ResponseWriter, r *http.Request) (*sitemap.Request, bool) {
	snap := s.store.Current()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no content snapshot loaded")
		return nil, false
	}

	var website *content.Website
	if name := r.URL.Query().Get("website"); name != "" {
		var ok bool
		website, ok = s.store.WebsiteByName(name)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown website")
			return nil, false
		}
	} else {
		websites := s.store.Websites()
		if len(websites) != 1 {
			writeError(w, http.StatusBadRequest, "website query parameter is required")
			return nil, false
		}
		website = websites[0]
	}

	rc, err := sitemap.NewRequest(r.Context(), snap, website.ID, r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown website")
		return nil, false
	}
	return rc, true
}

func (s *Server) requestNode(w http.ResponseWriter, r *http.Request) (*sitemap.Request, *content.Node, bool) {
	rc, ok := s.newRequest(w, r)
	if !ok {
		return nil, nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid node id")
		return nil, nil, false
	}
	node, ok := findNodeByID(rc, id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown node")
		return nil, nil, false
	}
	return rc, node, true
}

func (s *Server) writeResolveError(w http.ResponseWriter, rc *sitemap.Request, err error) {
	switch {
	case errors.Is(err, sitemap.ErrLanguageUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "content not available in the requested language")
	case errors.Is(err, sitemap.ErrSiteConfiguration), errors.Is(err, sitemap.ErrParentInvariant):
		s.logger.Error("site configuration error", "website", rc.Website.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "site configuration error")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		s.logger.Error("resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "resolution failed")
	}
}

// errorOutcome labels failed resolutions for the resolutions counter,
// mirroring the status mapping of writeResolveError.
func errorOutcome(err error) string {
	switch {
	case errors.Is(err, sitemap.ErrLanguageUnavailable):
		return "language_unavailable"
	case errors.Is(err, sitemap.ErrSiteConfiguration), errors.Is(err, sitemap.ErrParentInvariant):
		return "site_configuration"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func findNodeByID(rc *sitemap.Request, id uuid.UUID) (*content.Node, bool) {
	for _, kind := range []content.Kind{
		content.KindPage, content.KindFile, content.KindShortcut,
		content.KindBlog, content.KindBlogPost,
		content.KindForum, content.KindForumThread,
		content.KindEvent, content.KindSurvey,
	} {
		if node, ok := rc.Snapshot.Node(kind, id); ok {
			return node, true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
