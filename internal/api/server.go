// Package api exposes the analysis pipeline and plan store over HTTP.
//
// The API is JSON-in, JSON-out. Plans are created by posting a plan
// document; resolution and metrics run on demand per request, with the
// term cache shared across requests.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coursegraph/coursegraph/pkg/cache"
	"github.com/coursegraph/coursegraph/pkg/pipeline"
	"github.com/coursegraph/coursegraph/pkg/store"
)

// Server holds the API's dependencies.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	cache  cache.Cache
	logger *log.Logger
}

// NewServer creates an API server over the given store and runner.
// If c is non-nil, analysis responses are cached in it, keyed by plan
// revision and query parameters. A nil cache disables response caching.
func NewServer(st store.Store, runner *pipeline.Runner, c cache.Cache, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, cache: c, logger: logger}
}

// Routes builds the HTTP routing table.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/plans", func(r chi.Router) {
		r.Post("/", s.handleCreatePlan)
		r.Get("/", s.handleListPlans)
		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Put("/", s.handleUpdatePlan)
			r.Delete("/", s.handleDeletePlan)
			r.Get("/metrics", s.handleMetrics)
			r.Get("/graph.json", s.handleGraph)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
