// Package api serves workspaces over HTTP.
//
// The router is built with chi and delegates every request to a
// [pipeline.Runner]. Requests are handled one at a time, because the graph
// core is single-threaded.
//
// # Routes
//
//	GET    /healthz
//	GET    /workspaces
//	GET    /workspaces/{ws}
//	GET    /workspaces/{ws}/stats
//	POST   /workspaces/{ws}/purge
//	GET    /workspaces/{ws}/graphs/{graph}/dot
//	GET    /workspaces/{ws}/graphs/{graph}/svg
//	POST   /workspaces/{ws}/graphs/{graph}/purge
//	POST   /workspaces/{ws}/graphs/{graph}/copy
//	DELETE /workspaces/{ws}/graphs/{graph}/nodes/{node}
//
// Errors are JSON objects with a code and a message:
//
//	{"code": "GRAPH_NOT_FOUND", "message": "graph \"x\" not found in workspace demo"}
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// Server holds the runner and the request lock.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	mu     sync.Mutex
}

// New creates the HTTP router with all routes registered.
func New(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)

	r.Group(func(r chi.Router) {
		r.Use(s.serialize)

		r.Get("/workspaces", s.listWorkspaces)
		r.Route("/workspaces/{ws}", func(r chi.Router) {
			r.Get("/", s.getWorkspace)
			r.Get("/stats", s.getStats)
			r.Post("/purge", s.purgeWorkspace)

			r.Route("/graphs/{graph}", func(r chi.Router) {
				r.Get("/dot", s.render(pipeline.FormatDOT))
				r.Get("/svg", s.render(pipeline.FormatSVG))
				r.Post("/purge", s.purgeGraph)
				r.Post("/copy", s.copyGraph)
				r.Delete("/nodes/{node}", s.removeNode)
			})
		})
	})

	return r
}

// serialize runs one request at a time.
func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
