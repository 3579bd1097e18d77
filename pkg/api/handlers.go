package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodegraph/pkg/buildinfo"
	errs "github.com/matzehuels/nodegraph/pkg/errors"
	ngio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// PurgeResponse reports how many orphan ref nodes were removed.
type PurgeResponse struct {
	Removed int `json:"removed"`
}

// CopyResponse describes a new graph copy.
type CopyResponse struct {
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	names, err := s.runner.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"workspaces": names})
}

func (s *Server) getWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := s.runner.Load(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ngio.Encode(ws))
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runner.Stats(r.Context(), chi.URLParam(r, "ws"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) purgeWorkspace(w http.ResponseWriter, r *http.Request) {
	s.purge(w, r, "")
}

func (s *Server) purgeGraph(w http.ResponseWriter, r *http.Request) {
	s.purge(w, r, chi.URLParam(r, "graph"))
}

func (s *Server) purge(w http.ResponseWriter, r *http.Request, graphID string) {
	removed, err := s.runner.Purge(r.Context(), chi.URLParam(r, "ws"), graphID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PurgeResponse{Removed: removed})
}

func (s *Server) copyGraph(w http.ResponseWriter, r *http.Request) {
	cp, err := s.runner.Copy(r.Context(), chi.URLParam(r, "ws"), chi.URLParam(r, "graph"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CopyResponse{ID: string(cp.ID()), Nodes: cp.NodeCount()})
}

func (s *Server) removeNode(w http.ResponseWriter, r *http.Request) {
	err := s.runner.RemoveNode(r.Context(),
		chi.URLParam(r, "ws"), chi.URLParam(r, "graph"), chi.URLParam(r, "node"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
}

func (s *Server) render(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := pipeline.RenderOptions{
			Format:   format,
			Detailed: queryBool(r, "detailed"),
			Refresh:  queryBool(r, "refresh"),
		}
		data, err := s.runner.Render(r.Context(), chi.URLParam(r, "ws"), chi.URLParam(r, "graph"), opts)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errs.UserMessage(err)})
}
