package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	cgerrors "github.com/coursegraph/coursegraph/pkg/errors"
	"github.com/coursegraph/coursegraph/pkg/export"
	planio "github.com/coursegraph/coursegraph/pkg/io"
	"github.com/coursegraph/coursegraph/pkg/pipeline"
	"github.com/coursegraph/coursegraph/pkg/store"
)

// planRequest is the create/update payload: a display name plus the plan
// document in the pkg/io JSON format.
type planRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// planResponse describes a stored plan without its document body.
type planResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// metricsResponse is the analysis result for one stored plan.
type metricsResponse struct {
	PlanHash string        `json:"plan_hash"`
	System   string        `json:"system"`
	Courses  []export.Node `json:"courses"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePlanRequest(w, r)
	if !ok {
		return
	}

	p, err := s.store.Create(r.Context(), req.Name, req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanResponse(p))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		planResponse
		Document json.RawMessage `json:"document"`
	}{toPlanResponse(p), p.Document})
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodePlanRequest(w, r)
	if !ok {
		return
	}

	p, err := s.store.Update(r.Context(), chi.URLParam(r, "planID"), req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanResponse(p))
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "planID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.serveAnalysis(w, r, "metrics", func(result *pipeline.Result) ([]byte, error) {
		return json.Marshal(metricsResponse{
			PlanHash: result.PlanHash,
			System:   result.System.String(),
			Courses:  export.BuildGraph(result.Plan, result.Report).Nodes,
		})
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.serveAnalysis(w, r, "graph", func(result *pipeline.Result) ([]byte, error) {
		return result.Artifacts[pipeline.FormatJSON], nil
	})
}

// analysisTTL bounds how long cached analysis responses are served.
// Requisite tables for published terms rarely change, but statistics
// refresh periodically.
const analysisTTL = time.Hour

// serveAnalysis fetches the stored plan, serves the rendered analysis
// from the response cache when possible, and otherwise runs the pipeline
// and caches the rendered body. Cache failures fall through to a fresh
// computation.
func (s *Server) serveAnalysis(w http.ResponseWriter, r *http.Request, view string, render func(*pipeline.Result) ([]byte, error)) {
	p, err := s.store.Get(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := analysisKey(view, p, r.URL.Query())
	if s.cache != nil {
		if body, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
			writeJSONBytes(w, body)
			return
		}
	}

	result, err := s.analyze(r, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := render(result)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.cache != nil {
		if err := s.cache.Set(r.Context(), key, body, analysisTTL); err != nil {
			s.logger.Warn("response cache write failed", "key", key, "error", err)
		}
	}
	writeJSONBytes(w, body)
}

// analysisKey includes the plan's update timestamp, so stale entries die
// with the revision they describe.
func analysisKey(view string, p *store.StoredPlan, query url.Values) string {
	return fmt.Sprintf("analysis:%s:%s:%d:%s", view, p.ID, p.UpdatedAt.UnixNano(), query.Encode())
}

// analyze runs the pipeline for a stored plan, honoring per-request query
// parameters: weighted, reference_year, and system.
func (s *Server) analyze(r *http.Request, p *store.StoredPlan) (*pipeline.Result, error) {
	opts := pipeline.Options{
		Document: p.Document,
		Formats:  []string{pipeline.FormatJSON},
		Weighted: r.URL.Query().Get("weighted") == "true",
		System:   r.URL.Query().Get("system"),
	}
	if y := r.URL.Query().Get("reference_year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return nil, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "reference_year")
		}
		opts.ReferenceYear = year
	}
	return s.runner.Execute(r.Context(), opts)
}

func (s *Server) decodePlanRequest(w http.ResponseWriter, r *http.Request) (planRequest, bool) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, cgerrors.Wrap(cgerrors.ErrCodeInvalidInput, err, "decoding request body"))
		return req, false
	}
	if req.Name == "" {
		s.writeError(w, cgerrors.New(cgerrors.ErrCodeInvalidInput, "name is required"))
		return req, false
	}
	// Reject documents the pipeline could not load later.
	if _, _, err := planio.ReadJSON(bytes.NewReader(req.Document)); err != nil {
		s.writeError(w, err)
		return req, false
	}
	return req, true
}

func toPlanResponse(p *store.StoredPlan) planResponse {
	return planResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(timeFormat),
		UpdatedAt: p.UpdatedAt.Format(timeFormat),
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func writeJSONBytes(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch cgerrors.GetCode(err) {
	case cgerrors.ErrCodePlanNotFound, cgerrors.ErrCodeNotFound,
		cgerrors.ErrCodeTermNotFound, cgerrors.ErrCodeCourseNotFound:
		status = http.StatusNotFound
	case cgerrors.ErrCodeInvalidInput, cgerrors.ErrCodeInvalidPlan,
		cgerrors.ErrCodeInvalidCourse, cgerrors.ErrCodeInvalidExpression,
		cgerrors.ErrCodeInvalidTerm, cgerrors.ErrCodeInvalidFormat,
		cgerrors.ErrCodeInvalidSystem:
		status = http.StatusBadRequest
	case cgerrors.ErrCodeNetwork, cgerrors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": cgerrors.UserMessage(err),
		"code":  string(cgerrors.GetCode(err)),
	})
}
