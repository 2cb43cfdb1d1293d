// Package chi exposes the pipeline over HTTP: POST /ask, GET /history,
// GET /healthz. This is the boundary the excluded presentation layer calls.
package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/domain"
	"github.com/motorq/concierge/internal/history"
	healthuc "github.com/motorq/concierge/internal/usecase/health"
	pipelineuc "github.com/motorq/concierge/internal/usecase/pipeline"
)

// Server handles the concierge HTTP API.
type Server struct {
	pipeline   pipelineuc.Processor
	health     *healthuc.Service
	transcript *history.Log
	logger     *zap.Logger
}

// NewServer creates an HTTP API server. transcript may be nil to disable
// session history.
func NewServer(
	pipeline pipelineuc.Processor,
	health *healthuc.Service,
	transcript *history.Log,
	logger *zap.Logger,
) *Server {
	return &Server{
		pipeline:   pipeline,
		health:     health,
		transcript: transcript,
		logger:     logger,
	}
}

// Routes mounts the API handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/ask", s.Ask)
	r.Get("/history", s.History)
	r.Get("/healthz", s.Health)
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer  string            `json:"answer"`
	Outcome string            `json:"outcome"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	res := s.pipeline.Process(r.Context(), req.Query)

	outcome := string(res.Outcome())
	if s.transcript != nil {
		s.transcript.Append(history.Entry{
			Question: req.Query,
			Answer:   res.Answer(),
			Outcome:  outcome,
			AskedAt:  time.Now().UTC(),
		})
	}

	switch res.Outcome() {
	case domain.OutcomeFailed:
		s.logger.Error("pipeline run failed", zap.String("query", req.Query), zap.Error(res.Reason()))
		writeError(w, http.StatusBadGateway, codeUpstreamFailed, "the assistant could not answer this question")
	default:
		writeJSON(w, http.StatusOK, askResponse{
			Answer:  res.Answer(),
			Outcome: outcome,
			Meta:    res.Meta(),
		})
	}
}

type historyResponse struct {
	Items []history.Entry `json:"items"`
}

// History handles GET /history.
func (s *Server) History(w http.ResponseWriter, _ *http.Request) {
	items := []history.Entry{}
	if s.transcript != nil {
		items = s.transcript.Entries()
	}
	writeJSON(w, http.StatusOK, historyResponse{Items: items})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}
