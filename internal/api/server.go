// Package api exposes the extraction pipeline over HTTP for the app
// frontend. One POST endpoint does the work; everything else is plumbing.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/elenafy/ChefStacks-sub001/internal/config"
	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/orchestrator"
	"github.com/elenafy/ChefStacks-sub001/internal/preflight"
)

// Pipeline is what the handlers need from the orchestrator.
type Pipeline interface {
	Extract(ctx context.Context, rawURL string, opts orchestrator.Options) (*model.FusedRecipe, error)
}

// Server holds the handler dependencies.
type Server struct {
	pipeline Pipeline
	cfg      *config.Config
}

func NewServer(pipeline Pipeline, cfg *config.Config) *Server {
	return &Server{pipeline: pipeline, cfg: cfg}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(15 * time.Minute))

	origins := s.cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/extract", s.handleExtract)
	return r
}

type extractRequest struct {
	URL           string `json:"url"`
	SkipPreflight bool   `json:"skip_preflight,omitempty"`
}

type errorResponse struct {
	Error struct {
		Kind        string            `json:"kind"`
		Message     string            `json:"message"`
		CanOverride bool              `json:"can_override,omitempty"`
		Preflight   *preflight.Result `json:"preflight,omitempty"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, &orchestrator.Error{
			Kind:    orchestrator.KindInvalidURL,
			Message: "body must be JSON with a non-empty url field",
		})
		return
	}

	rec, err := s.pipeline.Extract(r.Context(), req.URL, orchestrator.Options{
		SkipPreflight: req.SkipPreflight,
	})
	if err != nil {
		e, ok := orchestrator.AsError(err)
		if !ok {
			e = &orchestrator.Error{Kind: orchestrator.KindTransportError, Message: "extraction failed"}
		}
		zap.L().Warn("api: extract failed",
			zap.String("url", req.URL),
			zap.String("kind", string(e.Kind)))
		writeError(w, statusFor(e.Kind), e)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func statusFor(kind orchestrator.ErrorKind) int {
	switch kind {
	case orchestrator.KindInvalidURL:
		return http.StatusBadRequest
	case orchestrator.KindPreflightRejected:
		return http.StatusUnprocessableEntity
	case orchestrator.KindTimedOut:
		return http.StatusGatewayTimeout
	case orchestrator.KindCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, e *orchestrator.Error) {
	var body errorResponse
	body.Error.Kind = string(e.Kind)
	body.Error.Message = e.Message
	body.Error.CanOverride = e.Overridable()
	body.Error.Preflight = e.Preflight
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}
