// Package server exposes the inbound HTTP surface. It is a thin layer:
// trim, validate, call the orchestrator, map the failure kind to a
// response. Full failure detail stays in server-side logs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

type Config struct {
	Addr            string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

// Runner is the orchestrator surface the server needs.
type Runner interface {
	RunOutreach(ctx context.Context, req contractx.OutreachRequest) (contractx.OutreachResult, error)
	RunStrategy(ctx context.Context, req contractx.OutreachRequest) (contractx.OutreachResult, error)
}

type Server struct {
	runner Runner
}

func New(runner Runner) (*Server, error) {
	if runner == nil {
		return nil, errors.New("server: runner is required")
	}
	return &Server{runner: runner}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-outreach", s.handleRun(s.runner.RunOutreach))
	mux.HandleFunc("POST /connection-strategy", s.handleRun(s.runner.RunStrategy))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleRun(run func(ctx context.Context, req contractx.OutreachRequest) (contractx.OutreachResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contractx.OutreachRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
			return
		}

		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		req.Company = strings.TrimSpace(req.Company)
		req.TeamMember = strings.TrimSpace(req.TeamMember)

		if req.FirstName == "" || req.LastName == "" || req.Company == "" || req.TeamMember == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "first_name, last_name, company and team_member are required"})
			return
		}

		result, err := run(r.Context(), req)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, contractx.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})
		return
	}

	// Anything else is an internal failure; the caller gets a generic
	// summary, the detail is already in the run logs.
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "outreach pipeline failed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
