// Package api exposes the ledger command surface over HTTP. Every route
// maps 1:1 onto a service operation; formatting beyond plain JSON stays
// with the chat-facing presentation layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deltap/pledgepoints/internal/app"
	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/ingest"
)

// Server is the ledger HTTP API server.
type Server struct {
	svc            *app.Service
	pipeline       *ingest.Pipeline // nil when no message source is wired
	metricsEnabled bool
	started        time.Time
}

// NewServer creates an API server over the given service.
func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc, started: time.Now()}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetPipeline wires the ingestion pipeline for the /api/ingest trigger.
func (s *Server) SetPipeline(p *ingest.Pipeline) { s.pipeline = p }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "ok",
			"uptime_seconds": int(time.Since(s.started).Seconds()),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/points", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleAppend)
			r.Get("/pending", s.handlePending)
			r.Post("/approve", s.handleApproveBulk)
			r.Post("/approve-range", s.handleApproveRange)
			r.Post("/approve-all", s.handleApproveAll)
			r.Delete("/unapproved", s.handleDeleteUnapproved)
			r.Get("/{id}", s.handleGet)
			r.Patch("/{id}", s.handleAmend)
			r.Post("/{id}/approve", s.handleApprove)
			r.Post("/{id}/reject", s.handleReject)
		})
		r.Get("/totals", s.handleTotals)
		r.Get("/totals/{pledge}", s.handleTotalFor)
		r.Get("/history/{pledge}", s.handleHistory)
		r.Get("/rankings", s.handleRankings)
		r.Post("/ingest", s.handleIngest)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps the error taxonomy onto HTTP status codes and
// surfaces the core message verbatim.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRangeViolation),
		errors.Is(err, domain.ErrTypeMismatch),
		errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
