package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/ledger"
)

// ─── Point Handlers ─────────────────────────────────────────────────────────

// handleList returns every ledger record.
// GET /api/points
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": records, "count": len(records)})
}

// handlePending returns the records awaiting approval.
// GET /api/points/pending
func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.Pending(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"points": records, "count": len(records)})
}

// handleGet returns one record by id.
// GET /api/points/{id}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type appendRequest struct {
	Pledge  string `json:"pledge"`
	Brother string `json:"brother"`
	Comment string `json:"comment"`
	Amount  int64  `json:"amount"`
}

// handleAppend commits a new pending point change.
// POST /api/points
func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Pledge == "" || req.Brother == "" {
		writeError(w, http.StatusBadRequest, "pledge and brother are required")
		return
	}
	rec, err := s.svc.Append(r.Context(), req.Pledge, req.Brother, req.Comment, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type amendRequest struct {
	Pledge  *string `json:"pledge"`
	Brother *string `json:"brother"`
	Comment *string `json:"comment"`
	Amount  *int64  `json:"amount"`
}

// handleAmend updates the supplied non-identity fields of a record.
// PATCH /api/points/{id}
func (s *Server) handleAmend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req amendRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := s.svc.Amend(r.Context(), id, ledger.Amendment{
		Pledge:  req.Pledge,
		Brother: req.Brother,
		Comment: req.Comment,
		Amount:  req.Amount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type actorRequest struct {
	Actor string `json:"actor"`
}

// handleApprove approves a single record.
// POST /api/points/{id}/approve
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, domain.StatusApproved)
}

// handleReject rejects a single record.
// POST /api/points/{id}/reject
func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, domain.StatusRejected)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, status domain.ApprovalStatus) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req actorRequest
	if !decode(w, r, &req) {
		return
	}
	rec, err := s.svc.SetApproval(r.Context(), id, status, req.Actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type bulkRequest struct {
	IDs   []int64 `json:"ids"`
	Actor string  `json:"actor"`
}

// handleApproveBulk approves a comma-separated id list submitted as an
// array.
// POST /api/points/approve
func (s *Server) handleApproveBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.SetApprovalBulk(r.Context(), req.IDs, domain.StatusApproved, req.Actor); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"approved": len(req.IDs)})
}

type rangeRequest struct {
	StartID int64  `json:"start_id"`
	EndID   int64  `json:"end_id"`
	Actor   string `json:"actor"`
}

// handleApproveRange approves every existing id in the inclusive range.
// POST /api/points/approve-range
func (s *Server) handleApproveRange(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.svc.SetApprovalRange(r.Context(), req.StartID, req.EndID, domain.StatusApproved, req.Actor); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// handleApproveAll approves the whole pending backlog.
// POST /api/points/approve-all
func (s *Server) handleApproveAll(w http.ResponseWriter, r *http.Request) {
	var req actorRequest
	if !decode(w, r, &req) {
		return
	}
	affected, err := s.svc.ApproveAllPending(r.Context(), req.Actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"approved": affected, "count": len(affected)})
}

// handleDeleteUnapproved removes every record that is not approved.
// DELETE /api/points/unapproved
func (s *Server) handleDeleteUnapproved(w http.ResponseWriter, r *http.Request) {
	removed, err := s.svc.DeleteUnapproved(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

// ─── Aggregation Handlers ───────────────────────────────────────────────────

// handleTotals returns per-pledge totals, alphabetical by name.
// GET /api/totals
func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	names, totals, err := s.svc.AllTotals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pledges": names, "totals": totals})
}

// handleTotalFor returns one pledge's total. Unknown pledges total 0.
// GET /api/totals/{pledge}
func (s *Server) handleTotalFor(w http.ResponseWriter, r *http.Request) {
	pledge := chi.URLParam(r, "pledge")
	total, err := s.svc.TotalFor(r.Context(), pledge)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pledge": pledge, "total": total})
}

// handleHistory returns a pledge's records, time ascending.
// GET /api/history/{pledge}
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	pledge := chi.URLParam(r, "pledge")
	records, err := s.svc.HistoryFor(r.Context(), pledge)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pledge": pledge, "points": records, "count": len(records)})
}

// handleRankings returns the approved-only standings with medal
// annotations for the top three.
// GET /api/rankings
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.Rankings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	type rankedEntry struct {
		Rank   int    `json:"rank"`
		Medal  string `json:"medal,omitempty"`
		Pledge string `json:"pledge"`
		Total  int64  `json:"total"`
	}
	ranked := make([]rankedEntry, len(entries))
	for i, e := range entries {
		ranked[i] = rankedEntry{Rank: i + 1, Medal: medalFor(i + 1), Pledge: e.Pledge, Total: e.Total}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": ranked})
}

type ingestRequest struct {
	DaysAgo int `json:"days_ago"`
}

// handleIngest runs one ingestion batch over the lookback window.
// POST /api/ingest
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "no message source configured")
		return
	}
	var req ingestRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DaysAgo <= 0 {
		writeError(w, http.StatusBadRequest, "days_ago must be positive")
		return
	}
	report, err := s.pipeline.Run(r.Context(), req.DaysAgo)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// medalFor returns the medal emoji for the top three ranks.
func medalFor(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	}
	return ""
}
