// Package domain holds the core types for the pledge point ledger.
// These are pure business types with no infrastructure dependency.
package domain

import (
	"strings"
	"time"
)

// ─── Approval Lifecycle ─────────────────────────────────────────────────────

// ApprovalStatus is the lifecycle state of a point record.
// Pending is the initial state; Approved and Rejected are terminal.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus converts a stored token into an ApprovalStatus.
// Only the three canonical tokens are accepted.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ApprovalStatus(s), nil
	}
	return "", Errorf(ErrTypeMismatch, "invalid approval status %q", s)
}

// Bool collapses the tri-state lifecycle onto the legacy boolean flag:
// approved maps to true, pending and rejected map to false.
func (s ApprovalStatus) Bool() bool { return s == StatusApproved }

// StatusFromBool lifts the legacy boolean flag into the tri-state model.
func StatusFromBool(approved bool) ApprovalStatus {
	if approved {
		return StatusApproved
	}
	return StatusPending
}

// ─── Point Records ──────────────────────────────────────────────────────────

// Point change limits for records committed through direct mutation.
// Ingested candidates tolerate the full int64 range until committed.
const (
	PointChangeMin = -128
	PointChangeMax = 127
)

// PointRecord is a single row of the ledger.
type PointRecord struct {
	ID           int64          `json:"id"`
	Time         time.Time      `json:"time"` // millisecond precision
	PointChange  int64          `json:"point_change"`
	Pledge       string         `json:"pledge"`
	Brother      string         `json:"brother"`
	Comment      string         `json:"comment"`
	Status       ApprovalStatus `json:"status"`
	ApprovedBy   string         `json:"approved_by,omitempty"`
	ApprovalTime time.Time      `json:"approval_time,omitzero"`
}

// Candidate is a point change parsed from a raw chat message, not yet
// committed to the ledger.
type Candidate struct {
	Time        time.Time `json:"time"`
	PointChange int64     `json:"point_change"`
	Pledge      string    `json:"pledge"`
	Brother     string    `json:"brother"`
	Comment     string    `json:"comment"`
}

// Message is one raw chat message handed over by the ingestion collaborator.
type Message struct {
	Author  string    `json:"author"`
	Time    time.Time `json:"time"`
	Content string    `json:"content"`
}

// ─── Roster ─────────────────────────────────────────────────────────────────

// Roster is the whitelist of valid pledge names plus the alias table
// mapping nicknames to canonical names. Both are per-semester data.
type Roster struct {
	Pledges []string
	Aliases map[string]string
}

// DefaultRoster returns the seed roster. Deployments override it in config.
func DefaultRoster() Roster {
	return Roster{
		Pledges: []string{
			"Eli", "Evan", "Felix", "George", "Henrik", "Kashyap",
			"Krishiv", "Logan", "Matthew", "Milo", "Nick", "Tony",
			"Will", "Zach", "Devin",
		},
		Aliases: map[string]string{
			"Matt":    "Matthew",
			"Ozempic": "Eli",
			"Pledge":  "Blake",
		},
	}
}

// Normalize title-cases a raw name and applies the alias table.
func (r Roster) Normalize(name string) string {
	n := TitleCase(name)
	if canonical, ok := r.Aliases[n]; ok {
		return canonical
	}
	return n
}

// Contains reports whether the (already normalized) name is on the roster.
func (r Roster) Contains(name string) bool {
	for _, p := range r.Pledges {
		if p == name {
			return true
		}
	}
	return false
}

// TitleCase upper-cases the first letter of each space-delimited word and
// lower-cases the rest, matching how recipient names are normalized on
// ingestion.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Now returns the current time truncated to millisecond precision, the
// resolution stored in the ledger.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
