package ingest

import (
	"strconv"

	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Deduplication ──────────────────────────────────────────────────────────
// Re-ingesting a lookback window replays messages that were already
// committed. Two records count as the same submission when timestamp
// (truncated to whole seconds), point change, pledge, brother and
// comment all match. Timestamps compare as second-resolution strings so
// sub-second precision lost in storage cannot break the match.

// dedupeKey is the identity of a submission for duplicate detection.
type dedupeKey struct {
	time        string
	pointChange string
	pledge      string
	brother     string
	comment     string
}

func keyOf(c domain.Candidate) dedupeKey {
	return dedupeKey{
		time:        c.Time.UTC().Format("2006-01-02 15:04:05"),
		pointChange: strconv.FormatInt(c.PointChange, 10),
		pledge:      c.Pledge,
		brother:     c.Brother,
		comment:     c.Comment,
	}
}

// CandidateOf projects a stored record back onto candidate shape for
// membership comparison.
func CandidateOf(r domain.PointRecord) domain.Candidate {
	return domain.Candidate{
		Time:        r.Time,
		PointChange: r.PointChange,
		Pledge:      r.Pledge,
		Brother:     r.Brother,
		Comment:     r.Comment,
	}
}

// Deduplicate returns the candidates from newRecords with no match in
// existing. It is a membership filter: order is preserved and existing
// records are never merged or modified.
func Deduplicate(newRecords, existing []domain.Candidate) []domain.Candidate {
	seen := make(map[dedupeKey]struct{}, len(existing))
	for _, c := range existing {
		seen[keyOf(c)] = struct{}{}
	}

	unique := make([]domain.Candidate, 0, len(newRecords))
	for _, c := range newRecords {
		if _, dup := seen[keyOf(c)]; !dup {
			unique = append(unique, c)
		}
	}
	return unique
}
