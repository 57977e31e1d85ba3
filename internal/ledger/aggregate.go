package ledger

import (
	"sort"

	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Aggregation ────────────────────────────────────────────────────────────

// TotalFor sums the point changes for one pledge across every record,
// regardless of approval status. A pledge with no records totals 0.
func (l *Ledger) TotalFor(pledge string) int64 {
	var total int64
	for _, r := range l.records {
		if r.Pledge == pledge {
			total += r.PointChange
		}
	}
	return total
}

// AllTotals returns the total for every distinct pledge as two parallel
// slices ordered alphabetically by pledge name. Both are empty for an
// empty ledger.
func (l *Ledger) AllTotals() ([]string, []int64) {
	totals := make(map[string]int64)
	for _, r := range l.records {
		totals[r.Pledge] += r.PointChange
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	sums := make([]int64, len(names))
	for i, name := range names {
		sums[i] = totals[name]
	}
	return names, sums
}

// HistoryFor returns the records for one pledge sorted ascending by
// timestamp, id as tiebreak. An unknown pledge yields an empty history,
// not an error.
func (l *Ledger) HistoryFor(pledge string) []domain.PointRecord {
	var out []domain.PointRecord
	for _, r := range l.records {
		if r.Pledge == pledge {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RankEntry is one row of the standings: a pledge and their approved
// point total.
type RankEntry struct {
	Pledge string `json:"pledge"`
	Total  int64  `json:"total"`
}

// Rankings groups approved records by pledge, sums them, and sorts
// descending by total. Ties keep first-seen insertion order (stable
// sort); no further tiebreak is applied.
func (l *Ledger) Rankings() []RankEntry {
	totals := make(map[string]int64)
	var order []string
	for _, r := range l.records {
		if r.Status != domain.StatusApproved {
			continue
		}
		if _, seen := totals[r.Pledge]; !seen {
			order = append(order, r.Pledge)
		}
		totals[r.Pledge] += r.PointChange
	}

	entries := make([]RankEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, RankEntry{Pledge: name, Total: totals[name]})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Total > entries[j].Total })
	return entries
}
