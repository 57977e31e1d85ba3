package ledger

import (
	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Approval State Machine ─────────────────────────────────────────────────
// pending is the initial state; approved and rejected are terminal.
// A record already in the requested terminal state is left untouched, so
// repeated approvals are harmless. Records in the other terminal state
// are skipped rather than flipped: terminal states never transition.

// SetApproval transitions exactly one record. Fails with ErrNotFound if
// the id is absent.
func (l *Ledger) SetApproval(id int64, status domain.ApprovalStatus, actor string) (*Ledger, error) {
	if err := validateStatusTarget(status); err != nil {
		return nil, err
	}
	i, ok := l.index[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "point id %d not found in ledger", id)
	}

	c := l.clone()
	c.transition(i, status, actor)
	return c, nil
}

// SetApprovalRange applies the transition to every id in the inclusive
// range that exists. Swapped bounds are normalized rather than rejected;
// negative or oversized bounds fail with ErrRangeViolation.
func (l *Ledger) SetApprovalRange(startID, endID int64, status domain.ApprovalStatus, actor string) (*Ledger, error) {
	if err := validateStatusTarget(status); err != nil {
		return nil, err
	}
	if err := l.validateRangeBounds(startID, endID); err != nil {
		return nil, err
	}
	if startID > endID {
		startID, endID = endID, startID
	}

	c := l.clone()
	for id := startID; id <= endID; id++ {
		if i, ok := c.index[id]; ok {
			c.transition(i, status, actor)
		}
	}
	return c, nil
}

// SetApprovalBulk applies the transition to each id in the supplied
// order. Every id must exist; repeats are harmless.
func (l *Ledger) SetApprovalBulk(ids []int64, status domain.ApprovalStatus, actor string) (*Ledger, error) {
	if err := validateStatusTarget(status); err != nil {
		return nil, err
	}
	if err := l.validateBulkIDs(ids); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := l.index[id]; !ok {
			return nil, domain.Errorf(domain.ErrNotFound, "point id %d not found in ledger", id)
		}
	}

	c := l.clone()
	for _, id := range ids {
		c.transition(c.index[id], status, actor)
	}
	return c, nil
}

// ApproveAllPending marks every pending record approved, recording the
// actor and approval time, and returns the affected records for the
// caller to report.
func (l *Ledger) ApproveAllPending(actor string) (*Ledger, []domain.PointRecord) {
	c := l.clone()
	var affected []domain.PointRecord
	for i := range c.records {
		if c.records[i].Status == domain.StatusPending {
			c.transition(i, domain.StatusApproved, actor)
			affected = append(affected, c.records[i])
		}
	}
	return c, affected
}

// DeleteUnapproved removes every record that is not approved (pending
// and rejected alike). Surviving rows keep their ids, so the operation
// is idempotent.
func (l *Ledger) DeleteUnapproved() *Ledger {
	kept := make([]domain.PointRecord, 0, len(l.records))
	for _, r := range l.records {
		if r.Status == domain.StatusApproved {
			kept = append(kept, r)
		}
	}
	c, _ := New(kept) // ids were unique before, still unique after
	return c
}

// transition moves the record at position i into the target terminal
// state. No-op when the record is already terminal.
func (c *Ledger) transition(i int, status domain.ApprovalStatus, actor string) {
	r := &c.records[i]
	if r.Status != domain.StatusPending {
		return
	}
	r.Status = status
	r.ApprovedBy = actor
	r.ApprovalTime = domain.Now()
}

// ─── Status Filters ─────────────────────────────────────────────────────────

// Approved returns the approved subsequence sorted ascending by id.
func (l *Ledger) Approved() []domain.PointRecord {
	return l.filter(func(r domain.PointRecord) bool { return r.Status == domain.StatusApproved })
}

// Unapproved returns every record that is not approved, sorted ascending
// by id.
func (l *Ledger) Unapproved() []domain.PointRecord {
	return l.filter(func(r domain.PointRecord) bool { return r.Status != domain.StatusApproved })
}

// Pending returns the pending subsequence sorted ascending by id.
func (l *Ledger) Pending() []domain.PointRecord {
	return l.filter(func(r domain.PointRecord) bool { return r.Status == domain.StatusPending })
}

// Visible returns the records that count for dedup on re-ingestion:
// approved and pending, but not rejected.
func (l *Ledger) Visible() []domain.PointRecord {
	return l.filter(func(r domain.PointRecord) bool { return r.Status != domain.StatusRejected })
}

func (l *Ledger) filter(keep func(domain.PointRecord) bool) []domain.PointRecord {
	var out []domain.PointRecord
	for _, r := range l.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return sortByID(out)
}
