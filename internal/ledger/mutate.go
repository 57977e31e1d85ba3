package ledger

import (
	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Append ─────────────────────────────────────────────────────────────────

// Append adds a new pending point change to the ledger. The id is one
// greater than the current maximum (0 for an empty ledger) and the
// timestamp is assigned at millisecond precision. The amount must fit
// the committed-record range.
//
// Returns the new snapshot and the appended record.
func (l *Ledger) Append(pledge, brother, comment string, amount int64) (*Ledger, domain.PointRecord, error) {
	if err := validateAmount(amount); err != nil {
		return nil, domain.PointRecord{}, err
	}

	id := l.NextID()
	// Unreachable unless the max-id invariant is broken; checked anyway
	// so a corrupted store cannot silently shadow a row.
	if _, ok := l.index[id]; ok {
		return nil, domain.PointRecord{}, domain.Errorf(domain.ErrDuplicateID, "computed id %d already present", id)
	}

	rec := domain.PointRecord{
		ID:          id,
		Time:        domain.Now(),
		PointChange: amount,
		Pledge:      pledge,
		Brother:     brother,
		Comment:     comment,
		Status:      domain.StatusPending,
	}

	c := l.clone()
	c.index[rec.ID] = len(c.records)
	c.records = append(c.records, rec)
	return c, rec, nil
}

// AppendCandidate commits an ingested candidate as a pending record,
// keeping the candidate's own timestamp. Ingested point changes tolerate
// the full 64-bit range; only direct mutation enforces the narrow range.
func (l *Ledger) AppendCandidate(cand domain.Candidate) (*Ledger, domain.PointRecord, error) {
	id := l.NextID()
	if _, ok := l.index[id]; ok {
		return nil, domain.PointRecord{}, domain.Errorf(domain.ErrDuplicateID, "computed id %d already present", id)
	}

	rec := domain.PointRecord{
		ID:          id,
		Time:        cand.Time,
		PointChange: cand.PointChange,
		Pledge:      cand.Pledge,
		Brother:     cand.Brother,
		Comment:     cand.Comment,
		Status:      domain.StatusPending,
	}

	c := l.clone()
	c.index[rec.ID] = len(c.records)
	c.records = append(c.records, rec)
	return c, rec, nil
}

// ─── Amend ──────────────────────────────────────────────────────────────────

// Amendment names the fields an amend operation may change. Nil fields
// are left as-is. Identity (id), timestamp and approval fields are not
// amendable.
type Amendment struct {
	Pledge  *string
	Brother *string
	Comment *string
	Amount  *int64
}

// Amend updates the supplied fields of an existing record. Fails with
// ErrNotFound if the id is absent and ErrRangeViolation if a new amount
// is out of range; on failure the ledger is unchanged.
func (l *Ledger) Amend(id int64, a Amendment) (*Ledger, domain.PointRecord, error) {
	i, ok := l.index[id]
	if !ok {
		return nil, domain.PointRecord{}, domain.Errorf(domain.ErrNotFound, "point id %d not found in ledger", id)
	}
	if a.Amount != nil {
		if err := validateAmount(*a.Amount); err != nil {
			return nil, domain.PointRecord{}, err
		}
	}

	c := l.clone()
	rec := &c.records[i]
	if a.Pledge != nil {
		rec.Pledge = *a.Pledge
	}
	if a.Brother != nil {
		rec.Brother = *a.Brother
	}
	if a.Comment != nil {
		rec.Comment = *a.Comment
	}
	if a.Amount != nil {
		rec.PointChange = *a.Amount
	}
	return c, *rec, nil
}
