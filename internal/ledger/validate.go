package ledger

import (
	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Validation ─────────────────────────────────────────────────────────────
// All checks run before any mutation so a failed operation leaves the
// ledger exactly as it was.

// validateAmount enforces the committed-record point range.
func validateAmount(amount int64) error {
	if amount < domain.PointChangeMin || amount > domain.PointChangeMax {
		return domain.Errorf(domain.ErrRangeViolation,
			"point change %d outside allowed range [%d, %d]",
			amount, domain.PointChangeMin, domain.PointChangeMax)
	}
	return nil
}

// validateStatusTarget enforces that an approval operation targets one of
// the two terminal states. Pending is the initial state only; records
// cannot be moved back into it.
func validateStatusTarget(status domain.ApprovalStatus) error {
	switch status {
	case domain.StatusApproved, domain.StatusRejected:
		return nil
	case domain.StatusPending:
		return domain.Errorf(domain.ErrTypeMismatch, "cannot set a record back to pending")
	}
	return domain.Errorf(domain.ErrTypeMismatch, "invalid approval status %q", string(status))
}

// validateBulkIDs enforces the bulk-list contract: non-empty and no more
// entries than the ledger has rows.
func (l *Ledger) validateBulkIDs(ids []int64) error {
	if len(ids) == 0 {
		return domain.Errorf(domain.ErrRangeViolation, "id list must contain at least one value")
	}
	if len(ids) > len(l.records) {
		return domain.Errorf(domain.ErrRangeViolation,
			"id list has %d entries but the ledger only has %d rows", len(ids), len(l.records))
	}
	return nil
}

// validateRangeBounds enforces that both range bounds are non-negative
// and no larger than the current row count.
func (l *Ledger) validateRangeBounds(start, end int64) error {
	if start < 0 || end < 0 {
		return domain.Errorf(domain.ErrRangeViolation, "id bounds must be non-negative")
	}
	n := int64(len(l.records))
	if start > n || end > n {
		return domain.Errorf(domain.ErrRangeViolation,
			"id bounds must not exceed the ledger row count %d", n)
	}
	return nil
}
