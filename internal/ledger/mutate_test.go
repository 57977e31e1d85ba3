package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

// seedLedger builds a ledger of n pending records with ids 0..n-1.
func seedLedger(t *testing.T, n int) *Ledger {
	t.Helper()
	l := Empty()
	for i := 0; i < n; i++ {
		var err error
		l, _, err = l.Append("Eli", "Warner", "seed", int64(i+1))
		if err != nil {
			t.Fatalf("seed append %d: %v", i, err)
		}
	}
	return l
}

func TestAppendFirstRecord(t *testing.T) {
	l, rec, err := Empty().Append("Alice", "Bob", "welcome", 10)
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if rec.ID != 0 {
		t.Errorf("first id = %d, want 0", rec.ID)
	}
	if rec.PointChange != 10 {
		t.Errorf("point change = %d, want 10", rec.PointChange)
	}
	if rec.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}
	if rec.Time.IsZero() {
		t.Error("timestamp should be assigned at creation")
	}
	if l.Len() != 1 {
		t.Errorf("len = %d, want 1", l.Len())
	}
}

func TestAppendAssignsMaxPlusOne(t *testing.T) {
	l := seedLedger(t, 3)

	// max+1 is computed over whatever remains.
	records := l.Records()[:2]
	l2, err := New(records)
	if err != nil {
		t.Fatal(err)
	}
	_, rec, err := l2.Append("Eli", "Warner", "after trim", 5)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 2 {
		t.Errorf("id after trim = %d, want 2", rec.ID)
	}

	// With a gap in the middle, max+1 still governs.
	gapped, err := New([]domain.PointRecord{
		{ID: 0, Time: time.Now(), Status: domain.StatusPending, Pledge: "Eli"},
		{ID: 7, Time: time.Now(), Status: domain.StatusPending, Pledge: "Eli"},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, rec, err = gapped.Append("Eli", "Warner", "gap", 1)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 8 {
		t.Errorf("id with gap = %d, want 8", rec.ID)
	}
}

func TestAppendRangeViolationLeavesLedgerUnchanged(t *testing.T) {
	l := seedLedger(t, 2)

	for _, amount := range []int64{200, -200, 128, -129} {
		_, _, err := l.Append("Eli", "Warner", "too big", amount)
		if !errors.Is(err, domain.ErrRangeViolation) {
			t.Errorf("Append(%d) error = %v, want ErrRangeViolation", amount, err)
		}
		if l.Len() != 2 {
			t.Errorf("ledger length changed to %d after failed append", l.Len())
		}
	}

	// Boundary values are accepted.
	for _, amount := range []int64{127, -128} {
		if _, _, err := l.Append("Eli", "Warner", "edge", amount); err != nil {
			t.Errorf("Append(%d) error: %v", amount, err)
		}
	}
}

func TestAppendCandidateToleratesWideRange(t *testing.T) {
	cand := domain.Candidate{
		Time:        time.Now().UTC().Truncate(time.Millisecond),
		PointChange: 1 << 40,
		Pledge:      "Eli",
		Brother:     "Warner",
		Comment:     "marathon",
	}
	l, rec, err := Empty().AppendCandidate(cand)
	if err != nil {
		t.Fatalf("AppendCandidate() error: %v", err)
	}
	if rec.PointChange != 1<<40 {
		t.Errorf("point change = %d, want %d", rec.PointChange, int64(1)<<40)
	}
	if !rec.Time.Equal(cand.Time) {
		t.Error("candidate keeps its own timestamp")
	}
	if rec.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}
	if l.Len() != 1 {
		t.Errorf("len = %d, want 1", l.Len())
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]domain.PointRecord{
		{ID: 1, Status: domain.StatusPending},
		{ID: 1, Status: domain.StatusPending},
	})
	if !errors.Is(err, domain.ErrDuplicateID) {
		t.Errorf("New() error = %v, want ErrDuplicateID", err)
	}
}

func TestAmendUpdatesOnlySuppliedFields(t *testing.T) {
	l := seedLedger(t, 1)
	orig, _ := l.Get(0)

	pledge := "Felix"
	amount := int64(42)
	l2, rec, err := l.Amend(0, Amendment{Pledge: &pledge, Amount: &amount})
	if err != nil {
		t.Fatalf("Amend() error: %v", err)
	}
	if rec.Pledge != "Felix" || rec.PointChange != 42 {
		t.Errorf("amended record = %+v", rec)
	}
	if rec.Brother != orig.Brother || rec.Comment != orig.Comment {
		t.Error("unsupplied fields must be left as-is")
	}
	if rec.ID != orig.ID || !rec.Time.Equal(orig.Time) || rec.Status != orig.Status {
		t.Error("identity, timestamp and approval fields must not change")
	}

	// The new snapshot carries the change; the original is untouched.
	after, _ := l2.Get(0)
	if after.Pledge != "Felix" {
		t.Errorf("new snapshot pledge = %q, want Felix", after.Pledge)
	}
	before, _ := l.Get(0)
	if before.Pledge != orig.Pledge {
		t.Error("Amend mutated the receiver snapshot")
	}
}

func TestAmendErrors(t *testing.T) {
	l := seedLedger(t, 1)

	_, _, err := l.Amend(99, Amendment{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Amend(99) error = %v, want ErrNotFound", err)
	}

	big := int64(1000)
	_, _, err = l.Amend(0, Amendment{Amount: &big})
	if !errors.Is(err, domain.ErrRangeViolation) {
		t.Errorf("Amend(amount=1000) error = %v, want ErrRangeViolation", err)
	}
	rec, _ := l.Get(0)
	if rec.PointChange != 1 {
		t.Errorf("failed amend must not mutate, point change = %d", rec.PointChange)
	}
}
