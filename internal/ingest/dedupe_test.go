package ingest

import (
	"reflect"
	"testing"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

func candidateAt(sec int, pledge string) domain.Candidate {
	return domain.Candidate{
		Time:        time.Date(2025, 2, 1, 10, 0, sec, 0, time.UTC),
		PointChange: 10,
		Pledge:      pledge,
		Brother:     "warner",
		Comment:     "helped out",
	}
}

func TestDeduplicate(t *testing.T) {
	a := candidateAt(1, "Eli")
	b := candidateAt(2, "Eli")
	c := candidateAt(3, "Milo")

	// Against an empty history everything is new.
	if got := Deduplicate([]domain.Candidate{a, b}, nil); !reflect.DeepEqual(got, []domain.Candidate{a, b}) {
		t.Errorf("Deduplicate(new, []) = %v, want new unchanged", got)
	}

	// Against a history containing everything, nothing is new.
	if got := Deduplicate([]domain.Candidate{a, b}, []domain.Candidate{c, a, b}); len(got) != 0 {
		t.Errorf("Deduplicate(new, old+new) = %v, want empty", got)
	}

	// Partial overlap keeps order of the new batch.
	got := Deduplicate([]domain.Candidate{c, a, b}, []domain.Candidate{a})
	if !reflect.DeepEqual(got, []domain.Candidate{c, b}) {
		t.Errorf("Deduplicate() = %v, want [c b]", got)
	}
}

func TestDeduplicateTruncatesToSeconds(t *testing.T) {
	stored := candidateAt(5, "Eli")
	// The replayed message carries sub-second precision the store lost.
	replayed := stored
	replayed.Time = stored.Time.Add(432 * time.Millisecond)

	if got := Deduplicate([]domain.Candidate{replayed}, []domain.Candidate{stored}); len(got) != 0 {
		t.Errorf("sub-second drift should still match, got %v", got)
	}

	// A full second apart is a distinct submission.
	distinct := stored
	distinct.Time = stored.Time.Add(time.Second)
	if got := Deduplicate([]domain.Candidate{distinct}, []domain.Candidate{stored}); len(got) != 1 {
		t.Errorf("one second apart should not match, got %v", got)
	}
}

func TestDeduplicateComparesAllFields(t *testing.T) {
	base := candidateAt(1, "Eli")

	variants := []domain.Candidate{base, base, base, base}
	variants[0].PointChange = 11
	variants[1].Pledge = "Milo"
	variants[2].Brother = "other"
	variants[3].Comment = "different reason"

	got := Deduplicate(variants, []domain.Candidate{base})
	if len(got) != len(variants) {
		t.Errorf("field-differing candidates filtered: kept %d of %d", len(got), len(variants))
	}
}
