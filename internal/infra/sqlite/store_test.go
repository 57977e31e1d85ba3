package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "points.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testRecords() []domain.PointRecord {
	return []domain.PointRecord{
		{
			ID:           0,
			Time:         time.Date(2025, 2, 1, 10, 0, 1, 500*int(time.Millisecond), time.UTC),
			PointChange:  10,
			Pledge:       "Eli",
			Brother:      "Warner",
			Comment:      "crushed the fundraiser",
			Status:       domain.StatusApproved,
			ApprovedBy:   "Carter",
			ApprovalTime: time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:          1,
			Time:        time.Date(2025, 2, 1, 11, 30, 0, 0, time.UTC),
			PointChange: -3,
			Pledge:      "Matthew",
			Brother:     "Warner",
			Comment:     "late to chapter",
			Status:      domain.StatusPending,
		},
		{
			ID:           2,
			Time:         time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
			PointChange:  5,
			Pledge:       "Milo",
			Brother:      "Carter",
			Comment:      "cleaned the kitchen",
			Status:       domain.StatusRejected,
			ApprovedBy:   "Carter",
			ApprovalTime: time.Date(2025, 2, 2, 9, 5, 0, 0, time.UTC),
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	records := testRecords()

	if err := db.Save(ctx, records); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := db.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("round trip changed records:\ngot  %+v\nwant %+v", got, records)
	}
}

func TestSaveReplacesSnapshot(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	records := testRecords()

	if err := db.Save(ctx, records); err != nil {
		t.Fatal(err)
	}
	// Saving a trimmed snapshot drops the rows that are no longer in it.
	if err := db.Save(ctx, records[:1]); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := db.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 0 {
		t.Errorf("snapshot after replace = %+v, want only record 0", got)
	}
}

func TestLoadOrdersByID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	shuffled := []domain.PointRecord{
		{ID: 2, Time: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC), Pledge: "Milo", Brother: "C", Comment: "c", Status: domain.StatusPending},
		{ID: 0, Time: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), Pledge: "Eli", Brother: "W", Comment: "a", Status: domain.StatusPending},
		{ID: 1, Time: time.Date(2025, 2, 1, 11, 0, 0, 0, time.UTC), Pledge: "Zach", Brother: "W", Comment: "b", Status: domain.StatusPending},
	}
	if err := db.Save(ctx, shuffled); err != nil {
		t.Fatal(err)
	}

	got, err := db.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range got {
		if r.ID != int64(i) {
			t.Errorf("record %d has id %d, want ascending id order", i, r.ID)
		}
	}
}

func TestLoadEmpty(t *testing.T) {
	db := newTestDB(t)

	got, err := db.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() of empty db error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty db returned %d records", len(got))
	}
}

func TestCountByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Save(ctx, testRecords()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		status domain.ApprovalStatus
		want   int
	}{
		{domain.StatusApproved, 1},
		{domain.StatusPending, 1},
		{domain.StatusRejected, 1},
	}
	for _, tt := range tests {
		got, err := db.CountByStatus(ctx, tt.status)
		if err != nil {
			t.Fatalf("CountByStatus(%q) error: %v", tt.status, err)
		}
		if got != tt.want {
			t.Errorf("CountByStatus(%q) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
