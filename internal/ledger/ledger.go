// Package ledger implements the point ledger engine: append and amend
// operations, the approval state machine, and aggregation queries.
//
// A Ledger is an immutable snapshot of the ordered point table with an
// id index for O(1) lookups. Mutating operations return a new snapshot
// and never touch the receiver, so callers holding an old snapshot keep
// a consistent view.
package ledger

import (
	"sort"

	"github.com/deltap/pledgepoints/internal/domain"
)

// Ledger is an ordered collection of point records indexed by id.
type Ledger struct {
	records []domain.PointRecord
	index   map[int64]int // id -> position in records
}

// New builds a ledger from stored records. Duplicate ids fail with
// ErrDuplicateID since id uniqueness is a table invariant.
func New(records []domain.PointRecord) (*Ledger, error) {
	l := &Ledger{
		records: make([]domain.PointRecord, len(records)),
		index:   make(map[int64]int, len(records)),
	}
	copy(l.records, records)
	for i, r := range l.records {
		if _, ok := l.index[r.ID]; ok {
			return nil, domain.Errorf(domain.ErrDuplicateID, "id %d appears more than once", r.ID)
		}
		l.index[r.ID] = i
	}
	return l, nil
}

// Empty returns a ledger with no records.
func Empty() *Ledger {
	l, _ := New(nil)
	return l
}

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.records) }

// Records returns a copy of all records in storage order.
func (l *Ledger) Records() []domain.PointRecord {
	out := make([]domain.PointRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Get returns the record with the given id.
func (l *Ledger) Get(id int64) (domain.PointRecord, error) {
	i, ok := l.index[id]
	if !ok {
		return domain.PointRecord{}, domain.Errorf(domain.ErrNotFound, "point id %d not found in ledger", id)
	}
	return l.records[i], nil
}

// NextID returns one greater than the maximum id present, or 0 for an
// empty ledger.
func (l *Ledger) NextID() int64 {
	if len(l.records) == 0 {
		return 0
	}
	max := l.records[0].ID
	for _, r := range l.records[1:] {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// clone returns a deep copy sharing nothing with the receiver.
func (l *Ledger) clone() *Ledger {
	c := &Ledger{
		records: make([]domain.PointRecord, len(l.records)),
		index:   make(map[int64]int, len(l.index)),
	}
	copy(c.records, l.records)
	for id, i := range l.index {
		c.index[id] = i
	}
	return c
}

// sortByID returns the given records sorted ascending by id. The input
// slice is not modified.
func sortByID(records []domain.PointRecord) []domain.PointRecord {
	out := make([]domain.PointRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
