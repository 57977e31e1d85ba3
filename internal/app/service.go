// Package app wires the ledger engine to a backing store and exposes
// the operator command surface: one method per chat command.
package app

import (
	"context"
	"sync"

	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/infra/observability"
	"github.com/deltap/pledgepoints/internal/ledger"
)

// Service runs ledger operations against a store. Mutating operations
// are serialized with a mutex: the read-compute-save cycle is otherwise
// open to a lost update when two commands land at once.
type Service struct {
	mu    sync.Mutex
	store domain.Store
}

// New creates a service over the given store.
func New(store domain.Store) *Service {
	return &Service{store: store}
}

// load reads the stored snapshot into a ledger.
func (s *Service) load(ctx context.Context) (*ledger.Ledger, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.New(records)
}

// save persists the snapshot and refreshes the pending gauge.
func (s *Service) save(ctx context.Context, l *ledger.Ledger) error {
	if err := s.store.Save(ctx, l.Records()); err != nil {
		return err
	}
	observability.PendingRecords.Set(float64(len(l.Pending())))
	return nil
}

// ─── Mutations ──────────────────────────────────────────────────────────────

// Append commits a new pending point change.
func (s *Service) Append(ctx context.Context, pledge, brother, comment string, amount int64) (domain.PointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return domain.PointRecord{}, err
	}
	l, rec, err := l.Append(pledge, brother, comment, amount)
	if err != nil {
		return domain.PointRecord{}, err
	}
	if err := s.save(ctx, l); err != nil {
		return domain.PointRecord{}, err
	}
	observability.RecordsAppended.Inc()
	return rec, nil
}

// Amend updates the supplied non-identity fields of a record.
func (s *Service) Amend(ctx context.Context, id int64, a ledger.Amendment) (domain.PointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return domain.PointRecord{}, err
	}
	l, rec, err := l.Amend(id, a)
	if err != nil {
		return domain.PointRecord{}, err
	}
	if err := s.save(ctx, l); err != nil {
		return domain.PointRecord{}, err
	}
	return rec, nil
}

// SetApproval transitions one record.
func (s *Service) SetApproval(ctx context.Context, id int64, status domain.ApprovalStatus, actor string) (domain.PointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return domain.PointRecord{}, err
	}
	l, err = l.SetApproval(id, status, actor)
	if err != nil {
		return domain.PointRecord{}, err
	}
	if err := s.save(ctx, l); err != nil {
		return domain.PointRecord{}, err
	}
	observability.RecordsApproved.WithLabelValues(string(status)).Inc()
	return l.Get(id)
}

// SetApprovalBulk transitions each id in the supplied order.
func (s *Service) SetApprovalBulk(ctx context.Context, ids []int64, status domain.ApprovalStatus, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return err
	}
	l, err = l.SetApprovalBulk(ids, status, actor)
	if err != nil {
		return err
	}
	if err := s.save(ctx, l); err != nil {
		return err
	}
	observability.RecordsApproved.WithLabelValues(string(status)).Add(float64(len(ids)))
	return nil
}

// SetApprovalRange transitions every existing id in the inclusive range.
func (s *Service) SetApprovalRange(ctx context.Context, startID, endID int64, status domain.ApprovalStatus, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return err
	}
	l, err = l.SetApprovalRange(startID, endID, status, actor)
	if err != nil {
		return err
	}
	return s.save(ctx, l)
}

// ApproveAllPending approves the whole pending backlog and returns the
// affected records for reporting.
func (s *Service) ApproveAllPending(ctx context.Context, actor string) ([]domain.PointRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	l, affected := l.ApproveAllPending(actor)
	if len(affected) == 0 {
		return nil, nil
	}
	if err := s.save(ctx, l); err != nil {
		return nil, err
	}
	observability.RecordsApproved.WithLabelValues(string(domain.StatusApproved)).Add(float64(len(affected)))
	return affected, nil
}

// DeleteUnapproved removes every record that is not approved and
// returns how many were removed.
func (s *Service) DeleteUnapproved(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	before := l.Len()
	l = l.DeleteUnapproved()
	removed := before - l.Len()
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(ctx, l); err != nil {
		return 0, err
	}
	observability.RecordsDeleted.Add(float64(removed))
	return removed, nil
}

// ─── Queries ────────────────────────────────────────────────────────────────

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id int64) (domain.PointRecord, error) {
	l, err := s.load(ctx)
	if err != nil {
		return domain.PointRecord{}, err
	}
	return l.Get(id)
}

// List returns every record in storage order.
func (s *Service) List(ctx context.Context) ([]domain.PointRecord, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Records(), nil
}

// Pending returns the records awaiting approval, id ascending.
func (s *Service) Pending(ctx context.Context) ([]domain.PointRecord, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Pending(), nil
}

// TotalFor returns a pledge's point total across all records.
func (s *Service) TotalFor(ctx context.Context, pledge string) (int64, error) {
	l, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return l.TotalFor(pledge), nil
}

// AllTotals returns per-pledge totals, alphabetical by name.
func (s *Service) AllTotals(ctx context.Context) ([]string, []int64, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	names, totals := l.AllTotals()
	return names, totals, nil
}

// HistoryFor returns a pledge's records, time ascending.
func (s *Service) HistoryFor(ctx context.Context, pledge string) ([]domain.PointRecord, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.HistoryFor(pledge), nil
}

// Rankings returns the approved-only standings, descending by total.
func (s *Service) Rankings(ctx context.Context) ([]ledger.RankEntry, error) {
	l, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return l.Rankings(), nil
}
