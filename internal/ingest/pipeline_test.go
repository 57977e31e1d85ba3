package ingest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

// memStore is an in-memory domain.Store for pipeline tests.
type memStore struct {
	mu      sync.Mutex
	records []domain.PointRecord
}

func (m *memStore) Load(ctx context.Context) ([]domain.PointRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PointRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memStore) Save(ctx context.Context, records []domain.PointRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make([]domain.PointRecord, len(records))
	copy(m.records, records)
	return nil
}

// memSource serves a fixed message batch.
type memSource struct {
	messages []domain.Message
}

func (s *memSource) FetchMessages(ctx context.Context, daysAgo int) ([]domain.Message, error) {
	return s.messages, nil
}

// recordingAck captures acknowledgements for assertions.
type recordingAck struct {
	mu    sync.Mutex
	calls []bool
	done  chan struct{}
	want  int
}

func newRecordingAck(want int) *recordingAck {
	return &recordingAck{done: make(chan struct{}), want: want}
}

func (a *recordingAck) Acknowledge(ctx context.Context, msg domain.Message, ok bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, ok)
	if len(a.calls) == a.want {
		close(a.done)
	}
	return nil
}

func (a *recordingAck) wait(t *testing.T) []bool {
	t.Helper()
	select {
	case <-a.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for acknowledgements")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]bool, len(a.calls))
	copy(out, a.calls)
	return out
}

func msgAt(sec int, author, content string) domain.Message {
	return domain.Message{
		Author:  author,
		Time:    time.Date(2025, 2, 1, 10, 0, sec, 0, time.UTC),
		Content: content,
	}
}

func TestPipelineRun(t *testing.T) {
	store := &memStore{}
	ack := newRecordingAck(3)
	p := &Pipeline{
		Store: store,
		Source: &memSource{messages: []domain.Message{
			msgAt(1, "warner", "+10 Eli crushed the fundraiser"),
			msgAt(2, "warner", "not a point message"),
			msgAt(3, "carter", "-3 Matt late again"),
		}},
		Ack:         ack,
		Roster:      testRoster,
		AckInterval: time.Millisecond,
	}

	report, err := p.Run(context.Background(), 7)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Fetched != 3 || report.Rejected != 1 || report.Duplicates != 0 || report.Inserted != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.BatchID == "" {
		t.Error("batch id should be set")
	}

	records, _ := store.Load(context.Background())
	if len(records) != 2 {
		t.Fatalf("stored %d records, want 2", len(records))
	}
	if records[0].ID != 0 || records[1].ID != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", records[0].ID, records[1].ID)
	}
	for _, r := range records {
		if r.Status != domain.StatusPending {
			t.Errorf("record %d status = %q, want pending", r.ID, r.Status)
		}
	}
	if records[1].Pledge != "Matthew" {
		t.Errorf("alias not applied, pledge = %q", records[1].Pledge)
	}

	// One ack per source message, in order, failure for the noise line.
	calls := ack.wait(t)
	if len(calls) != 3 || !calls[0] || calls[1] || !calls[2] {
		t.Errorf("acks = %v, want [true false true]", calls)
	}
}

func TestPipelineRunDeduplicates(t *testing.T) {
	store := &memStore{}
	messages := []domain.Message{
		msgAt(1, "warner", "+10 Eli crushed the fundraiser"),
		msgAt(2, "carter", "+5 Bob cleaned the kitchen"),
	}
	p := &Pipeline{
		Store:       store,
		Source:      &memSource{messages: messages},
		Ack:         nil, // no acknowledger wired
		Roster:      testRoster,
		AckInterval: time.Millisecond,
	}

	first, err := p.Run(context.Background(), 7)
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if first.Inserted != 2 {
		t.Fatalf("first run inserted %d, want 2", first.Inserted)
	}

	// Replaying the same window commits nothing new.
	second, err := p.Run(context.Background(), 7)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if second.Duplicates != 2 || second.Inserted != 0 {
		t.Errorf("second report = %+v, want 2 duplicates and 0 inserted", second)
	}

	records, _ := store.Load(context.Background())
	if len(records) != 2 {
		t.Errorf("stored %d records after replay, want 2", len(records))
	}
}

func TestPipelineRejectedRecordsDoNotBlockResubmission(t *testing.T) {
	store := &memStore{
		records: []domain.PointRecord{{
			ID:          0,
			Time:        time.Date(2025, 2, 1, 10, 0, 1, 0, time.UTC),
			PointChange: 10,
			Pledge:      "Eli",
			Brother:     "warner",
			Comment:     "crushed the fundraiser",
			Status:      domain.StatusRejected,
		}},
	}
	p := &Pipeline{
		Store:       store,
		Source:      &memSource{messages: []domain.Message{msgAt(1, "warner", "+10 Eli crushed the fundraiser")}},
		Roster:      testRoster,
		AckInterval: time.Millisecond,
	}

	report, err := p.Run(context.Background(), 7)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Inserted != 1 {
		t.Errorf("resubmission of a rejected change inserted %d, want 1", report.Inserted)
	}

	records, _ := store.Load(context.Background())
	if len(records) != 2 {
		t.Fatalf("stored %d records, want 2", len(records))
	}
	if records[1].ID != 1 {
		t.Errorf("new record id = %d, want 1 (no id reuse)", records[1].ID)
	}
}

func TestAckDispatcherSwallowsFailures(t *testing.T) {
	failing := &failingAck{failOn: 0, inner: newRecordingAck(2)}
	d := NewAckDispatcher(failing, time.Millisecond)

	msgs := []AckResult{
		{Msg: msgAt(1, "a", "x"), OK: true},
		{Msg: msgAt(2, "b", "y"), OK: false},
	}
	d.Dispatch(context.Background(), msgs)

	if got := len(failing.inner.calls); got != 2 {
		t.Errorf("dispatched %d acks, want 2 (failure must not abort the batch)", got)
	}
}

// failingAck errors on one call and forwards the rest.
type failingAck struct {
	n      int
	failOn int
	inner  *recordingAck
}

func (f *failingAck) Acknowledge(ctx context.Context, msg domain.Message, ok bool) error {
	defer func() { f.n++ }()
	_ = f.inner.Acknowledge(ctx, msg, ok)
	if f.n == f.failOn {
		return context.DeadlineExceeded
	}
	return nil
}
