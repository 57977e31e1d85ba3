package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deltap/pledgepoints/internal/domain"
	"github.com/deltap/pledgepoints/internal/infra/observability"
	"github.com/deltap/pledgepoints/internal/ledger"
)

// ─── Ingestion Pipeline ─────────────────────────────────────────────────────
// One pipeline run handles one lookback window end to end: fetch raw
// messages, parse, dedup against what the store already holds, commit
// the survivors as pending records, then fire acknowledgements as a
// detached background task.

// Pipeline wires the ingestion collaborators together.
type Pipeline struct {
	Store       domain.Store
	Source      domain.Source
	Ack         domain.Acknowledger
	Roster      domain.Roster
	AckInterval time.Duration
}

// Report summarizes one ingestion batch.
type Report struct {
	BatchID    string `json:"batch_id"`
	Fetched    int    `json:"fetched"`
	Rejected   int    `json:"rejected"`
	Duplicates int    `json:"duplicates"`
	Inserted   int    `json:"inserted"`
}

// Run processes the lookback window. Malformed and off-roster messages
// are dropped with a negative acknowledgement, never surfaced as batch
// errors; only store and source failures abort the run.
func (p *Pipeline) Run(ctx context.Context, daysAgo int) (Report, error) {
	report := Report{BatchID: uuid.NewString()}

	messages, err := p.Source.FetchMessages(ctx, daysAgo)
	if err != nil {
		return report, err
	}
	report.Fetched = len(messages)

	var candidates []domain.Candidate
	acks := make([]AckResult, 0, len(messages))
	for _, msg := range messages {
		cand, err := ParseMessage(msg, p.Roster)
		if err != nil {
			acks = append(acks, AckResult{Msg: msg, OK: false})
			continue
		}
		candidates = append(candidates, cand)
		acks = append(acks, AckResult{Msg: msg, OK: true})
	}
	report.Rejected = report.Fetched - len(candidates)

	records, err := p.Store.Load(ctx)
	if err != nil {
		return report, err
	}
	led, err := ledger.New(records)
	if err != nil {
		return report, err
	}

	// Rejected rows do not count for dedup: a resubmission of a
	// rejected change is a fresh pending entry.
	visible := led.Visible()
	existing := make([]domain.Candidate, len(visible))
	for i, r := range visible {
		existing[i] = CandidateOf(r)
	}
	unique := Deduplicate(candidates, existing)
	report.Duplicates = len(candidates) - len(unique)

	if len(unique) > 0 {
		for _, cand := range unique {
			led, _, err = led.AppendCandidate(cand)
			if err != nil {
				return report, err
			}
		}
		if err := p.Store.Save(ctx, led.Records()); err != nil {
			return report, err
		}
	}
	report.Inserted = len(unique)

	observability.IngestAccepted.Add(float64(report.Inserted))
	observability.IngestRejected.Add(float64(report.Rejected))
	observability.IngestDuplicates.Add(float64(report.Duplicates))
	observability.PendingRecords.Set(float64(len(led.Pending())))

	// Fire-and-forget: the caller does not await acknowledgement
	// delivery, and cancelling the batch context must not cut it short.
	dispatcher := NewAckDispatcher(p.Ack, p.AckInterval)
	go dispatcher.Dispatch(context.WithoutCancel(ctx), acks)

	return report, nil
}
