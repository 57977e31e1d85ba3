package ingest

import (
	"context"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Acknowledgement Dispatch ───────────────────────────────────────────────
// Each source message gets a success or failure marker back on the chat
// platform. Dispatch is decoupled from the parse pipeline and paced so a
// large backfill cannot overwhelm the transport.

// DefaultAckInterval is the minimum time between two acknowledgements.
const DefaultAckInterval = 200 * time.Millisecond

// AckResult pairs a source message with its ingestion outcome.
type AckResult struct {
	Msg domain.Message
	OK  bool
}

// AckDispatcher sends acknowledgements at a fixed minimum interval.
type AckDispatcher struct {
	ack      domain.Acknowledger
	interval time.Duration
}

// NewAckDispatcher builds a dispatcher. A non-positive interval falls
// back to DefaultAckInterval.
func NewAckDispatcher(ack domain.Acknowledger, interval time.Duration) *AckDispatcher {
	if interval <= 0 {
		interval = DefaultAckInterval
	}
	return &AckDispatcher{ack: ack, interval: interval}
}

// Dispatch sends one acknowledgement per result, sleeping the configured
// interval between sends. Individual send failures are swallowed; the
// batch always runs to the end unless the context is cancelled. Callers
// run this as a detached goroutine and do not await it.
func (d *AckDispatcher) Dispatch(ctx context.Context, results []AckResult) {
	if d.ack == nil {
		return
	}
	for _, r := range results {
		// Best effort: a failed reaction must not abort the batch.
		_ = d.ack.Acknowledge(ctx, r.Msg, r.OK)

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.interval):
		}
	}
}
