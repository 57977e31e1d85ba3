package domain

import "context"

// ─── Store Interfaces ───────────────────────────────────────────────────────

// Store persists the ledger as a whole. Implementations load the full
// ordered table and write back a new snapshot; the sqlite store does the
// replacement inside a transaction, the CSV store rewrites the file.
type Store interface {
	// Load reads every record, ordered by id ascending.
	Load(ctx context.Context) ([]PointRecord, error)

	// Save replaces the stored table with the given snapshot.
	Save(ctx context.Context, records []PointRecord) error
}

// Source supplies raw chat messages for a lookback window. It is the
// boundary to the chat platform; the core never talks to the platform
// directly.
type Source interface {
	FetchMessages(ctx context.Context, daysAgo int) ([]Message, error)
}

// Acknowledger signals per-message ingestion outcome back to the chat
// platform (thumbs up/down reactions in the original deployment).
// Dispatch is rate-limited and failures are swallowed by the caller.
type Acknowledger interface {
	Acknowledge(ctx context.Context, msg Message, ok bool) error
}
