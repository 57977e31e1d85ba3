package domain

import (
	"errors"
	"fmt"
)

// ─── Error Kinds ────────────────────────────────────────────────────────────
// Every validation failure carries one of these sentinels so callers can
// branch with errors.Is while still surfacing the full message verbatim.

var (
	// ErrTypeMismatch means a value of the wrong kind was supplied,
	// e.g. a non-boolean approval flag or a non-integer id.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrRangeViolation means a value fell outside an allowed numeric
	// or index range.
	ErrRangeViolation = errors.New("range violation")

	// ErrNotFound means a referenced record id is absent from the ledger.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID means an insert would reuse an existing id.
	// Reachable only through an invariant breach.
	ErrDuplicateID = errors.New("duplicate identifier")

	// ErrMalformedInput means ingestion text did not parse as a candidate.
	ErrMalformedInput = errors.New("malformed input")
)

// ValidationError pairs an error kind with a human-readable message.
// It is raised synchronously before any mutation is applied.
type ValidationError struct {
	Kind error
	Msg  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// Errorf builds a ValidationError with a formatted message.
func Errorf(kind error, format string, args ...interface{}) error {
	return &ValidationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
