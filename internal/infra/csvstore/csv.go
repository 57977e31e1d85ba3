// Package csvstore persists the point ledger as a flat CSV file.
//
// Two layouts are supported. The canonical layout carries the tri-state
// approval columns; the legacy layout carries a single boolean Approved
// column, with approved mapping to true and pending/rejected to false.
// The layout of an existing file is detected from its header.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

// timeLayout keeps the file human-readable while preserving the
// ledger's millisecond precision.
const timeLayout = "2006-01-02 15:04:05.000"

var (
	headerCanonical = []string{"ID", "Time", "PointChange", "Pledge", "Brother", "Comment",
		"ApprovalStatus", "ApprovedBy", "ApprovalTimestamp"}
	headerLegacy = []string{"ID", "Time", "PointChange", "Pledge", "Brother", "Comment", "Approved"}
)

// Store reads and writes ledger CSV files.
type Store struct {
	Path string
	// Legacy selects the boolean-flag layout on write. Reads accept
	// either layout regardless.
	Legacy bool
}

// Create writes an empty ledger file with the configured header. Fails
// if the file already exists.
func (s *Store) Create() error {
	if _, err := os.Stat(s.Path); err == nil {
		return fmt.Errorf("file %s already exists", s.Path)
	}
	return s.write(nil)
}

// CreateIfMissing bootstraps the ledger file on first run.
func (s *Store) CreateIfMissing() error {
	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	return s.write(nil)
}

// Load reads the full ledger. A missing file is an error; use
// CreateIfMissing to bootstrap.
func (s *Store) Load(ctx context.Context) ([]domain.PointRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("ledger csv %s has no header", s.Path)
	}

	legacy := len(rows[0]) == len(headerLegacy)
	var records []domain.PointRecord
	for i, row := range rows[1:] {
		rec, err := parseRow(row, legacy)
		if err != nil {
			return nil, fmt.Errorf("ledger csv row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save rewrites the file with the given snapshot.
func (s *Store) Save(ctx context.Context, records []domain.PointRecord) error {
	return s.write(records)
}

func (s *Store) write(records []domain.PointRecord) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create ledger csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := headerCanonical
	if s.Legacy {
		header = headerLegacy
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(formatRow(r, s.Legacy)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

func formatRow(r domain.PointRecord, legacy bool) []string {
	row := []string{
		strconv.FormatInt(r.ID, 10),
		r.Time.UTC().Format(timeLayout),
		strconv.FormatInt(r.PointChange, 10),
		r.Pledge,
		r.Brother,
		r.Comment,
	}
	if legacy {
		return append(row, strconv.FormatBool(r.Status.Bool()))
	}
	approvalTime := ""
	if !r.ApprovalTime.IsZero() {
		approvalTime = r.ApprovalTime.UTC().Format(timeLayout)
	}
	return append(row, string(r.Status), r.ApprovedBy, approvalTime)
}

func parseRow(row []string, legacy bool) (domain.PointRecord, error) {
	want := len(headerCanonical)
	if legacy {
		want = len(headerLegacy)
	}
	if len(row) != want {
		return domain.PointRecord{}, fmt.Errorf("expected %d columns, got %d", want, len(row))
	}

	var (
		r   domain.PointRecord
		err error
	)
	if r.ID, err = strconv.ParseInt(row[0], 10, 64); err != nil {
		return domain.PointRecord{}, fmt.Errorf("bad id %q", row[0])
	}
	if r.ID < 0 {
		return domain.PointRecord{}, fmt.Errorf("negative id %d", r.ID)
	}
	if r.Time, err = time.Parse(timeLayout, row[1]); err != nil {
		return domain.PointRecord{}, fmt.Errorf("bad time %q", row[1])
	}
	r.Time = r.Time.UTC()
	if r.PointChange, err = strconv.ParseInt(row[2], 10, 64); err != nil {
		return domain.PointRecord{}, fmt.Errorf("bad point change %q", row[2])
	}
	r.Pledge, r.Brother, r.Comment = row[3], row[4], row[5]

	if legacy {
		approved, err := strconv.ParseBool(row[6])
		if err != nil {
			return domain.PointRecord{}, fmt.Errorf("bad approved flag %q", row[6])
		}
		r.Status = domain.StatusFromBool(approved)
		return r, nil
	}

	if r.Status, err = domain.ParseApprovalStatus(row[6]); err != nil {
		return domain.PointRecord{}, err
	}
	r.ApprovedBy = row[7]
	if row[8] != "" {
		if r.ApprovalTime, err = time.Parse(timeLayout, row[8]); err != nil {
			return domain.PointRecord{}, fmt.Errorf("bad approval time %q", row[8])
		}
		r.ApprovalTime = r.ApprovalTime.UTC()
	}
	return r, nil
}
