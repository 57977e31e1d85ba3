package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

// timeLayout stores timestamps at the ledger's millisecond precision.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ─── Snapshot Store ─────────────────────────────────────────────────────────

// Load reads every record ordered by id ascending.
func (d *DB) Load(ctx context.Context) ([]domain.PointRecord, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, time, point_change, pledge, brother, comment,
		       approval_status, approved_by, approval_timestamp
		FROM points ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	}
	defer rows.Close()

	var records []domain.PointRecord
	for rows.Next() {
		var (
			r           domain.PointRecord
			timeStr     string
			statusStr   string
			approvedBy  sql.NullString
			approvalStr sql.NullString
		)
		if err := rows.Scan(&r.ID, &timeStr, &r.PointChange, &r.Pledge, &r.Brother,
			&r.Comment, &statusStr, &approvedBy, &approvalStr); err != nil {
			return nil, fmt.Errorf("scan point row: %w", err)
		}

		r.Time, err = time.Parse(timeLayout, timeStr)
		if err != nil {
			return nil, fmt.Errorf("parse time of point %d: %w", r.ID, err)
		}
		r.Status, err = domain.ParseApprovalStatus(statusStr)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", r.ID, err)
		}
		if approvedBy.Valid {
			r.ApprovedBy = approvedBy.String
		}
		if approvalStr.Valid && approvalStr.String != "" {
			r.ApprovalTime, err = time.Parse(timeLayout, approvalStr.String)
			if err != nil {
				return nil, fmt.Errorf("parse approval time of point %d: %w", r.ID, err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Save replaces the table with the given snapshot inside one
// transaction, so readers never observe a partially written ledger.
func (d *DB) Save(ctx context.Context, records []domain.PointRecord) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points`); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (id, time, point_change, pledge, brother, comment,
		                    approval_status, approved_by, approval_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var approvedBy, approvalTime interface{}
		if r.ApprovedBy != "" {
			approvedBy = r.ApprovedBy
		}
		if !r.ApprovalTime.IsZero() {
			approvalTime = r.ApprovalTime.UTC().Format(timeLayout)
		}
		_, err := stmt.ExecContext(ctx, r.ID, r.Time.UTC().Format(timeLayout),
			r.PointChange, r.Pledge, r.Brother, r.Comment,
			string(r.Status), approvedBy, approvalTime)
		if err != nil {
			return fmt.Errorf("insert point %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// CountByStatus returns the number of rows in the given status.
func (d *DB) CountByStatus(ctx context.Context, status domain.ApprovalStatus) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM points WHERE approval_status = ?`, string(status)).Scan(&n)
	return n, err
}
