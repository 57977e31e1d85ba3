// Package sqlite persists the point ledger in a single-table SQLite
// database, using the pure-Go modernc driver.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle for ledger operations.
type DB struct {
	db *sql.DB
}

// Migrations returns the schema migration statements. Each string is a
// single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// The point ledger. Ids are assigned by the engine (max+1,
		// starting at 0), not by AUTOINCREMENT.
		`CREATE TABLE IF NOT EXISTS points (
			id                 INTEGER PRIMARY KEY,
			time               TEXT NOT NULL,
			point_change       INTEGER NOT NULL,
			pledge             TEXT NOT NULL,
			brother            TEXT NOT NULL,
			comment            TEXT NOT NULL,
			approval_status    TEXT NOT NULL DEFAULT 'pending',
			approved_by        TEXT,
			approval_timestamp TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_points_status ON points(approval_status)`,
		`CREATE INDEX IF NOT EXISTS idx_points_pledge ON points(pledge)`,
	}
}

// Open opens (creating if needed) the database at path and applies the
// schema migrations.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; the engine serializes mutations anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range Migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migration: %w", err)
		}
	}
	return &DB{db: db}, nil
}

// Close releases the underlying handle.
func (d *DB) Close() error { return d.db.Close() }
