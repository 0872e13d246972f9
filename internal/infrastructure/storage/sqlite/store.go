// Package sqlite provides the embedded SQLite backend. It is the test
// dialect: the analytics queries here must stay result-compatible with the
// PostgreSQL backend, and the conformance tests in this package pin that
// behavior without needing a running database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// TimeLayout is the canonical timestamp encoding for stored events.
// Lexicographic order on this layout is chronological, which the
// BETWEEN/strftime based queries depend on.
const TimeLayout = "2006-01-02 15:04:05"

// DayLayout encodes calendar days as returned by SQLite's date().
const DayLayout = "2006-01-02"

// Store wraps an embedded SQLite database with the stocklens schema applied.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for throwaway test databases.
func Open(path string) (*Store, error) {
	// _pragma is the modernc.org/sqlite parameter form; the mattn-style
	// _journal_mode=... names are accepted but ignored by this driver.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids "database is locked" on in-memory databases.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for seeding in tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS suppliers (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL DEFAULT '',
			supplier_id      TEXT NOT NULL DEFAULT '',
			price            REAL,
			quantity         INTEGER NOT NULL DEFAULT 0,
			minimum_quantity INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (supplier_id) REFERENCES suppliers(id)
		)`,
		`CREATE TABLE IF NOT EXISTS stock_events (
			id              TEXT PRIMARY KEY,
			item_id         TEXT NOT NULL,
			supplier_id     TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			quantity_change INTEGER NOT NULL,
			price_at_change REAL,
			reason          TEXT NOT NULL DEFAULT '',
			created_by      TEXT DEFAULT '',
			FOREIGN KEY (item_id) REFERENCES inventory_items(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_events_replay
			ON stock_events (item_id, created_at, id)`,
	}
	for _, t := range tables {
		if _, err := db.Exec(t); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
