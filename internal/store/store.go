package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store persists target allocations, the secondary wallet ledger, and the
// audit trail to a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (operator tooling
	// reads while the bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS target_allocations (
			symbol            TEXT PRIMARY KEY,
			target_percentage REAL NOT NULL,
			average_cost      REAL NOT NULL DEFAULT 0,
			points            REAL NOT NULL DEFAULT 0,
			target_quantity   REAL NOT NULL DEFAULT 0,
			quantity          REAL NOT NULL DEFAULT 0,
			updated_at        INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS wallet_ledger (
			symbol   TEXT PRIMARY KEY,
			quantity REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS cycle_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			portfolio_value REAL,
			asset_count     INTEGER,
			buy_count       INTEGER,
			sell_count      INTEGER,
			hold_count      INTEGER,
			liquidate_count INTEGER,
			note            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_ts ON cycle_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS order_history (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp       INTEGER NOT NULL,
			symbol          TEXT,
			side            TEXT,
			quantity        TEXT,
			price           TEXT,
			status          TEXT,
			client_order_id TEXT,
			note            TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_ts ON order_history(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
