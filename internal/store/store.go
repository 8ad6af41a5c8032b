package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debug("store opened", "path", dbPath)
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
		log.Info("migrated database", "version", 1)
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS timers (
		id                  TEXT PRIMARY KEY,
		position            INTEGER NOT NULL,
		kind                TEXT NOT NULL,
		label               TEXT NOT NULL DEFAULT '',
		color               TEXT NOT NULL DEFAULT '',
		duration_ms         INTEGER NOT NULL DEFAULT 0,
		is_running          INTEGER NOT NULL DEFAULT 0,
		started_at_ms       INTEGER,
		elapsed_ms          INTEGER NOT NULL DEFAULT 0,
		phase               TEXT,
		interval_count      INTEGER NOT NULL DEFAULT 0,
		intervals_per_cycle INTEGER NOT NULL DEFAULT 0,
		work_ms             INTEGER NOT NULL DEFAULT 0,
		short_break_ms      INTEGER NOT NULL DEFAULT 0,
		long_break_ms       INTEGER NOT NULL DEFAULT 0,
		auto_continue       INTEGER NOT NULL DEFAULT 0,
		updated_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_timers_position ON timers(position);

	CREATE TABLE IF NOT EXISTS completions (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		timer_id        TEXT NOT NULL,
		label           TEXT NOT NULL DEFAULT '',
		kind            TEXT NOT NULL,
		phase           TEXT,
		duration_ms     INTEGER NOT NULL DEFAULT 0,
		completed_at_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_completions_at    ON completions(completed_at_ms);
	CREATE INDEX IF NOT EXISTS idx_completions_timer ON completions(timer_id);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('cycle_work',          '1500'),
		('cycle_short_break',   '300'),
		('cycle_long_break',    '900'),
		('cycle_intervals',     '2'),
		('cycle_auto_continue', 'true');
	`
	_, err := s.db.Exec(ddl)
	return err
}
