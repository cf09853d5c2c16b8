// Package sqlite provides SQLite-based persistent storage for Buddy.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/ai-buddy/buddy/internal/domain"
)

// FileName is the database file created inside the data directory.
const FileName = "state.db"

// DB wraps a SQLite connection with WAL mode and migrations.
// It implements domain.Store and domain.NotificationStore.
type DB struct {
	db *sql.DB
}

var (
	_ domain.Store             = (*DB)(nil)
	_ domain.NotificationStore = (*DB)(nil)
)

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, FileName)
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Single installation user; unlocked ids kept as a JSON array.
		`CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			email             TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL,
			total_points      INTEGER NOT NULL DEFAULT 0,
			level             INTEGER NOT NULL DEFAULT 1,
			level_progress    REAL NOT NULL DEFAULT 0,
			current_streak    INTEGER NOT NULL DEFAULT 0,
			longest_streak    INTEGER NOT NULL DEFAULT 0,
			last_checkin_date TEXT NOT NULL DEFAULT '',
			total_activities  INTEGER NOT NULL DEFAULT 0,
			unlocked          TEXT NOT NULL DEFAULT '[]'
		)`,

		`CREATE TABLE IF NOT EXISTS buddies (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL UNIQUE,
			name                TEXT NOT NULL,
			stage               TEXT NOT NULL,
			level               INTEGER NOT NULL,
			experience          INTEGER NOT NULL,
			mood                TEXT NOT NULL,
			happiness           INTEGER NOT NULL,
			health              INTEGER NOT NULL,
			energy              INTEGER NOT NULL,
			overall             INTEGER NOT NULL,
			last_fed_date       TEXT NOT NULL DEFAULT '',
			days_neglected      INTEGER NOT NULL DEFAULT 0,
			total_care_sessions INTEGER NOT NULL DEFAULT 0,
			current_care_streak INTEGER NOT NULL DEFAULT 0,
			longest_care_streak INTEGER NOT NULL DEFAULT 0,
			created_at          TEXT NOT NULL
		)`,

		// Append-only check-in history; rowid preserves insertion order.
		`CREATE TABLE IF NOT EXISTS activities (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			date          TEXT NOT NULL,
			timestamp     TEXT NOT NULL,
			tools         TEXT NOT NULL,
			notes         TEXT NOT NULL DEFAULT '',
			points_earned INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, date)`,

		// Unlock timestamps
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,

		// Check-in event inbox
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user_shown ON notifications(user_id, shown)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
