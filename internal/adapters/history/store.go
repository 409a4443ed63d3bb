// Package history journals mutating runs in a per-project sqlite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	seq              INTEGER PRIMARY KEY AUTOINCREMENT,
	id               TEXT    NOT NULL UNIQUE,
	operation        TEXT    NOT NULL,
	started_at       TEXT    NOT NULL,
	finished_at      TEXT    NOT NULL,
	status           TEXT    NOT NULL,
	installs         INTEGER NOT NULL DEFAULT 0,
	upgrades         INTEGER NOT NULL DEFAULT 0,
	downgrades       INTEGER NOT NULL DEFAULT 0,
	removes          INTEGER NOT NULL DEFAULT 0,
	skipped          INTEGER NOT NULL DEFAULT 0,
	lock_fingerprint TEXT    NOT NULL DEFAULT '',
	error            TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

var _ ports.History = (*Store)(nil)

// Store implements ports.History. Each call opens the database of the project it is given.
type Store struct {
	openDB func(driverName, dataSourceName string) (*sql.DB, error)
}

// NewStore creates a Store.
func NewStore() *Store {
	return &Store{openDB: sql.Open}
}

// Record appends a finished run to the journal.
func (s *Store) Record(ctx context.Context, root string, entry domain.RunEntry) error {
	db, err := s.open(ctx, domain.DefaultHistoryPath(root))
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Best effort close in defer

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, operation, started_at, finished_at, status,
			installs, upgrades, downgrades, removes, skipped, lock_fingerprint, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Operation,
		formatTime(entry.StartedAt), formatTime(entry.FinishedAt), string(entry.Status),
		entry.Summary.Installs, entry.Summary.Upgrades, entry.Summary.Downgrades,
		entry.Summary.Removes, entry.Summary.Skipped,
		entry.LockFingerprint, entry.Error,
	)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrHistoryFailed, zerr.Wrap(err, "insert run")), "run_id", entry.ID)
	}
	return nil
}

// List returns up to limit runs, newest first. A project without a journal has no runs.
// A limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, root string, limit int) ([]domain.RunEntry, error) {
	path := domain.DefaultHistoryPath(root)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	db, err := s.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close() //nolint:errcheck // Best effort close in defer

	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, operation, started_at, finished_at, status,
			installs, upgrades, downgrades, removes, skipped, lock_fingerprint, error
		FROM runs ORDER BY started_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Join(domain.ErrHistoryFailed, zerr.Wrap(err, "query runs"))
	}
	defer rows.Close() //nolint:errcheck // Best effort close in defer

	var entries []domain.RunEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Join(domain.ErrHistoryFailed, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(domain.ErrHistoryFailed, zerr.Wrap(err, "iterate runs"))
	}
	return entries, nil
}

func (s *Store) open(ctx context.Context, path string) (*sql.DB, error) {
	fail := func(err error, msg string) error {
		return zerr.With(errors.Join(domain.ErrHistoryFailed, zerr.Wrap(err, msg)), "path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, fail(err, "create state directory")
	}

	db, err := s.openDB("sqlite", path)
	if err != nil {
		return nil, fail(err, "open database")
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fail(err, "apply pragma")
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fail(err, "create schema")
	}
	return db, nil
}

func scanEntry(rows *sql.Rows) (domain.RunEntry, error) {
	var (
		entry              domain.RunEntry
		status             string
		started, finished string
	)
	err := rows.Scan(
		&entry.ID, &entry.Operation, &started, &finished, &status,
		&entry.Summary.Installs, &entry.Summary.Upgrades, &entry.Summary.Downgrades,
		&entry.Summary.Removes, &entry.Summary.Skipped,
		&entry.LockFingerprint, &entry.Error,
	)
	if err != nil {
		return entry, zerr.Wrap(err, "scan run")
	}

	entry.Status = domain.RunStatus(status)
	if entry.StartedAt, err = parseTime(started); err != nil {
		return entry, zerr.With(zerr.Wrap(err, "parse started_at"), "run_id", entry.ID)
	}
	if entry.FinishedAt, err = parseTime(finished); err != nil {
		return entry, zerr.With(zerr.Wrap(err, "parse finished_at"), "run_id", entry.ID)
	}
	return entry, nil
}

// Times are stored as fixed-width UTC text so lexical order is chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
