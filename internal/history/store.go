// Package history persists per-specification run results so verdicts
// can be compared across runs of the same target.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/crosscheck-dev/crosscheck/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// Store records run history in SQLite.
// Uses WAL mode; a single connection avoids writer contention.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one recorded specification run.
type Run struct {
	ID        string
	Package   string
	Passed    int
	Skipped   int
	Total     int
	OK        bool
	Fatal     string
	StartedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Used by tests for
// deterministic rows.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates or opens the history database at the given path,
// applying pragmas and the schema. Safe to call repeatedly.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY under interleaved use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun persists one specification report and returns the run id.
func (s *Store) RecordRun(ctx context.Context, report engine.SpecReport) (string, error) {
	id := uuid.NewString()
	fatal := ""
	if report.Fatal != nil {
		fatal = report.Fatal.Error()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, package, passed, skipped, total, ok, fatal, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		report.Package,
		report.Passed,
		report.Skipped,
		report.Total,
		report.OK(),
		fatal,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, package, passed, skipped, total, ok, fatal, started_at
		FROM runs
		ORDER BY started_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedAt string
		if err := rows.Scan(&r.ID, &r.Package, &r.Passed, &r.Skipped, &r.Total, &r.OK, &r.Fatal, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
