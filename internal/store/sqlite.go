// Package store persists run history and the person-keyed pass/fail
// outcomes the external automation driver reports back.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run summarizes one reconciliation pass.
type Run struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"` // "yearbook" or "packages"
	Workbook  string    `json:"workbook"`
	Persons   int       `json:"persons"`
	Accepted  int       `json:"accepted"`
	Rejected  int       `json:"rejected"`
	CreatedAt time.Time `json:"created_at"`
}

// Outcome is one person-keyed result fed back by the driver after replay.
type Outcome struct {
	RunID      string    `json:"run_id"`
	PersonKey  string    `json:"person_key"`
	Status     string    `json:"status"` // "pass" or "fail"
	Detail     string    `json:"detail,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

// SQLiteStore implements the run store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	mode       TEXT NOT NULL,
	workbook   TEXT NOT NULL,
	persons    INTEGER NOT NULL DEFAULT 0,
	accepted   INTEGER NOT NULL DEFAULT 0,
	rejected   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS outcomes (
	run_id      TEXT NOT NULL REFERENCES runs(id),
	person_key  TEXT NOT NULL,
	status      TEXT NOT NULL,
	detail      TEXT,
	reported_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (run_id, person_key)
);

CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes(status);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun records one pass and returns it with a fresh ID.
func (s *SQLiteStore) CreateRun(ctx context.Context, mode, workbook string, persons, accepted, rejected int) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Mode:      mode,
		Workbook:  workbook,
		Persons:   persons,
		Accepted:  accepted,
		Rejected:  rejected,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, workbook, persons, accepted, rejected, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Workbook, run.Persons, run.Accepted, run.Rejected, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

// RecordOutcome upserts the driver's pass/fail result for one person. The
// driver may retry a person, so the latest report wins.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, o Outcome) error {
	if o.ReportedAt.IsZero() {
		o.ReportedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, person_key, status, detail, reported_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, person_key)
		 DO UPDATE SET status = excluded.status, detail = excluded.detail, reported_at = excluded.reported_at`,
		o.RunID, o.PersonKey, o.Status, o.Detail, o.ReportedAt,
	)
	return eris.Wrap(err, "sqlite: record outcome")
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, workbook, persons, accepted, rejected, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Mode, &r.Workbook, &r.Persons, &r.Accepted, &r.Rejected, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// Outcomes returns the driver feedback for one run, failures first.
func (s *SQLiteStore) Outcomes(ctx context.Context, runID string) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, person_key, status, detail, reported_at
		 FROM outcomes WHERE run_id = ?
		 ORDER BY status DESC, person_key`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query outcomes")
	}
	defer rows.Close()

	var outcomes []Outcome
	for rows.Next() {
		var o Outcome
		var detail sql.NullString
		if err := rows.Scan(&o.RunID, &o.PersonKey, &o.Status, &detail, &o.ReportedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outcome")
		}
		o.Detail = detail.String
		outcomes = append(outcomes, o)
	}
	return outcomes, eris.Wrap(rows.Err(), "sqlite: iterate outcomes")
}
