// Package journal persists batch-run history to a local SQLite database so
// past conversions can be inspected from the CLI.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/docbridge-ai/docbridge/internal/batch"
	"github.com/docbridge-ai/docbridge/internal/convert"
)

// ErrNotFound indicates a missing journal record.
var ErrNotFound = errors.New("journal record not found")

// Run is one recorded batch invocation.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	Mode       string
	MaxWorkers int
	Total      int
	Succeeded  int
	Failed     int
	Elapsed    time.Duration
}

// Item is one per-source outcome within a run.
type Item struct {
	RunID   uuid.UUID
	Source  string
	Success bool
	Error   string
	Kind    string
}

// Store is a SQLite-backed journal.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS batch_runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMP NOT NULL,
	mode        TEXT NOT NULL,
	max_workers INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	elapsed_ms  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_items (
	run_id  TEXT NOT NULL REFERENCES batch_runs(id),
	source  TEXT NOT NULL,
	success INTEGER NOT NULL,
	error   TEXT NOT NULL DEFAULT '',
	kind    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_batch_items_run ON batch_items(run_id);
`

// Open creates or opens the journal at path, creating parent directories and
// the schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordRun persists one finished batch and its per-source outcomes.
func (s *Store) RecordRun(ctx context.Context, mode string, maxWorkers int, result batch.Result) (uuid.UUID, error) {
	runID := uuid.New()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin journal tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO batch_runs (id, started_at, mode, max_workers, total, succeeded, failed, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID.String(), time.Now().Add(-result.Elapsed), mode, maxWorkers,
		len(result.Outcomes), result.Succeeded(), result.Failed(), result.Elapsed.Milliseconds(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert batch run: %w", err)
	}

	for _, outcome := range result.Outcomes {
		kind := ""
		if outcome.Err != nil {
			kind = string(convert.KindOf(outcome.Err))
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO batch_items (run_id, source, success, error, kind)
			VALUES (?, ?, ?, ?, ?)`,
			runID.String(), outcome.Source, outcome.Succeeded(), outcome.ErrorMessage(), kind,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert batch item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit journal tx: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, mode, max_workers, total, succeeded, failed, elapsed_ms
		FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batch runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run       Run
			id        string
			elapsedMS int64
		)
		if err := rows.Scan(&id, &run.StartedAt, &run.Mode, &run.MaxWorkers,
			&run.Total, &run.Succeeded, &run.Failed, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan batch run: %w", err)
		}
		run.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse run id: %w", err)
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunItems returns the per-source outcomes of one run in insertion order.
func (s *Store) RunItems(ctx context.Context, runID uuid.UUID) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, success, error, kind
		FROM batch_items WHERE run_id = ?`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("query batch items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item Item
			id   string
		)
		if err := rows.Scan(&id, &item.Source, &item.Success, &item.Error, &item.Kind); err != nil {
			return nil, fmt.Errorf("scan batch item: %w", err)
		}
		item.RunID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse item run id: %w", err)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
