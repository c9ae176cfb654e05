package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded stage invocation.
type Run struct {
	ID         int64
	RunID      string
	Command    string
	Status     Status
	InPlace    bool
	OutputPath string
	Detail     string
	ErrorText  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure run log directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Begin records the start of a stage invocation and returns its row id.
func (s *Store) Begin(ctx context.Context, runID, command string) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (run_id, command, status, started_at)
         VALUES (?, ?, ?, ?)`,
		runID,
		command,
		StatusRunning,
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Result describes how a run ended.
type Result struct {
	Status     Status
	InPlace    bool
	OutputPath string
	Detail     string
	ErrorText  string
}

// Finish marks a run as ended and records its outcome.
func (s *Store) Finish(ctx context.Context, id int64, result Result) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, in_place = ?, output_path = ?, detail = ?, error_text = ?, finished_at = ?
         WHERE id = ?`,
		result.Status,
		boolToInt(result.InPlace),
		result.OutputPath,
		result.Detail,
		result.ErrorText,
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: no run with id %d", id)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, command, status, in_place,
                COALESCE(output_path, ''), COALESCE(detail, ''), COALESCE(error_text, ''),
                started_at, COALESCE(finished_at, '')
         FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LastSuccessful returns the newest succeeded run of the given command, or
// nil when none exists.
func (s *Store) LastSuccessful(ctx context.Context, command string) (*Run, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, command, status, in_place,
                COALESCE(output_path, ''), COALESCE(detail, ''), COALESCE(error_text, ''),
                started_at, COALESCE(finished_at, '')
         FROM runs WHERE command = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		command,
		StatusSucceeded,
	)
	if err != nil {
		return nil, fmt.Errorf("query last successful run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate runs: %w", err)
		}
		return nil, nil
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// HasNonDestructive reports whether a succeeded run of the command exists
// that wrote a separate output instead of overwriting its input.
func (s *Store) HasNonDestructive(ctx context.Context, command string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM runs WHERE command = ? AND status = ? AND in_place = 0`,
		command,
		StatusSucceeded,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count non-destructive runs: %w", err)
	}
	return count > 0, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run        Run
		inPlace    int
		startedAt  string
		finishedAt string
	)
	if err := rows.Scan(
		&run.ID, &run.RunID, &run.Command, &run.Status, &inPlace,
		&run.OutputPath, &run.Detail, &run.ErrorText,
		&startedAt, &finishedAt,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.InPlace = inPlace != 0
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = t
	}
	if finishedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			run.FinishedAt = t
		}
	}
	return run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
