// Package history keeps a record of completed scans in a local SQLite
// database so earlier runs can be listed, inspected and compared.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/diskreport/internal/pipeline"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Get when no run has the requested id.
var ErrNotFound = errors.New("run not found")

// OwnerTotal is one owner's share of a run.
type OwnerTotal struct {
	Owner string
	Files int
	Bytes int64
}

// Run is a completed scan as stored in the history database.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Root           string
	Extensions     string // comma separated patterns
	SizeLimit      string // as typed by the user
	ThresholdBytes int64
	Fingerprint    string
	Discovered     int
	Retained       int
	Degraded       int
	WalkErrors     int
	GrandTotal     int64
	OutputPath     string
	Owners         []OwnerTotal
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Fingerprint identifies the inputs that determine a report's filename:
// the local date, the patterns, the root folder and the size limit text.
// Two runs with the same fingerprint write to the same file.
func Fingerprint(date time.Time, extensions, root, sizeLimit string) string {
	d := xxhash.New()
	for _, part := range []string{date.Format("2006-01-02"), extensions, root, sizeLimit} {
		d.WriteString(part)
		d.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// FromResult builds a Run from a finished pipeline result.
func FromResult(res *pipeline.Result, root, extensions, sizeLimit string, thresholdBytes int64) *Run {
	run := &Run{
		StartedAt:      res.StartedAt,
		FinishedAt:     res.FinishedAt,
		Root:           root,
		Extensions:     extensions,
		SizeLimit:      sizeLimit,
		ThresholdBytes: thresholdBytes,
		Fingerprint:    Fingerprint(res.StartedAt, extensions, root, sizeLimit),
		Discovered:     res.Discovered,
		Retained:       len(res.Filtered),
		Degraded:       res.Degraded,
		WalkErrors:     len(res.WalkErrors),
		GrandTotal:     res.GrandTotal,
		OutputPath:     res.OutputPath,
	}
	for _, g := range res.Groups {
		run.Owners = append(run.Owners, OwnerTotal{
			Owner: g.Owner,
			Files: len(g.Records),
			Bytes: g.SubtotalBytes,
		})
	}
	return run
}

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the history database at dbPath.
// ":memory:" gives a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the remaining pragmas wait on locks
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := execWithRetry(db, schemaSQL, 5, 10*time.Millisecond); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry retries statements that fail with "database is locked",
// doubling the delay each attempt.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores run and its owner totals in one transaction. An empty
// run.ID is replaced by a new UUID.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.Fingerprint == "" {
		run.Fingerprint = Fingerprint(run.StartedAt, run.Extensions, run.Root, run.SizeLimit)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, started_at, finished_at, root, extensions, size_limit, threshold_bytes, fingerprint,
		 discovered, retained, degraded, walk_errors, grand_total, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.Root,
		run.Extensions,
		run.SizeLimit,
		run.ThresholdBytes,
		run.Fingerprint,
		run.Discovered,
		run.Retained,
		run.Degraded,
		run.WalkErrors,
		run.GrandTotal,
		run.OutputPath,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, o := range run.Owners {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO owner_totals (run_id, position, owner, files, bytes) VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, o.Owner, o.Files, o.Bytes)
		if err != nil {
			return fmt.Errorf("insert owner total %q: %w", o.Owner, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, started_at, finished_at, root, extensions, size_limit, threshold_bytes, fingerprint,
	discovered, retained, degraded, walk_errors, grand_total, output_path`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	err := row.Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Root,
		&run.Extensions,
		&run.SizeLimit,
		&run.ThresholdBytes,
		&run.Fingerprint,
		&run.Discovered,
		&run.Retained,
		&run.Degraded,
		&run.WalkErrors,
		&run.GrandTotal,
		&run.OutputPath,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs first, without owner totals.
// A limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given id, including owner totals. A
// unique id prefix is accepted as well.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC LIMIT 2`,
		id, id+"%", id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	rows.Close()

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(matches) > 1 && matches[0].ID != id:
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}

	run := matches[0]
	if err := s.loadOwners(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// FindByFingerprint returns the latest run with the given fingerprint, or
// nil when there is none.
func (s *Store) FindByFingerprint(ctx context.Context, fingerprint string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE fingerprint = ? ORDER BY started_at DESC, rowid DESC LIMIT 1`,
		fingerprint)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query run by fingerprint: %w", err)
	}
	return run, nil
}

func (s *Store) loadOwners(ctx context.Context, run *Run) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, files, bytes FROM owner_totals WHERE run_id = ? ORDER BY position`, run.ID)
	if err != nil {
		return fmt.Errorf("query owner totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o OwnerTotal
		if err := rows.Scan(&o.Owner, &o.Files, &o.Bytes); err != nil {
			return fmt.Errorf("scan owner total: %w", err)
		}
		run.Owners = append(run.Owners, o)
	}
	return rows.Err()
}
