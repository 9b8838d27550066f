// Package history provides a SQLite-backed ledger of submission runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nishad/biosubmit/internal/errors"
)

// Run outcomes
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// timeLayout sorts lexically in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown submission ID
var ErrNotFound = errors.E(errors.KindStorage, "submission not found")

// Entry is one recorded submission run
type Entry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	InputFile   string    `json:"input_file"`
	OutputFile  string    `json:"output_file,omitempty"`
	Action      string    `json:"action"`
	Comment     string    `json:"comment,omitempty"`
	Hold        string    `json:"hold,omitempty"`
	Status      string    `json:"status"`
	SampleCount int       `json:"sample_count"`
	ErrorCount  int       `json:"error_count"`
	Samples     []string  `json:"samples,omitempty"`
}

// Store wraps the ledger database
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the ledger at path
func Open(path string) (*Store, error) {
	const op errors.Op = "history.Open"

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.E(op, errors.KindIO, err, "failed to create history directory")
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_sync=NORMAL")
	if err != nil {
		return nil, errors.E(op, errors.KindStorage, err, "failed to open database")
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.E(op, errors.KindStorage, err, fmt.Sprintf("failed to set pragma %s", pragma))
		}
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, errors.E(op, errors.KindStorage, err, "failed to create tables")
	}

	return &Store{db: db, path: path}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		input_file TEXT NOT NULL,
		output_file TEXT,
		action TEXT NOT NULL,
		comment TEXT,
		hold TEXT,
		status TEXT NOT NULL,
		sample_count INTEGER NOT NULL DEFAULT 0,
		error_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS submission_samples (
		submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		sample_name TEXT NOT NULL,
		PRIMARY KEY (submission_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
	CREATE INDEX IF NOT EXISTS idx_samples_name ON submission_samples(sample_name);
	`
	_, err := db.Exec(schema)
	return err
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// Record stores an entry and its sample names in one transaction. A missing
// ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	const op errors.Op = "history.Record"

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.E(op, errors.KindStorage, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO submissions (
			id, created_at, input_file, output_file, action,
			comment, hold, status, sample_count, error_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.CreatedAt.UTC().Format(timeLayout), e.InputFile, e.OutputFile, e.Action,
		e.Comment, e.Hold, e.Status, e.SampleCount, e.ErrorCount)
	if err != nil {
		return errors.E(op, errors.KindStorage, err, "failed to insert submission")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_samples (submission_id, position, sample_name) VALUES (?, ?, ?)
	`)
	if err != nil {
		return errors.E(op, errors.KindStorage, err)
	}
	defer stmt.Close()

	for i, name := range e.Samples {
		if _, err := stmt.ExecContext(ctx, e.ID, i, name); err != nil {
			return errors.E(op, errors.KindStorage, err, "failed to insert sample")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.E(op, errors.KindStorage, err)
	}
	return nil
}

const entryColumns = `id, created_at, input_file, COALESCE(output_file, ''), action,
	COALESCE(comment, ''), COALESCE(hold, ''), status, sample_count, error_count`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*Entry, error) {
	e := &Entry{}
	var created string
	if err := row.Scan(&e.ID, &created, &e.InputFile, &e.OutputFile, &e.Action,
		&e.Comment, &e.Hold, &e.Status, &e.SampleCount, &e.ErrorCount); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	e.CreatedAt = t
	return e, nil
}

// List returns the most recent entries first, without sample names. A
// non-positive limit returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	const op errors.Op = "history.List"

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.E(op, errors.KindStorage, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.E(op, errors.KindStorage, err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.E(op, errors.KindStorage, err)
	}
	return entries, nil
}

// Get returns one entry with its sample names
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	const op errors.Op = "history.Get"

	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM submissions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.E(op, errors.KindStorage, ErrNotFound, id)
	}
	if err != nil {
		return nil, errors.E(op, errors.KindStorage, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT sample_name FROM submission_samples WHERE submission_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, errors.E(op, errors.KindStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.E(op, errors.KindStorage, err)
		}
		e.Samples = append(e.Samples, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.E(op, errors.KindStorage, err)
	}
	return e, nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
