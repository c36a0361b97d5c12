package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/hetulpatel/Randex/internal/domain"
)

const (
	defaultPath = "data/randex.db"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store wraps a SQLite DB connection.
type Store struct {
	path string
	db   *sql.DB
	q    querier
	tx   *sql.Tx
}

// Open creates (if needed) and opens the SQLite database with foreign keys enforced.
func Open(path string) (*Store, error) {
	return open(path, true)
}

// OpenForImport opens the database the way the sqlite3 shell does, without
// foreign key enforcement, so replayed dumps behave the same in-process.
func OpenForImport(path string) (*Store, error) {
	return open(path, false)
}

func open(path string, foreignKeys bool) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: ensure data dir: %w", domain.ErrIO, err)
	}
	db, err := sql.Open("sqlite", dsn(path, foreignKeys))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps per-connection pragmas and write ordering simple.
	db.SetMaxOpenConns(1)
	if err := ensureWAL(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	return &Store{path: path, db: db, q: db}, nil
}

func dsn(path string, foreignKeys bool) string {
	fk := 0
	if foreignKeys {
		fk = 1
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(%d)&_pragma=busy_timeout(5000)&_txlock=immediate", path, fk)
}

func ensureWAL(db *sql.DB) error {
	const (
		maxAttempts = 5
		delay       = 200 * time.Millisecond
	)
	for i := 0; i < maxAttempts; i++ {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			if strings.Contains(err.Error(), "database is locked") {
				time.Sleep(delay)
				continue
			}
			return err
		}
		return nil
	}
	return fmt.Errorf("database is locked after retries")
}

// Reset deletes the database file (and its WAL/SHM/journal companions) and
// creates an empty database in its place. A missing file is not an error.
func Reset(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: database path is required", domain.ErrInvalid)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %w", domain.ErrIO, p, err)
		}
	}
	store, err := Open(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrIO, path, err)
	}
	if err := store.db.Ping(); err != nil {
		store.Close()
		return fmt.Errorf("%w: create %s: %w", domain.ErrIO, path, err)
	}
	return store.Close()
}

// Path returns the path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the DB.
func (s *Store) Close() error {
	if s == nil || s.db == nil || s.tx != nil {
		return nil
	}
	return s.db.Close()
}

// InTx runs fn against a store bound to one transaction. Transactions begin
// IMMEDIATE, so concurrent writers queue on the busy timeout instead of
// interleaving. Nested calls reuse the outer transaction. The transaction is
// rolled back if fn returns an error or panics.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	bound := &Store{path: s.path, db: s.db, q: tx, tx: tx}
	if err := fn(bound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// ExecScript runs a multi-statement SQL script as a single batch.
func (s *Store) ExecScript(ctx context.Context, script string) error {
	if _, err := s.q.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrExecution, err)
	}
	return nil
}

// classify maps SQLite constraint failures onto domain error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: %w", domain.ErrInvalid, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrExecution, err)
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, what, id)
	}
	return fmt.Errorf("get %s %d: %w", what, id, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// parseTimestamp reads CURRENT_TIMESTAMP values ("2006-01-02 15:04:05", UTC).
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.DateTime, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func expectRow(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, what, id)
	}
	return nil
}
