// Package sqlite provides the SQLite-backed archive of extraction runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/markscrape"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas are applied to every connection, in order. WAL is skipped for
// in-memory databases.
var pragmas = []struct {
	stmt   string
	onDisk bool
}{
	{"PRAGMA busy_timeout = 5000", false},
	{"PRAGMA journal_mode = WAL", true},
	{"PRAGMA foreign_keys = ON", false},
}

// Open opens the database connection and creates the schema if needed.
// Failures are reported as EIO.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return markscrape.Errorf(markscrape.EIO, "open archive %s: %v", db.path, err)
	}

	// One writer at a time.
	conn.SetMaxOpenConns(1)

	if err := db.setup(conn); err != nil {
		conn.Close()
		return markscrape.Errorf(markscrape.EIO, "open archive %s: %v", db.path, err)
	}
	db.db = conn
	return nil
}

func (db *DB) setup(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return err
	}
	for _, p := range pragmas {
		if p.onDisk && db.path == ":memory:" {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			return fmt.Errorf("%s: %w", p.stmt, err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	format TEXT NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	bytes INTEGER NOT NULL DEFAULT 0,
	checksum TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	content TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
