package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS directories (
	id        INTEGER PRIMARY KEY,
	parent_id INTEGER REFERENCES directories(id),
	name      TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS files (
	id                INTEGER PRIMARY KEY,
	directory         INTEGER NOT NULL REFERENCES directories(id),
	name              TEXT NOT NULL,
	last_modification REAL NOT NULL,
	access_rights     TEXT NOT NULL,
	content_hash      BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_directory ON files(directory);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open opens (or creates) the profile database at path and makes sure the
// schema exists.
func Open(path string) (*sql.DB, error) {
	name, err := dsn(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	return db, nil
}

// dsn renders path as a sqlite URI. The path is escaped so that "#", "?" and
// "%" name the file literally instead of being read as URI syntax.
func dsn(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: q.Encode()}
	return u.String(), nil
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
