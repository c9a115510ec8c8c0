// Package sqlite implements the state slot using SQLite as the storage
// backend.
//
// WHY SQLITE FOR A SINGLE BLOB?
// The app persists exactly one value under one key — the serialized state.
// A one-row key-value table covers that. SQLite gives us atomic replacement
// of the row, durable writes, and a single self-contained file, with no
// database server to install or manage.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation
// of SQLite — works everywhere Go works.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// BLANK IMPORT:
	// Side-effect only — the package's init() registers itself with
	// database/sql as a driver named "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"
)

// Slot stores named blobs in a single SQLite table, one row per key.
// It implements store.Slot for the key given at construction.
type Slot struct {
	conn *sql.DB
	key  string
}

// New opens (or creates) the SQLite database at dbPath and prepares the
// key-value table. Use ":memory:" for tests.
func New(dbPath, key string) (*Slot, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection now, so a bad path or permissions
	// problem surfaces here instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode: the default journal locks the whole database during
	// writes; WAL allows reads to proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	s := &Slot{conn: conn, key: key}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection pool. Defer this wherever New is
// called so the file lock is released even on panic.
func (s *Slot) Close() error {
	return s.conn.Close()
}

// migrate creates the key-value table. CREATE TABLE IF NOT EXISTS is
// idempotent, so this is safe on every startup.
func (s *Slot) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			slot       TEXT PRIMARY KEY,
			body       BLOB NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating app_state table: %w", err)
	}
	return nil
}

// Read returns the blob stored under the slot key, or (nil, nil) if nothing
// has been written yet — the store treats that as "start from empty".
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.conn.QueryRowContext(ctx,
		`SELECT body FROM app_state WHERE slot = ?`, s.key,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading slot %s: %w", s.key, err)
	}
	return body, nil
}

// Write replaces the blob under the slot key. The ON CONFLICT upsert makes
// the whole-state save a single atomic statement.
func (s *Slot) Write(ctx context.Context, blob []byte) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO app_state (slot, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, s.key, blob)
	if err != nil {
		return fmt.Errorf("sqlite: writing slot %s: %w", s.key, err)
	}
	return nil
}
