// Package store persists the timestamp of the last confirmed server bump.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS bump_state (
	id        INTEGER PRIMARY KEY CHECK (id = 1),
	last_bump INTEGER NOT NULL
);`

// BumpStore records when the server was last bumped. It holds a single row;
// writes are last-write-wins and callers must tolerate an absent record.
type BumpStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the bump database at path.
func Open(path string) (*BumpStore, error) {
	if path == "" {
		return nil, errors.New("store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &BumpStore{db: db}, nil
}

// LastBump returns the time of the last confirmed bump. The second return is
// false when no bump has ever been recorded.
func (s *BumpStore) LastBump(ctx context.Context) (time.Time, bool, error) {
	var unix int64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_bump FROM bump_state WHERE id = 1`).Scan(&unix)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("store: read last bump: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}

// SetLastBump overwrites the recorded bump time.
func (s *BumpStore) SetLastBump(ctx context.Context, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bump_state(id, last_bump) VALUES(1, ?)
		 ON CONFLICT(id) DO UPDATE SET last_bump = excluded.last_bump`,
		t.Unix())
	if err != nil {
		return fmt.Errorf("store: write last bump: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BumpStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
