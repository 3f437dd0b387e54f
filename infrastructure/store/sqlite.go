// Package store persists dashboard preferences in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ahrav/go-medals/internal/ports"
)

// KeyDarkMode is the preference key of the dark mode flag.
const KeyDarkMode = "dark_mode"

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

var _ ports.PreferenceStore = (*SQLiteStore)(nil)

// SQLiteStore is a PreferenceStore backed by a single sqlite table of
// string key/value pairs.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-process database.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, ports.NewStoreError("", "open", ports.ErrConfigNotFound)
	}

	db, err := sqlx.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, ports.NewStoreError("", "open", fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err))
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, ports.NewStoreError("", "migrate", fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err))
	}
	return &SQLiteStore{db: db}, nil
}

func dsn(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}

// DarkMode returns the stored dark mode flag, false when never set.
func (s *SQLiteStore) DarkMode(ctx context.Context) (bool, error) {
	value, ok, err := s.get(ctx, KeyDarkMode)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, ports.NewStoreError(KeyDarkMode, "get", fmt.Errorf("stored value %q: %w", value, err))
	}
	return enabled, nil
}

// SetDarkMode stores the dark mode flag.
func (s *SQLiteStore) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.set(ctx, KeyDarkMode, strconv.FormatBool(enabled))
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowxContext(ctx, `SELECT value FROM preferences WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ports.NewStoreError(key, "get", fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err))
	}
	return value, true, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO preferences (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	if err != nil {
		return ports.NewStoreError(key, "set", fmt.Errorf("%w: %w", ports.ErrStoreUnavailable, err))
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
