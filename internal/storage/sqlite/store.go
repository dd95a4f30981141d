// Package sqlite is a storage.Storage backed by a SQLite (or Turso/libSQL)
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/linkvault/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	"key"      TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// Store keeps every key as one row of the kv table.
type Store struct {
	db     *sql.DB
	driver string
}

var _ storage.Storage = (*Store)(nil)

// DriverFor picks the database/sql driver for a DSN: remote libSQL URLs use
// the Turso client, anything else is a local SQLite file.
func DriverFor(dsn string) string {
	if strings.Contains(dsn, "libsql://") || strings.Contains(dsn, "wss://") {
		return "libsql"
	}
	return "sqlite"
}

// Open connects to dsn and creates the kv table if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("sqlite: empty dsn")
	}

	driver := DriverFor(dsn)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY on local files
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Driver returns the driver name in use ("sqlite" or "libsql").
func (s *Store) Driver() string { return s.driver }

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE "key" = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return v, nil
}

// Set is a single UPSERT statement, so the row is replaced atomically.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv ("key", value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT ("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE "key" = ?`, key); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
