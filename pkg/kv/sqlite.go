package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// SQLiteStore implements Store on a single local database file. This is
// the default backend: the app owns the file, nothing else writes to it.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	// single local writer, no need for a pool
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// DB exposes the underlying handle for migrations.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, `SELECT val FROM kv WHERE key = ?`, key).Scan(&val)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Str("key", key).Msg("sqlite get failed")
		}
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) Set(ctx context.Context, key string, val string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, val) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET val = excluded.val`, key, val)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *SQLiteStore) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key IN (`+placeholders+`)`, args...)
	return err
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
