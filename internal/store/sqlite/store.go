// Package sqlite provides the shared KV store for multi-instance
// deployments: a SQLite database on a shared volume. Conditional writes are
// single statements, so set-if-absent is atomic across processes.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/louisbranch/roster.space/internal/platform/errors"
	"github.com/louisbranch/roster.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/roster.space/internal/store"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store implements store.KV on a SQLite database.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens (and migrates) the KV database at path.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite kv store: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrationFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate kv store: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, s.nowMillis(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrAbsent
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv get", err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, s.expiryMillis(ttl),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv set", err)
	}
	return nil
}

func (s *Store) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// The conditional update only fires when the existing row has expired,
	// so a live entry wins and the statement reports zero affected rows.
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
		 WHERE kv.expires_at IS NOT NULL AND kv.expires_at <= ?`,
		key, value, s.expiryMillis(ttl), s.nowMillis(),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv set-if-absent", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv set-if-absent result", err)
	}
	if affected == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv delete", err)
	}
	return nil
}

// PurgeExpired removes dead rows. The server runs this on a slow ticker so
// abandoned locks and sessions don't accumulate on the shared volume.
func (s *Store) PurgeExpired(ctx context.Context) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?`, s.nowMillis())
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStoreUnavailable, "kv purge", err)
	}
	return nil
}

func (s *Store) nowMillis() int64 {
	return s.now().UTC().UnixMilli()
}

func (s *Store) expiryMillis(ttl time.Duration) sql.NullInt64 {
	if ttl <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: s.now().Add(ttl).UTC().UnixMilli(), Valid: true}
}
