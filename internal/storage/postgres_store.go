package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore keeps values in the client_storage table.
type PostgresStore struct {
	db           DBTX
	installation string
}

// NewPostgresStore returns a store bound to one installation.
func NewPostgresStore(db DBTX, installation string) *PostgresStore {
	if installation == "" {
		installation = "default"
	}
	return &PostgresStore{db: db, installation: installation}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
        SELECT value FROM client_storage
        WHERE installation_id=$1 AND key=$2`

	var value string
	err := s.db.QueryRow(ctx, query, s.installation, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO client_storage (installation_id, key, value)
        VALUES ($1, $2, $3)
        ON CONFLICT (installation_id, key)
        DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	if _, err := s.db.Exec(ctx, query, s.installation, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	const query = `
        DELETE FROM client_storage
        WHERE installation_id=$1 AND key=$2`

	if _, err := s.db.Exec(ctx, query, s.installation, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
