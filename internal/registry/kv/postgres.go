package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	expires_at TIMESTAMPTZ,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS kv_store_expires_at_idx ON kv_store (expires_at) WHERE expires_at IS NOT NULL;
`

// PostgresStore keeps every key as one JSONB row. Each mutation runs in its
// own transaction with the row locked.
type PostgresStore struct {
	engine
	pg *postgresBackend
}

var _ Store = (*PostgresStore)(nil)

// executor is satisfied by both pgx.Tx and pgxpool.Pool.
type executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresStore connects to PostgreSQL and ensures the kv_store table exists.
func NewPostgresStore(ctx context.Context, connectionURI string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connectionURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	config.MaxConns = 30
	config.MinConns = 2
	config.MaxConnIdleTime = 30 * time.Minute
	config.MaxConnLifetime = 2 * time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	pg := &postgresBackend{pool: pool}
	return &PostgresStore{engine: engine{b: pg}, pg: pg}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pg.pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.pg.pool.Close()
	return nil
}

// Sweep deletes expired rows. Reads already ignore them; this only reclaims space.
func (s *PostgresStore) Sweep(ctx context.Context) (int64, error) {
	tag, err := s.pg.pool.Exec(ctx, `DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

type postgresBackend struct {
	pool *pgxpool.Pool
}

func (p *postgresBackend) now() time.Time { return time.Now() }

func (p *postgresBackend) load(ctx context.Context, ex executor, key string, forUpdate bool) (*entry, error) {
	query := `SELECT value, expires_at FROM kv_store WHERE key = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var (
		raw       []byte
		expiresAt *time.Time
	)
	if err := ex.QueryRow(ctx, query, key).Scan(&raw, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load key %q: %w", key, err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode key %q: %w", key, err)
	}
	if expiresAt != nil {
		e.ExpiresAt = *expiresAt
	}
	if e.expired(p.now()) {
		return nil, nil
	}
	return &e, nil
}

func (p *postgresBackend) read(ctx context.Context, key string, fn func(*entry) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	e, err := p.load(ctx, p.pool, key, false)
	if err != nil {
		return err
	}
	return fn(e)
}

func (p *postgresBackend) update(ctx context.Context, key string, fn func(*entry) (*entry, error)) error {
	return p.inTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		current, err := p.load(ctx, tx, key, true)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}

		if next == nil {
			if _, err := tx.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
				return fmt.Errorf("failed to delete key %q: %w", key, err)
			}
			return nil
		}

		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		var expiresAt *time.Time
		if !next.ExpiresAt.IsZero() {
			expiresAt = &next.ExpiresAt
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO kv_store (key, value, expires_at, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (key) DO UPDATE
			SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()`,
			key, raw, expiresAt)
		if err != nil {
			return fmt.Errorf("failed to store key %q: %w", key, err)
		}
		return nil
	})
}

func (p *postgresBackend) inTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	//nolint:contextcheck // rollback uses its own context so cleanup runs even if the request was cancelled
	defer func() {
		rollbackCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if rbErr := tx.Rollback(rollbackCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Printf("failed to rollback transaction: %v", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
