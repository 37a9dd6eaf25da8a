// Package postgres implements repository.Store on a pgxpool connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courtwire/nba-sim-service/internal/repository"
)

// Config controls pool sizing.
type Config struct {
	DatabaseURL string
	MinConns    int
	MaxConns    int
	MaxConnLife time.Duration
}

// Store is a pgx-backed repository.Store. The zero value is not usable;
// construct with New.
type Store struct {
	pool *pgxpool.Pool
	q    querier
}

// querier is the subset of pgx shared by pools and transactions, letting the
// same query methods serve both paths. Both *pgxpool.Pool and pgx.Tx satisfy
// it directly.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New creates and validates a connection pool.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MaxConnLife > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLife
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool, q: pool}, nil
}

// Close releases the underlying pool. No-op for transaction-scoped stores.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	var n int
	return s.q.QueryRow(ctx, "SELECT 1").Scan(&n)
}

// WithinTx runs fn against a transaction-scoped Store, committing on success
// and rolling back on error.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.pool == nil {
		// Already inside a transaction; nested scopes join it.
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{q: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	return tx.Commit(ctx)
}

var _ repository.Store = (*Store)(nil)
