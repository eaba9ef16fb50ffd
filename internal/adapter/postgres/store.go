package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	rls  bool
}

// NewStore creates a new Store backed by the given connection pool. With
// enforceRLS set, every tenant-scoped transaction also publishes its tenant
// to the row-level security policies installed by the migrations.
func NewStore(pool *pgxpool.Pool, enforceRLS bool) *Store {
	return &Store{pool: pool, rls: enforceRLS}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// InTx runs fn inside a single transaction. The transaction commits only when
// fn returns nil; an error or panic rolls it back. A call made while a
// transaction is already active in ctx joins it.
func (s *Store) InTx(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if s.rls && tenantID != "" {
		if _, err := tx.Exec(ctx, `SELECT set_config('app.current_tenant', $1, true)`, tenantID); err != nil {
			return rollback(ctx, tx, fmt.Errorf("set tenant scope: %w", err))
		}
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		return rollback(ctx, tx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// rollback aborts tx and returns cause, joined with the rollback failure if
// there was one. The rollback runs even when ctx is already cancelled.
func rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Join(cause, fmt.Errorf("rollback tx: %w", err))
	}
	return cause
}
