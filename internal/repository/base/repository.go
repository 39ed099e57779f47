package base

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the common surface of *pgxpool.Pool and pgx.Tx. Repository
// methods that must join a caller's transaction take one explicitly.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs a function inside a single database transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(q Querier) error) error
}

// PgxTxManager implements TxManager on a pgx connection pool.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

// NewPgxTxManager creates a transaction manager over the pool
func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithinTx begins a transaction, runs fn with it and commits. Any error from
// fn rolls the whole transaction back.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// IsNotFound checks if the error is "no rows"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
