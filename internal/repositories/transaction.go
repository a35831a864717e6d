package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) TxManagerInterface {
	return &TxManager{pool: pool}
}

// RunInTransaction commits when fn returns nil and rolls back on error or panic.
// Work orders are locked with SELECT ... FOR UPDATE inside fn, so the default
// READ COMMITTED level is enough.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer finishTx(ctx, tx, "transaction", &err)

	return fn(tx)
}

// RunInSavepoint runs fn under a savepoint of tx. A failure rolls back the savepoint only and
// leaves tx usable; the error is still returned so the caller decides whether to swallow it.
func RunInSavepoint(ctx context.Context, tx pgx.Tx, fn func(sp pgx.Tx) error) (err error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint: %w", err)
	}
	defer finishTx(ctx, sp, "savepoint", &err)

	return fn(sp)
}

// finishTx must be deferred. It re-panics after rolling back.
func finishTx(ctx context.Context, tx pgx.Tx, kind string, errp *error) {
	if p := recover(); p != nil {
		_ = tx.Rollback(ctx)
		panic(p)
	}
	if *errp != nil {
		_ = tx.Rollback(ctx)
		return
	}
	if err := tx.Commit(ctx); err != nil {
		*errp = fmt.Errorf("failed to commit %s: %w", kind, err)
	}
}
