package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
)

type transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) port.Transactor {
	return &transactor{pool: pool}
}

func (t *transactor) InTx(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	_, err := withPgxTx(ctx, t.pool, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, fn(ctx, NewRepositoriesWithTx(tx))
	})
	return err
}

// NewRepositories returns pool-backed repositories; each multi-statement
// method opens its own transaction.
func NewRepositories(pool *pgxpool.Pool) port.Repositories {
	return port.Repositories{
		Products: NewProduct(pool),
		Reviews:  NewReview(pool),
		Carts:    NewCart(pool),
		Orders:   NewOrder(pool),
		Users:    NewUser(pool),
		Outbox:   NewOutbox(pool),
	}
}

// NewRepositoriesWithTx binds every repository to tx.
func NewRepositoriesWithTx(tx pgx.Tx) port.Repositories {
	return port.Repositories{
		Products: NewProductWithTx(tx),
		Reviews:  NewReviewWithTx(tx),
		Carts:    NewCartWithTx(tx),
		Orders:   NewOrderWithTx(tx),
		Users:    NewUserWithTx(tx),
		Outbox:   NewOutboxWithTx(tx),
	}
}

// withTx executes fn within a transaction if the repository was created with a pool,
// or uses the existing transaction if the repository was created with a transaction
func withTx[T any](ctx context.Context, dbtx db.DBTX, fn func(q *db.Queries) (T, error)) (T, error) {
	return withPgxTx(ctx, dbtx, func(tx pgx.Tx) (T, error) {
		return fn(db.New(tx))
	})
}

func withPgxTx[T any](ctx context.Context, dbtx db.DBTX, fn func(tx pgx.Tx) (T, error)) (_ T, txErr error) {
	var zero T

	// pgx.Tx is checked first: it can Begin too, but only as a savepoint
	if tx, ok := dbtx.(pgx.Tx); ok {
		return fn(tx)
	}

	pool, ok := dbtx.(*pgxpool.Pool)
	if !ok {
		return zero, fmt.Errorf("dbtx is neither pgx.Tx nor *pgxpool.Pool: %T", dbtx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return zero, fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return zero, fmt.Errorf("tx.Commit: %w", err)
	}

	return result, nil
}
