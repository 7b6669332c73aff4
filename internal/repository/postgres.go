package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanusihq/commerce/db"
	"github.com/sanusihq/commerce/internal/domain/order"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository types serve pooled reads and transaction-scoped writes.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPool creates a pgxpool.Pool configured with shopspring/decimal support
// for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// InTx runs fn inside a transaction, rolling back on error and on panic.
func InTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Postgres error codes the engine turns into domain errors.
const (
	pgUniqueViolation  = "23505"
	pgLockNotAvailable = "55P03"
)

// mapPgError translates driver errors the engine can act on into domain
// sentinels: lock wait timeouts and order-code collisions are transient and
// retried by the caller.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgLockNotAvailable:
		return errors.Wrap(order.ErrLockTimeout, pgErr.Message)
	case pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "code"):
		return errors.Wrap(order.ErrDuplicateOrderCode, pgErr.ConstraintName)
	}
	return err
}
