// Package engine owns the transaction boundary around order processing: each
// operation runs the domain service inside a single database transaction with
// a bounded lock timeout, and transient failures (lock waits, order-code
// collisions) are retried on a fresh transaction.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sanusihq/commerce/internal/domain/order"
	"github.com/sanusihq/commerce/internal/repository"
)

const (
	defaultMaxAttempts = 3
	defaultLockTimeout = 3 * time.Second
)

// Config tunes transaction behavior. Zero values fall back to defaults.
type Config struct {
	LockTimeout time.Duration
	MaxAttempts int
}

type Engine struct {
	pool        *pgxpool.Pool
	maxAttempts int
	lockTimeout time.Duration
}

func New(pool *pgxpool.Pool, cfg Config) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = defaultLockTimeout
	}
	return &Engine{
		pool:        pool,
		maxAttempts: cfg.MaxAttempts,
		lockTimeout: cfg.LockTimeout,
	}
}

// CreateOrder runs order creation in its own transaction.
func (e *Engine) CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	return e.run(ctx, func(svc *order.Service) (*order.Order, error) {
		return svc.Create(ctx, req)
	})
}

// UpdateOrder runs an order update in its own transaction.
func (e *Engine) UpdateOrder(ctx context.Context, req order.UpdateRequest) (*order.Order, error) {
	return e.run(ctx, func(svc *order.Service) (*order.Order, error) {
		return svc.Update(ctx, req)
	})
}

// GetOrder is a plain read and does not need a transaction.
func (e *Engine) GetOrder(ctx context.Context, businessID, orderID string) (*order.Order, error) {
	return repository.NewOrderStore(e.pool).GetByID(ctx, businessID, orderID)
}

func (e *Engine) run(ctx context.Context, fn func(svc *order.Service) (*order.Order, error)) (*order.Order, error) {
	var out *order.Order
	for attempt := 1; ; attempt++ {
		err := repository.InTx(ctx, e.pool, func(tx pgx.Tx) error {
			// SET does not take bind parameters. lock_timeout bounds both
			// row locks and the code-sequence advisory lock; exceeding it
			// surfaces as 55P03 and maps to order.ErrLockTimeout.
			setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", e.lockTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, setTimeout); err != nil {
				return err
			}

			products := repository.NewProductRepository(tx)
			customers := repository.NewCustomerRepository(tx)
			store := repository.NewOrderStore(tx)

			res, err := fn(order.NewService(products, customers, store))
			if err != nil {
				return err
			}
			out = res
			return nil
		})
		if err == nil {
			return out, nil
		}
		if order.IsTransient(err) && attempt < e.maxAttempts {
			zctx.From(ctx).Warn("retrying order transaction",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		return nil, err
	}
}
