package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist within the
// requesting business.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item and the unit of the stock ledger. QuantityOnHand
// is the only concurrently shared mutable field in the order engine; it is
// read and written exclusively under a row lock held by the enclosing
// transaction.
type Product struct {
	ID             string
	BusinessID     string
	Name           string
	Description    string
	Price          decimal.Decimal
	QuantityOnHand int
	Active         bool
	Tags           TagSet
}

// Repository defines catalog read operations, always scoped to a business.
type Repository interface {
	List(ctx context.Context, businessID string) ([]Product, error)
	GetByID(ctx context.Context, businessID, id string) (*Product, error)
}

// Ledger defines stock ledger operations. Implementations are bound to the
// enclosing database transaction: GetForUpdate acquires a row lock that is
// held until commit or rollback, and AdjustQuantity must clamp the resulting
// quantity at zero.
type Ledger interface {
	// GetForUpdate returns the product scoped to businessID with its row
	// locked for the rest of the transaction. Returns ErrNotFound when no
	// such product exists in the business.
	GetForUpdate(ctx context.Context, businessID, id string) (*Product, error)

	// AdjustQuantity applies delta (positive or negative) to the product's
	// quantity on hand, clamped so it never drops below zero.
	AdjustQuantity(ctx context.Context, id string, delta int) error
}
