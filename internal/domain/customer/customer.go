package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a customer does not exist within the
// requesting business.
var ErrNotFound = errors.New("customer not found")

// Customer is a buyer known to a business. Customers are created by the chat
// and support surfaces; the order engine only reads them.
type Customer struct {
	ID          string
	BusinessID  string
	Name        string
	Email       string
	PhoneNumber string
	Platform    string
	CreatedAt   time.Time
}

// Repository defines customer lookups, always scoped to a business.
// Cross-business lookups must fail with ErrNotFound.
type Repository interface {
	GetByID(ctx context.Context, businessID, id string) (*Customer, error)
	List(ctx context.Context, businessID string) ([]Customer, error)
}
