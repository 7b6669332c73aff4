package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors. The transient pair marks failures that are safe to retry
// wholesale: nothing commits before either can occur.
var (
	// ErrNotFound is returned when an order does not exist within the
	// requesting business.
	ErrNotFound = errors.New("order not found")
	// ErrUnknownStatus is returned for a status outside the closed set.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrDuplicateOrderCode signals a code collision at commit. Transient:
	// retry the whole creation.
	ErrDuplicateOrderCode = errors.New("duplicate order code")
	// ErrLockTimeout signals a lock wait timeout. Transient: retry the whole
	// operation.
	ErrLockTimeout = errors.New("lock acquisition timed out")
)

// IsTransient reports whether err is safe to retry by re-running the entire
// operation in a fresh transaction.
func IsTransient(err error) bool {
	return errors.Is(err, ErrDuplicateOrderCode) || errors.Is(err, ErrLockTimeout)
}

// InvalidProductError indicates a line item referenced a product that does
// not exist or belongs to another business.
type InvalidProductError struct {
	ProductID  string
	BusinessID string
}

func (e *InvalidProductError) Error() string {
	return fmt.Sprintf("product %s not found in business %s", e.ProductID, e.BusinessID)
}

// InvalidCustomerError indicates the referenced customer does not exist or
// belongs to another business.
type InvalidCustomerError struct {
	CustomerID string
	BusinessID string
}

func (e *InvalidCustomerError) Error() string {
	return fmt.Sprintf("customer %s not found in business %s", e.CustomerID, e.BusinessID)
}

// InsufficientInventoryError indicates a product cannot cover the requested
// quantity. Available is the quantity on hand observed under the row lock.
type InsufficientInventoryError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %q: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}

// InvalidPriceError indicates a line item priced below the product's current
// catalog price. Equal or higher prices are accepted.
type InvalidPriceError struct {
	ProductID      string
	Name           string
	ProductPrice   decimal.Decimal
	RequestedPrice decimal.Decimal
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price for product %q: catalog price %s, requested %s",
		e.Name, e.ProductPrice, e.RequestedPrice)
}

// InvalidPriceFormatError indicates a monetary value that could not be
// parsed as an exact decimal.
type InvalidPriceFormatError struct {
	Field string
	Value string
}

func (e *InvalidPriceFormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid price format for %s", e.Field)
	}
	return fmt.Sprintf("invalid price format for %s: %q", e.Field, e.Value)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s, got %d", e.ProductID, e.Quantity)
}

// DuplicateLineItemError indicates the same product appeared twice in one
// request; an order holds at most one line item per product.
type DuplicateLineItemError struct {
	ProductID string
}

func (e *DuplicateLineItemError) Error() string {
	return fmt.Sprintf("product %s appears more than once in the request", e.ProductID)
}
