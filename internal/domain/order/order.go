package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. The set is closed; any status
// may transition to any other, and only CANCELLED carries inventory side
// effects (see EffectFor).
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// TransitionEffect describes the inventory side effects of a status
// transition: Restore puts the order's deducted quantities back on the shelf,
// Reapply re-validates and re-deducts them as a fresh reservation.
type TransitionEffect struct {
	Restore bool
	Reapply bool
}

// transitionEffects is keyed by (from == CANCELLED, to == CANCELLED).
// Entering CANCELLED restores stock, leaving it re-deducts, and transitions
// that stay on the same side of CANCELLED touch nothing.
var transitionEffects = map[[2]bool]TransitionEffect{
	{false, false}: {},
	{false, true}:  {Restore: true},
	{true, false}:  {Reapply: true},
	{true, true}:   {},
}

// EffectFor returns the inventory effect of transitioning from one status to
// another.
func EffectFor(from, to Status) TransitionEffect {
	return transitionEffects[[2]bool{from == StatusCancelled, to == StatusCancelled}]
}

// UpdatePolicy decides how an updatable order field combines with its stored
// value.
type UpdatePolicy int

const (
	// PolicyOverwrite replaces the stored value wholesale.
	PolicyOverwrite UpdatePolicy = iota
	// PolicyMerge merges incoming keys into the stored document, keeping
	// keys the request did not mention.
	PolicyMerge
)

// FieldPolicies is the per-field update policy table for order updates.
// Document fields merge so that partial updates (a new address line, a
// changed vat) never wipe sibling keys; scalar fields overwrite.
var FieldPolicies = map[string]UpdatePolicy{
	"delivery_info":   PolicyMerge,
	"payment_summary": PolicyMerge,
	"meta":            PolicyMerge,
	"status":          PolicyOverwrite,
	"customer_id":     PolicyOverwrite,
	"delivery_date":   PolicyOverwrite,
}

// ApplyDocument combines an incoming JSON document with the stored one
// according to the named field's policy and returns the result. A nil
// incoming document leaves the stored one untouched.
func ApplyDocument(field string, stored, incoming map[string]any) map[string]any {
	if incoming == nil {
		return stored
	}
	if FieldPolicies[field] != PolicyMerge || stored == nil {
		return incoming
	}
	for k, v := range incoming {
		stored[k] = v
	}
	return stored
}

// LineItem is one product position on an order. UnitPrice is the price
// captured when the item was placed and never tracks later catalog changes.
// An order holds at most one line item per product.
type LineItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is a committed customer order. Code is the human-readable business
// scoped identifier (ORD-001, ORD-002, ...) and is immutable once assigned.
type Order struct {
	ID             string
	Code           string
	BusinessID     string
	CustomerID     string
	Status         Status
	DeliveryInfo   map[string]any
	PaymentSummary Summary
	Meta           map[string]any
	DeliveryDate   *time.Time
	Items          []LineItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Summary is the order's payment summary document. Beyond the four computed
// keys (net_total, vat, delivery_fee, total) it carries whatever the payment
// surface stored; those keys are preserved across aggregation.
type Summary map[string]any

// Monetary values are stored in the summary as fixed two-decimal strings so
// the JSONB round trip stays exact.
const (
	KeyNetTotal    = "net_total"
	KeyVAT         = "vat"
	KeyDeliveryFee = "delivery_fee"
	KeyTotal       = "total"
)

// Decimal reads the named key as an exact decimal. Absent or nil keys read as
// zero. Values may be strings, JSON numbers, or Go numerics; anything else
// fails with InvalidPriceFormatError.
func (s Summary) Decimal(key string) (decimal.Decimal, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return decimal.Zero, nil
	}
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(t)
		if err != nil {
			return decimal.Zero, &InvalidPriceFormatError{Field: key, Value: t}
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero, &InvalidPriceFormatError{Field: key, Value: t.String()}
		}
		return d, nil
	case decimal.Decimal:
		return t, nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	default:
		return decimal.Zero, &InvalidPriceFormatError{Field: key}
	}
}

// Store defines order persistence. Implementations are bound to the
// enclosing database transaction; nothing a Store writes is visible outside
// it until the transaction commits.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	// GetByID loads an order with its line items, scoped to businessID.
	// Returns ErrNotFound when no such order exists in the business.
	GetByID(ctx context.Context, businessID, id string) (*Order, error)
	// GetForUpdate is GetByID with the order row locked for the rest of the
	// transaction, serializing concurrent updates of the same order.
	GetForUpdate(ctx context.Context, businessID, id string) (*Order, error)
	// Update persists the order's mutable fields (customer, status, the JSON
	// documents, delivery date). Code is immutable and never written.
	Update(ctx context.Context, o *Order) error

	InsertLineItems(ctx context.Context, items []LineItem) error
	DeleteLineItems(ctx context.Context, orderID string) error

	// CountCodes returns how many orders in the business carry a code with
	// the given prefix.
	CountCodes(ctx context.Context, businessID, prefix string) (int, error)
	// CodeExists reports whether the exact code is already taken within the
	// business.
	CodeExists(ctx context.Context, businessID, code string) (bool, error)
	// LockCodeSequence serializes code generation for the business until the
	// transaction ends. Returns ErrLockTimeout if the lock cannot be
	// acquired in time.
	LockCodeSequence(ctx context.Context, businessID string) error
}
