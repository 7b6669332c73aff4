package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sanusihq/commerce/internal/domain/product"
)

// LineItemRequest is a requested order position as it arrives from the
// caller. Price is the raw payload value; it is parsed into an exact decimal
// before any lock is taken.
type LineItemRequest struct {
	ProductID string
	Quantity  int
	Price     string
}

// lineRequest is a LineItemRequest with its price parsed and rounded.
type lineRequest struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// Reservation is one validated position of a reservation plan: the locked
// product and the quantity about to be deducted from it.
type Reservation struct {
	Product  *product.Product
	Quantity int
}

// Plan is the validated, locked set of products and quantities about to be
// deducted for an order. It is only ever built whole: a single invalid line
// aborts the entire request.
type Plan struct {
	Reservations []Reservation
}

// CapturePrice parses a raw monetary value and rounds it to two decimal
// places, half up. All line-item prices pass through here exactly once, at
// the point of capture.
func CapturePrice(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &InvalidPriceFormatError{Field: field, Value: raw}
	}
	return d.Round(2), nil
}

// parseRequests validates shape (positive quantities, unique products) and
// captures prices for a batch of line item requests.
func parseRequests(reqs []LineItemRequest) ([]lineRequest, error) {
	parsed := make([]lineRequest, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i, r := range reqs {
		if r.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: r.ProductID, Quantity: r.Quantity}
		}
		if _, dup := seen[r.ProductID]; dup {
			return nil, &DuplicateLineItemError{ProductID: r.ProductID}
		}
		seen[r.ProductID] = struct{}{}

		price, err := CapturePrice("price", r.Price)
		if err != nil {
			return nil, err
		}
		parsed[i] = lineRequest{ProductID: r.ProductID, Quantity: r.Quantity, Price: price}
	}
	return parsed, nil
}

// validateAndReserve locks every referenced product in request order and
// checks quantity and price feasibility against the locked row. The returned
// plan covers all lines or none; the row locks stay held until the enclosing
// transaction ends either way.
func (s *Service) validateAndReserve(ctx context.Context, businessID string, reqs []lineRequest) (*Plan, error) {
	plan := &Plan{Reservations: make([]Reservation, 0, len(reqs))}

	for _, r := range reqs {
		p, err := s.ledger.GetForUpdate(ctx, businessID, r.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, &InvalidProductError{ProductID: r.ProductID, BusinessID: businessID}
			}
			return nil, err
		}

		if p.QuantityOnHand < r.Quantity {
			return nil, &InsufficientInventoryError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.QuantityOnHand,
				Requested: r.Quantity,
			}
		}

		// Buying below the current catalog price is rejected; at or above is
		// fine (markups, stale clients racing a price drop).
		if r.Price.LessThan(p.Price) {
			return nil, &InvalidPriceError{
				ProductID:      p.ID,
				Name:           p.Name,
				ProductPrice:   p.Price,
				RequestedPrice: r.Price,
			}
		}

		plan.Reservations = append(plan.Reservations, Reservation{Product: p, Quantity: r.Quantity})
	}

	return plan, nil
}
