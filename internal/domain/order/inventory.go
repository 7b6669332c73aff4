package order

import (
	"context"

	"github.com/go-faster/errors"
)

// InventoryMode selects the direction of an inventory mutation.
type InventoryMode int

const (
	// Deduct subtracts reserved quantities from stock on commit.
	Deduct InventoryMode = iota
	// Restore adds quantities back, e.g. on cancellation.
	Restore
)

// applyInventory writes the plan's quantity deltas to the stock ledger.
// It touches only the quantity field and never re-validates: availability and
// price were already checked under the row lock when the plan was built, and
// restores are driven by committed line items which need no checks at all.
// The ledger clamps at zero.
func (s *Service) applyInventory(ctx context.Context, plan *Plan, mode InventoryMode) error {
	for _, r := range plan.Reservations {
		delta := -r.Quantity
		if mode == Restore {
			delta = r.Quantity
		}
		if err := s.ledger.AdjustQuantity(ctx, r.Product.ID, delta); err != nil {
			return errors.Wrapf(err, "adjust quantity for product %s", r.Product.ID)
		}
		r.Product.QuantityOnHand += delta
		if r.Product.QuantityOnHand < 0 {
			r.Product.QuantityOnHand = 0
		}
	}
	return nil
}

// restoreLineItems puts the quantities of committed line items back on the
// shelf. Unlike deduction this needs no lock and no plan: the additive write
// is atomic and a restore can never drive stock negative.
func (s *Service) restoreLineItems(ctx context.Context, items []LineItem) error {
	for _, it := range items {
		if err := s.ledger.AdjustQuantity(ctx, it.ProductID, it.Quantity); err != nil {
			return errors.Wrapf(err, "restore quantity for product %s", it.ProductID)
		}
	}
	return nil
}
