package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanusihq/commerce/internal/domain/product"
)

func planFor(f *fixture, id string, qty int) *Plan {
	p := *f.ledger.products[id]
	return &Plan{Reservations: []Reservation{{Product: &p, Quantity: qty}}}
}

func TestApplyInventory_DeductAndRestoreRoundTrip(t *testing.T) {
	f := newFixture(newTestProduct("p1", bizA, "Widget", "5.00", 10))

	require.NoError(t, f.svc.applyInventory(context.Background(), planFor(f, "p1", 3), Deduct))
	assert.Equal(t, 7, f.ledger.stock("p1"))

	require.NoError(t, f.svc.applyInventory(context.Background(), planFor(f, "p1", 3), Restore))
	assert.Equal(t, 10, f.ledger.stock("p1"))
}

func TestApplyInventory_ClampsAtZero(t *testing.T) {
	f := newFixture(newTestProduct("p1", bizA, "Widget", "5.00", 2))

	// The mutator does not re-validate; a deduction past zero clamps.
	require.NoError(t, f.svc.applyInventory(context.Background(), planFor(f, "p1", 5), Deduct))

	assert.Equal(t, 0, f.ledger.stock("p1"))
}

func TestApplyInventory_UpdatesPlanSnapshot(t *testing.T) {
	f := newFixture(newTestProduct("p1", bizA, "Widget", "5.00", 10))
	plan := planFor(f, "p1", 4)

	require.NoError(t, f.svc.applyInventory(context.Background(), plan, Deduct))

	assert.Equal(t, 6, plan.Reservations[0].Product.QuantityOnHand)
}

func TestApplyInventory_PropagatesLedgerError(t *testing.T) {
	f := newFixture(newTestProduct("p1", bizA, "Widget", "5.00", 10))
	plan := planFor(f, "p1", 1)
	f.ledger.adjustErr = product.ErrNotFound

	err := f.svc.applyInventory(context.Background(), plan, Deduct)

	require.Error(t, err)
}

func TestRestoreLineItems(t *testing.T) {
	f := newFixture(
		newTestProduct("p1", bizA, "Widget", "5.00", 7),
		newTestProduct("p2", bizA, "Gadget", "3.00", 0),
	)

	items := []LineItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 2},
	}
	require.NoError(t, f.svc.restoreLineItems(context.Background(), items))

	assert.Equal(t, 10, f.ledger.stock("p1"))
	assert.Equal(t, 2, f.ledger.stock("p2"))
}
