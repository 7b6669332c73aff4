package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrderWithItems() *Order {
	return &Order{
		ID: "o1",
		PaymentSummary: Summary{
			KeyVAT:           "2.50",
			KeyDeliveryFee:   "1.25",
			"payment_method": "transfer",
		},
		Items: []LineItem{
			{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductID: "p2", Quantity: 2, UnitPrice: decimal.RequireFromString("0.10")},
		},
	}
}

func TestAggregate_ExactTotals(t *testing.T) {
	o := testOrderWithItems()

	require.NoError(t, Aggregate(o))

	assert.Equal(t, "15.20", o.PaymentSummary[KeyNetTotal])
	assert.Equal(t, "2.50", o.PaymentSummary[KeyVAT])
	assert.Equal(t, "1.25", o.PaymentSummary[KeyDeliveryFee])
	assert.Equal(t, "18.95", o.PaymentSummary[KeyTotal])
}

// The binary-float classic: 0.1 added ten times must be exactly 1.00.
func TestAggregate_NoFloatDrift(t *testing.T) {
	o := &Order{
		PaymentSummary: Summary{},
		Items: []LineItem{
			{ProductID: "p1", Quantity: 10, UnitPrice: decimal.RequireFromString("0.10")},
		},
	}

	require.NoError(t, Aggregate(o))

	assert.Equal(t, "1.00", o.PaymentSummary[KeyNetTotal])
	assert.Equal(t, "1.00", o.PaymentSummary[KeyTotal])
}

func TestAggregate_TotalIdentity(t *testing.T) {
	o := testOrderWithItems()
	require.NoError(t, Aggregate(o))

	net := decimal.RequireFromString(o.PaymentSummary[KeyNetTotal].(string))
	vat := decimal.RequireFromString(o.PaymentSummary[KeyVAT].(string))
	fee := decimal.RequireFromString(o.PaymentSummary[KeyDeliveryFee].(string))
	total := decimal.RequireFromString(o.PaymentSummary[KeyTotal].(string))

	assert.True(t, total.Equal(net.Add(vat).Add(fee)))
}

func TestAggregate_Idempotent(t *testing.T) {
	o := testOrderWithItems()

	require.NoError(t, Aggregate(o))
	first := make(Summary, len(o.PaymentSummary))
	for k, v := range o.PaymentSummary {
		first[k] = v
	}

	require.NoError(t, Aggregate(o))
	assert.Equal(t, first, o.PaymentSummary)
}

func TestAggregate_PreservesForeignKeys(t *testing.T) {
	o := testOrderWithItems()

	require.NoError(t, Aggregate(o))

	assert.Equal(t, "transfer", o.PaymentSummary["payment_method"])
}

func TestAggregate_DefaultsToZero(t *testing.T) {
	o := &Order{
		Items: []LineItem{
			{ProductID: "p1", Quantity: 1, UnitPrice: decimal.RequireFromString("4.00")},
		},
	}

	require.NoError(t, Aggregate(o))

	assert.Equal(t, "0.00", o.PaymentSummary[KeyVAT])
	assert.Equal(t, "0.00", o.PaymentSummary[KeyDeliveryFee])
	assert.Equal(t, "4.00", o.PaymentSummary[KeyTotal])
}

func TestAggregate_EmptyItems(t *testing.T) {
	o := &Order{PaymentSummary: Summary{KeyVAT: "1.00"}}

	require.NoError(t, Aggregate(o))

	assert.Equal(t, "0.00", o.PaymentSummary[KeyNetTotal])
	assert.Equal(t, "1.00", o.PaymentSummary[KeyTotal])
}

func TestAggregate_BadVATValue(t *testing.T) {
	o := &Order{PaymentSummary: Summary{KeyVAT: "three"}}

	err := Aggregate(o)

	var fmtErr *InvalidPriceFormatError
	require.ErrorAs(t, err, &fmtErr)
	assert.Equal(t, KeyVAT, fmtErr.Field)
}
