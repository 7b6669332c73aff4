package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Aggregate recomputes the order's monetary totals from its current line
// items and writes them into the payment summary.
//
// vat and delivery_fee are inputs, read from the summary as supplied by the
// payment surface (absent means zero). net_total is the exact sum of
// unit price times quantity over the line items, and
// total = net_total + vat + delivery_fee. All four are written back as fixed
// two-decimal strings; keys the engine does not own are left alone.
//
// Aggregate is idempotent: with unchanged line items a second call rewrites
// the same values.
func Aggregate(o *Order) error {
	if o.PaymentSummary == nil {
		o.PaymentSummary = Summary{}
	}

	vat, err := o.PaymentSummary.Decimal(KeyVAT)
	if err != nil {
		return errors.Wrap(err, "read vat")
	}
	fee, err := o.PaymentSummary.Decimal(KeyDeliveryFee)
	if err != nil {
		return errors.Wrap(err, "read delivery fee")
	}

	net := decimal.Zero
	for _, it := range o.Items {
		net = net.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	total := net.Add(vat).Add(fee)

	o.PaymentSummary[KeyNetTotal] = net.StringFixed(2)
	o.PaymentSummary[KeyVAT] = vat.StringFixed(2)
	o.PaymentSummary[KeyDeliveryFee] = fee.StringFixed(2)
	o.PaymentSummary[KeyTotal] = total.StringFixed(2)

	return nil
}
