package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanusihq/commerce/internal/domain/customer"
	"github.com/sanusihq/commerce/internal/domain/order"
	"github.com/sanusihq/commerce/internal/domain/product"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid product",
			err:        &order.InvalidProductError{ProductID: "p1", BusinessID: "b1"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInvalidProduct,
		},
		{
			name:       "invalid customer",
			err:        &order.InvalidCustomerError{CustomerID: "c1", BusinessID: "b1"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInvalidCustomer,
		},
		{
			name:       "insufficient inventory",
			err:        &order.InsufficientInventoryError{ProductID: "p1", Name: "Widget", Available: 1, Requested: 3},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInsufficientInventory,
		},
		{
			name: "price below catalog",
			err: &order.InvalidPriceError{
				ProductID:      "p1",
				Name:           "Widget",
				ProductPrice:   decimal.RequireFromString("5.00"),
				RequestedPrice: decimal.RequireFromString("4.00"),
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInvalidPrice,
		},
		{
			name:       "malformed price",
			err:        &order.InvalidPriceFormatError{Field: "price", Value: "abc"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInvalidPriceFormat,
		},
		{
			name:       "non-positive quantity",
			err:        &order.InvalidQuantityError{ProductID: "p1", Quantity: 0},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeInvalidQuantity,
		},
		{
			name:       "duplicate line item",
			err:        &order.DuplicateLineItemError{ProductID: "p1"},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeDuplicateLineItem,
		},
		{
			name:       "unknown status",
			err:        errors.Wrap(order.ErrUnknownStatus, `"SHIPPING"`),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   codeUnknownStatus,
		},
		{
			name:       "order not found",
			err:        order.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   codeNotFound,
		},
		{
			name:       "product not found outside order flow",
			err:        product.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   codeNotFound,
		},
		{
			name:       "customer not found outside order flow",
			err:        customer.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   codeNotFound,
		},
		{
			name:       "lock timeout after retries",
			err:        errors.Wrap(order.ErrLockTimeout, "canceling statement"),
			wantStatus: http.StatusConflict,
			wantCode:   codeConflict,
		},
		{
			name:       "code collision after retries",
			err:        order.ErrDuplicateOrderCode,
			wantStatus: http.StatusConflict,
			wantCode:   codeConflict,
		},
		{
			name:       "unexpected error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   codeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestToLineItemRequests(t *testing.T) {
	assert.Nil(t, toLineItemRequests(nil), "nil items must stay nil to preserve the stored set")

	reqs := toLineItemRequests([]lineItemPayload{
		{ProductID: "p1", Quantity: 2, Price: "5.00"},
		{ProductID: "p2", Quantity: 1, Price: "19.99"},
	})
	require.Len(t, reqs, 2)
	assert.Equal(t, order.LineItemRequest{ProductID: "p1", Quantity: 2, Price: "5.00"}, reqs[0])
	assert.Equal(t, order.LineItemRequest{ProductID: "p2", Quantity: 1, Price: "19.99"}, reqs[1])

	assert.NotNil(t, toLineItemRequests([]lineItemPayload{}), "empty items means clear, not preserve")
}

func TestToOrderResponse(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	o := &order.Order{
		ID:         "o1",
		Code:       "ORD-007",
		BusinessID: "b1",
		CustomerID: "c1",
		Status:     order.StatusPending,
		Items: []order.LineItem{
			{ID: "li1", OrderID: "o1", ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("5")},
		},
		PaymentSummary: order.Summary{"net_total": "15.00", "total": "15.00"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := toOrderResponse(o)
	assert.Equal(t, "ORD-007", resp.Code)
	assert.Equal(t, "PENDING", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "5.00", resp.Items[0].UnitPrice)
	assert.NotNil(t, resp.DeliveryInfo, "absent documents serialize as {}")
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, "15.00", resp.PaymentSummary["total"])
}
