package handler

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sanusihq/commerce/internal/domain/customer"
	"github.com/sanusihq/commerce/internal/domain/order"
	"github.com/sanusihq/commerce/internal/domain/product"
)

// Stable machine-readable codes carried in error responses. Clients branch
// on these, not on the message text.
const (
	codeInvalidProduct        = "INVALID_PRODUCT"
	codeInvalidCustomer       = "INVALID_CUSTOMER"
	codeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	codeInvalidPrice          = "INVALID_PRICE"
	codeInvalidPriceFormat    = "INVALID_PRICE_FORMAT"
	codeInvalidQuantity       = "INVALID_QUANTITY"
	codeDuplicateLineItem     = "DUPLICATE_LINE_ITEM"
	codeUnknownStatus         = "UNKNOWN_STATUS"
	codeNotFound              = "NOT_FOUND"
	codeConflict              = "CONFLICT"
	codeBadRequest            = "BAD_REQUEST"
	codeInternal              = "INTERNAL"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		zctx.From(ctx).Error("request failed", zap.Error(err))
		// Do not leak internals.
		writeJSON(w, status, errorResponse{Code: code, Message: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func classify(err error) (int, string) {
	var (
		invalidProduct *order.InvalidProductError
		invalidCust    *order.InvalidCustomerError
		insufficient   *order.InsufficientInventoryError
		invalidPrice   *order.InvalidPriceError
		badPriceFormat *order.InvalidPriceFormatError
		badQuantity    *order.InvalidQuantityError
		dupLineItem    *order.DuplicateLineItemError
	)
	switch {
	case errors.As(err, &invalidProduct):
		return http.StatusUnprocessableEntity, codeInvalidProduct
	case errors.As(err, &invalidCust):
		return http.StatusUnprocessableEntity, codeInvalidCustomer
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, codeInsufficientInventory
	case errors.As(err, &invalidPrice):
		return http.StatusUnprocessableEntity, codeInvalidPrice
	case errors.As(err, &badPriceFormat):
		return http.StatusUnprocessableEntity, codeInvalidPriceFormat
	case errors.As(err, &badQuantity):
		return http.StatusUnprocessableEntity, codeInvalidQuantity
	case errors.As(err, &dupLineItem):
		return http.StatusUnprocessableEntity, codeDuplicateLineItem
	case errors.Is(err, order.ErrUnknownStatus):
		return http.StatusUnprocessableEntity, codeUnknownStatus
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, customer.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case order.IsTransient(err):
		// Retries inside the engine are exhausted at this point.
		return http.StatusConflict, codeConflict
	}
	return http.StatusInternalServerError, codeInternal
}
