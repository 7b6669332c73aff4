package handler

import (
	"encoding/json"
	"time"

	"github.com/sanusihq/commerce/internal/domain/customer"
	"github.com/sanusihq/commerce/internal/domain/order"
	"github.com/sanusihq/commerce/internal/domain/product"
)

// Prices travel as JSON strings or numbers; json.Number keeps the exact
// textual form so "19.9999" is rejected by capture instead of being rounded
// through a float first.
type lineItemPayload struct {
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type createOrderPayload struct {
	CustomerID     string            `json:"customer_id"`
	Status         string            `json:"status,omitempty"`
	Items          []lineItemPayload `json:"items"`
	DeliveryInfo   map[string]any    `json:"delivery_info,omitempty"`
	PaymentSummary map[string]any    `json:"payment_summary,omitempty"`
	Meta           map[string]any    `json:"meta,omitempty"`
	DeliveryDate   *time.Time        `json:"delivery_date,omitempty"`
}

// updateOrderPayload is a partial document: absent fields leave the stored
// value alone, and a null items field preserves the line-item set.
type updateOrderPayload struct {
	CustomerID     string            `json:"customer_id,omitempty"`
	Status         *string           `json:"status,omitempty"`
	Items          []lineItemPayload `json:"items,omitempty"`
	DeliveryInfo   map[string]any    `json:"delivery_info,omitempty"`
	PaymentSummary map[string]any    `json:"payment_summary,omitempty"`
	Meta           map[string]any    `json:"meta,omitempty"`
	DeliveryDate   *time.Time        `json:"delivery_date,omitempty"`
}

type lineItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderResponse struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	CustomerID     string             `json:"customer_id"`
	Status         string             `json:"status"`
	Items          []lineItemResponse `json:"items"`
	DeliveryInfo   map[string]any     `json:"delivery_info"`
	PaymentSummary map[string]any     `json:"payment_summary"`
	Meta           map[string]any     `json:"meta"`
	DeliveryDate   *time.Time         `json:"delivery_date,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type productResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Price          string   `json:"price"`
	QuantityOnHand int      `json:"quantity_on_hand"`
	Active         bool     `json:"active"`
	Tags           []string `json:"tags"`
}

type customerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Platform    string    `json:"platform,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLineItemRequests(items []lineItemPayload) []order.LineItemRequest {
	if items == nil {
		return nil
	}
	reqs := make([]order.LineItemRequest, len(items))
	for i, item := range items {
		reqs[i] = order.LineItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		}
	}
	return reqs
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = lineItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		}
	}
	return orderResponse{
		ID:             o.ID,
		Code:           o.Code,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		Items:          items,
		DeliveryInfo:   emptyIfNil(o.DeliveryInfo),
		PaymentSummary: emptyIfNil(map[string]any(o.PaymentSummary)),
		Meta:           emptyIfNil(o.Meta),
		DeliveryDate:   o.DeliveryDate,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toProductResponse(p product.Product) productResponse {
	return productResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price.StringFixed(2),
		QuantityOnHand: p.QuantityOnHand,
		Active:         p.Active,
		Tags:           p.Tags.Slice(),
	}
}

func toCustomerResponse(c customer.Customer) customerResponse {
	return customerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Platform:    c.Platform,
		CreatedAt:   c.CreatedAt,
	}
}

func emptyIfNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
