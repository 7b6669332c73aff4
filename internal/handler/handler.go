// Package handler exposes the order engine over HTTP. All routes are scoped
// by business: the business identifier comes from the URL, standing in for
// whatever authentication surface fronts this service.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanusihq/commerce/internal/domain/customer"
	"github.com/sanusihq/commerce/internal/domain/order"
	"github.com/sanusihq/commerce/internal/domain/product"
	"github.com/sanusihq/commerce/internal/engine"
)

type Handler struct {
	engine    *engine.Engine
	products  product.Repository
	customers customer.Repository
}

func New(engine *engine.Engine, products product.Repository, customers customer.Repository) *Handler {
	return &Handler{
		engine:    engine,
		products:  products,
		customers: customers,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/businesses/{businessID}", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)
		r.Get("/customers", h.listCustomers)
		r.Get("/customers/{customerID}", h.getCustomer)
		r.Post("/orders", h.createOrder)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Patch("/orders/{orderID}", h.updateOrder)
	})
	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload createOrderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: codeBadRequest, Message: err.Error()})
		return
	}

	o, err := h.engine.CreateOrder(r.Context(), order.CreateRequest{
		BusinessID:     chi.URLParam(r, "businessID"),
		CustomerID:     payload.CustomerID,
		Status:         order.Status(payload.Status),
		Items:          toLineItemRequests(payload.Items),
		DeliveryInfo:   payload.DeliveryInfo,
		PaymentSummary: payload.PaymentSummary,
		Meta:           payload.Meta,
		DeliveryDate:   payload.DeliveryDate,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.engine.GetOrder(r.Context(), chi.URLParam(r, "businessID"), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var payload updateOrderPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: codeBadRequest, Message: err.Error()})
		return
	}

	req := order.UpdateRequest{
		BusinessID:     chi.URLParam(r, "businessID"),
		OrderID:        chi.URLParam(r, "orderID"),
		CustomerID:     payload.CustomerID,
		Items:          toLineItemRequests(payload.Items),
		DeliveryInfo:   payload.DeliveryInfo,
		PaymentSummary: payload.PaymentSummary,
		Meta:           payload.Meta,
		DeliveryDate:   payload.DeliveryDate,
	}
	if payload.Status != nil {
		status := order.Status(*payload.Status)
		req.Status = &status
	}

	o, err := h.engine.UpdateOrder(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), chi.URLParam(r, "businessID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "businessID"), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetByID(r.Context(), chi.URLParam(r, "businessID"), chi.URLParam(r, "customerID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*c))
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context(), chi.URLParam(r, "businessID"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	out := make([]customerResponse, len(customers))
	for i, c := range customers {
		out[i] = toCustomerResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	// Keeps numeric prices textual for exact decimal capture.
	dec.UseNumber()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
