package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sanusihq/commerce/internal/domain/customer"
	"github.com/sanusihq/commerce/internal/domain/product"
)

// Service is the order and inventory transaction engine. It expects all of
// its dependencies to be bound to one database transaction owned by the
// caller: every row lock it takes and every write it makes lives or dies
// with that transaction.
type Service struct {
	ledger    product.Ledger
	customers customer.Repository
	store     Store
}

// NewService creates an order Service over transaction-scoped dependencies.
func NewService(ledger product.Ledger, customers customer.Repository, store Store) *Service {
	return &Service{
		ledger:    ledger,
		customers: customers,
		store:     store,
	}
}

// CreateRequest holds the input for creating an order. PaymentSummary seeds
// the order's summary document, typically with vat and delivery_fee.
type CreateRequest struct {
	BusinessID     string
	CustomerID     string
	Status         Status // empty means PENDING
	Items          []LineItemRequest
	DeliveryInfo   map[string]any
	PaymentSummary Summary
	Meta           map[string]any
	DeliveryDate   *time.Time
}

// UpdateRequest holds the input for updating an order. Nil Items preserves
// the existing line-item set; nil Status preserves the current status. The
// document fields merge into their stored counterparts.
type UpdateRequest struct {
	BusinessID     string
	OrderID        string
	CustomerID     string
	Status         *Status
	Items          []LineItemRequest
	DeliveryInfo   map[string]any
	PaymentSummary Summary
	Meta           map[string]any
	DeliveryDate   *time.Time
}

// Create validates and persists a new order inside the caller's transaction:
// customer check, code generation, inventory reservation and deduction,
// line-item snapshot, and totals aggregation. Creating directly into
// CANCELLED stores the order without touching inventory.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, errors.Wrapf(ErrUnknownStatus, "%q", status)
	}

	if err := s.checkCustomer(ctx, req.BusinessID, req.CustomerID); err != nil {
		return nil, err
	}

	parsed, err := parseRequests(req.Items)
	if err != nil {
		return nil, err
	}

	code, err := s.nextOrderCode(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}

	summary := req.PaymentSummary
	if summary == nil {
		summary = Summary{}
	}
	now := time.Now().UTC()
	o := &Order{
		ID:             uuid.New().String(),
		Code:           code,
		BusinessID:     req.BusinessID,
		CustomerID:     req.CustomerID,
		Status:         status,
		DeliveryInfo:   req.DeliveryInfo,
		PaymentSummary: summary,
		Meta:           req.Meta,
		DeliveryDate:   req.DeliveryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var plan *Plan
	if status != StatusCancelled {
		plan, err = s.validateAndReserve(ctx, req.BusinessID, parsed)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Insert(ctx, o); err != nil {
		return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "insert order"))
	}

	items := buildLineItems(o.ID, parsed)
	if len(items) > 0 {
		if err := s.store.InsertLineItems(ctx, items); err != nil {
			return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "insert line items"))
		}
	}
	o.Items = items

	if plan != nil {
		if err := s.applyInventory(ctx, plan, Deduct); err != nil {
			return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, err)
		}
	}

	if err := Aggregate(o); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, o); err != nil {
		return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "persist totals"))
	}

	return o, nil
}

// Update applies a status transition and/or line-item replacement to an
// existing order. Inventory side effects follow the transition effect table;
// when the line-item set is replaced between two non-cancelled statuses, the
// old quantities are restored before the new set is validated so the new set
// can reuse the same products against fresh stock.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Order, error) {
	// Locked read: concurrent updates of the same order serialize here, so
	// two racing cancellations cannot both observe the active status and
	// restore stock twice.
	o, err := s.store.GetForUpdate(ctx, req.BusinessID, req.OrderID)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != "" {
		if err := s.checkCustomer(ctx, req.BusinessID, req.CustomerID); err != nil {
			return nil, err
		}
		o.CustomerID = req.CustomerID
	}

	from := o.Status
	to := from
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, errors.Wrapf(ErrUnknownStatus, "%q", *req.Status)
		}
		to = *req.Status
	}

	itemsSupplied := req.Items != nil
	var parsed []lineRequest
	if itemsSupplied {
		parsed, err = parseRequests(req.Items)
		if err != nil {
			return nil, err
		}
	}

	effect := EffectFor(from, to)
	switch {
	case effect.Restore:
		// Entering CANCELLED: everything this order deducted goes back.
		// Line items stay in place as history unless the request replaces
		// them; a replacement while cancelled is a snapshot, not a
		// reservation.
		if err := s.restoreLineItems(ctx, o.Items); err != nil {
			return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, err)
		}
		if itemsSupplied {
			if err := s.replaceLineItems(ctx, o, parsed); err != nil {
				return nil, err
			}
		}

	case effect.Reapply:
		// Leaving CANCELLED: a fresh reservation, either for the supplied
		// set or for the order's existing items.
		reqs := parsed
		if !itemsSupplied {
			reqs = requestsFromItems(o.Items)
		}
		plan, err := s.validateAndReserve(ctx, o.BusinessID, reqs)
		if err != nil {
			return nil, err
		}
		if itemsSupplied {
			if err := s.replaceLineItems(ctx, o, parsed); err != nil {
				return nil, err
			}
		}
		if err := s.applyInventory(ctx, plan, Deduct); err != nil {
			return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, err)
		}

	default:
		switch {
		case itemsSupplied && from != StatusCancelled:
			// Active order, new item set: restore the old quantities first
			// so validation of the new set sees them.
			if err := s.restoreLineItems(ctx, o.Items); err != nil {
				return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, err)
			}
			plan, err := s.validateAndReserve(ctx, o.BusinessID, parsed)
			if err != nil {
				return nil, err
			}
			if err := s.replaceLineItems(ctx, o, parsed); err != nil {
				return nil, err
			}
			if err := s.applyInventory(ctx, plan, Deduct); err != nil {
				return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, err)
			}
		case itemsSupplied:
			// Still CANCELLED: replace the snapshot, inventory untouched.
			if err := s.replaceLineItems(ctx, o, parsed); err != nil {
				return nil, err
			}
		}
	}

	o.Status = to
	o.DeliveryInfo = ApplyDocument("delivery_info", o.DeliveryInfo, req.DeliveryInfo)
	o.PaymentSummary = Summary(ApplyDocument("payment_summary", o.PaymentSummary, req.PaymentSummary))
	o.Meta = ApplyDocument("meta", o.Meta, req.Meta)
	if req.DeliveryDate != nil {
		o.DeliveryDate = req.DeliveryDate
	}

	if itemsSupplied {
		if err := Aggregate(o); err != nil {
			return nil, err
		}
	}

	o.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, o); err != nil {
		return nil, s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "persist order"))
	}

	return o, nil
}

// Get loads an order with its line items, scoped to the business.
func (s *Service) Get(ctx context.Context, businessID, orderID string) (*Order, error) {
	return s.store.GetByID(ctx, businessID, orderID)
}

func (s *Service) checkCustomer(ctx context.Context, businessID, customerID string) error {
	if _, err := s.customers.GetByID(ctx, businessID, customerID); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return &InvalidCustomerError{CustomerID: customerID, BusinessID: businessID}
		}
		return errors.Wrap(err, "lookup customer")
	}
	return nil
}

// replaceLineItems swaps the order's stored line-item set for a new snapshot
// built from parsed requests. Inventory is the caller's concern.
func (s *Service) replaceLineItems(ctx context.Context, o *Order, parsed []lineRequest) error {
	if err := s.store.DeleteLineItems(ctx, o.ID); err != nil {
		return s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "delete line items"))
	}
	items := buildLineItems(o.ID, parsed)
	if len(items) > 0 {
		if err := s.store.InsertLineItems(ctx, items); err != nil {
			return s.unexpected(ctx, o.BusinessID, o.CustomerID, errors.Wrap(err, "insert line items"))
		}
	}
	o.Items = items
	return nil
}

// unexpected logs an internal failure with enough context to trace it and
// hands the error back unchanged. Validation errors never come through here;
// this is for the failures that would corrupt the ledger if swallowed.
func (s *Service) unexpected(ctx context.Context, businessID, customerID string, err error) error {
	zctx.From(ctx).Error("order engine failure",
		zap.String("business_id", businessID),
		zap.String("customer_id", customerID),
		zap.String("error_type", fmt.Sprintf("%T", pkgerrors.Cause(err))),
		zap.Error(err),
	)
	return err
}

func buildLineItems(orderID string, parsed []lineRequest) []LineItem {
	items := make([]LineItem, len(parsed))
	for i, r := range parsed {
		items[i] = LineItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: r.Price,
		}
	}
	return items
}

// requestsFromItems turns committed line items back into reservation
// requests, used when an order leaves CANCELLED with no new items supplied.
func requestsFromItems(items []LineItem) []lineRequest {
	reqs := make([]lineRequest, len(items))
	for i, it := range items {
		reqs[i] = lineRequest{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.UnitPrice}
	}
	return reqs
}
