package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sanusihq/commerce/internal/domain/order"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (id, code, business_id, customer_id, status,
			delivery_info, payment_summary, meta, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	getOrderSQL = `
		SELECT id, code, business_id, customer_id, status,
			delivery_info, payment_summary, meta, delivery_date, created_at, updated_at
		FROM orders
		WHERE business_id = $1 AND id = $2`

	getOrderForUpdateSQL = getOrderSQL + `
		FOR UPDATE`

	updateOrderSQL = `
		UPDATE orders
		SET customer_id = $2, status = $3, delivery_info = $4,
			payment_summary = $5, meta = $6, delivery_date = $7, updated_at = $8
		WHERE id = $1`

	insertLineItemSQL = `
		INSERT INTO order_line_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`

	deleteLineItemsSQL = `
		DELETE FROM order_line_items
		WHERE order_id = $1`

	listLineItemsSQL = `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY id`

	countCodesSQL = `
		SELECT count(*)
		FROM orders
		WHERE business_id = $1 AND code LIKE $2 || '%'`

	codeExistsSQL = `
		SELECT EXISTS (
			SELECT 1 FROM orders WHERE business_id = $1 AND code = $2
		)`

	// Transaction-scoped advisory lock keyed per business, so code probing
	// in concurrent transactions is serialized without blocking other
	// businesses. Released automatically at commit or rollback.
	lockCodeSequenceSQL = `
		SELECT pg_advisory_xact_lock(hashtext('order_code:' || $1))`
)

// OrderStore persists orders and their line items. Writes assume the caller
// runs it over a transaction; reads work over the pool as well.
type OrderStore struct {
	q Querier
}

func NewOrderStore(q Querier) *OrderStore {
	return &OrderStore{q: q}
}

var _ order.Store = (*OrderStore)(nil)

func (s *OrderStore) Insert(ctx context.Context, o *order.Order) error {
	deliveryInfo, paymentSummary, meta, err := marshalDocuments(o)
	if err != nil {
		return err
	}
	_, err = s.q.Exec(ctx, insertOrderSQL,
		o.ID, o.Code, o.BusinessID, o.CustomerID, string(o.Status),
		deliveryInfo, paymentSummary, meta, o.DeliveryDate, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(mapPgError(err), "insert order")
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, businessID, id string) (*order.Order, error) {
	return s.getOrder(ctx, getOrderSQL, businessID, id)
}

// GetForUpdate locks the order row until the transaction ends. The caller
// must hold an open transaction.
func (s *OrderStore) GetForUpdate(ctx context.Context, businessID, id string) (*order.Order, error) {
	return s.getOrder(ctx, getOrderForUpdateSQL, businessID, id)
}

func (s *OrderStore) getOrder(ctx context.Context, query, businessID, id string) (*order.Order, error) {
	rows, err := s.q.Query(ctx, query, businessID, id)
	if err != nil {
		return nil, errors.Wrap(mapPgError(err), "query order")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(mapPgError(err), "query order")
		}
		return nil, order.ErrNotFound
	}

	var (
		o              order.Order
		status         string
		deliveryInfo   []byte
		paymentSummary []byte
		meta           []byte
	)
	err = rows.Scan(&o.ID, &o.Code, &o.BusinessID, &o.CustomerID, &status,
		&deliveryInfo, &paymentSummary, &meta, &o.DeliveryDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "scan order")
	}
	rows.Close()

	o.Status = order.Status(status)
	if err := unmarshalDocuments(&o, deliveryInfo, paymentSummary, meta); err != nil {
		return nil, err
	}

	items, err := s.listLineItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderStore) Update(ctx context.Context, o *order.Order) error {
	deliveryInfo, paymentSummary, meta, err := marshalDocuments(o)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, updateOrderSQL,
		o.ID, o.CustomerID, string(o.Status),
		deliveryInfo, paymentSummary, meta, o.DeliveryDate, o.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(mapPgError(err), "update order")
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (s *OrderStore) InsertLineItems(ctx context.Context, items []order.LineItem) error {
	for _, item := range items {
		_, err := s.q.Exec(ctx, insertLineItemSQL,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return errors.Wrap(mapPgError(err), "insert line item")
		}
	}
	return nil
}

func (s *OrderStore) DeleteLineItems(ctx context.Context, orderID string) error {
	_, err := s.q.Exec(ctx, deleteLineItemsSQL, orderID)
	if err != nil {
		return errors.Wrap(err, "delete line items")
	}
	return nil
}

func (s *OrderStore) CountCodes(ctx context.Context, businessID, prefix string) (int, error) {
	var count int
	if err := s.q.QueryRow(ctx, countCodesSQL, businessID, prefix).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count order codes")
	}
	return count, nil
}

func (s *OrderStore) CodeExists(ctx context.Context, businessID, code string) (bool, error) {
	var exists bool
	if err := s.q.QueryRow(ctx, codeExistsSQL, businessID, code).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "check order code")
	}
	return exists, nil
}

func (s *OrderStore) LockCodeSequence(ctx context.Context, businessID string) error {
	if _, err := s.q.Exec(ctx, lockCodeSequenceSQL, businessID); err != nil {
		return errors.Wrap(mapPgError(err), "lock code sequence")
	}
	return nil
}

func (s *OrderStore) listLineItems(ctx context.Context, orderID string) ([]order.LineItem, error) {
	rows, err := s.q.Query(ctx, listLineItemsSQL, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "query line items")
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var (
			item  order.LineItem
			price decimal.Decimal
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &price); err != nil {
			return nil, errors.Wrap(err, "scan line item")
		}
		item.UnitPrice = price
		items = append(items, item)
	}
	return items, rows.Err()
}

func marshalDocuments(o *order.Order) (deliveryInfo, paymentSummary, meta []byte, err error) {
	if deliveryInfo, err = json.Marshal(orEmpty(o.DeliveryInfo)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "marshal delivery info")
	}
	if paymentSummary, err = json.Marshal(orEmpty(o.PaymentSummary)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "marshal payment summary")
	}
	if meta, err = json.Marshal(orEmpty(o.Meta)); err != nil {
		return nil, nil, nil, errors.Wrap(err, "marshal meta")
	}
	return deliveryInfo, paymentSummary, meta, nil
}

func unmarshalDocuments(o *order.Order, deliveryInfo, paymentSummary, meta []byte) error {
	if err := unmarshalDocument(deliveryInfo, &o.DeliveryInfo); err != nil {
		return errors.Wrap(err, "unmarshal delivery info")
	}
	if err := unmarshalDocument(paymentSummary, &o.PaymentSummary); err != nil {
		return errors.Wrap(err, "unmarshal payment summary")
	}
	if err := unmarshalDocument(meta, &o.Meta); err != nil {
		return errors.Wrap(err, "unmarshal meta")
	}
	return nil
}

// unmarshalDocument keeps numerics textual (json.Number) so stored monetary
// values never pass through float64 on their way to decimal parsing.
func unmarshalDocument(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func orEmpty[M ~map[string]any](m M) M {
	if m == nil {
		return M{}
	}
	return m
}
