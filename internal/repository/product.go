package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sanusihq/commerce/internal/domain/product"
)

const (
	listProductsSQL = `
		SELECT id, business_id, name, description, price, quantity_on_hand, active, tags
		FROM products
		WHERE business_id = $1
		ORDER BY name`

	getProductSQL = `
		SELECT id, business_id, name, description, price, quantity_on_hand, active, tags
		FROM products
		WHERE business_id = $1 AND id = $2`

	getProductForUpdateSQL = getProductSQL + `
		FOR UPDATE`

	adjustQuantitySQL = `
		UPDATE products
		SET quantity_on_hand = GREATEST(quantity_on_hand + $2, 0),
		    updated_at = now()
		WHERE id = $1`
)

// ProductRepository serves catalog reads and, when constructed over a
// transaction, acts as the stock ledger for order processing.
type ProductRepository struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

var (
	_ product.Repository = (*ProductRepository)(nil)
	_ product.Ledger     = (*ProductRepository)(nil)
)

func (r *ProductRepository) List(ctx context.Context, businessID string) ([]product.Product, error) {
	rows, err := r.q.Query(ctx, listProductsSQL, businessID)
	if err != nil {
		return nil, errors.Wrap(err, "query products")
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, businessID, id string) (*product.Product, error) {
	return r.get(ctx, getProductSQL, businessID, id)
}

// GetForUpdate loads a product row under a row-level lock. The caller must
// hold an open transaction for the lock to mean anything.
func (r *ProductRepository) GetForUpdate(ctx context.Context, businessID, id string) (*product.Product, error) {
	return r.get(ctx, getProductForUpdateSQL, businessID, id)
}

func (r *ProductRepository) get(ctx context.Context, query, businessID, id string) (*product.Product, error) {
	rows, err := r.q.Query(ctx, query, businessID, id)
	if err != nil {
		return nil, errors.Wrap(mapPgError(err), "query product")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(mapPgError(err), "query product")
		}
		return nil, product.ErrNotFound
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, errors.Wrap(err, "scan product")
	}
	return &p, nil
}

// AdjustQuantity shifts quantity_on_hand by delta, clamping at zero.
func (r *ProductRepository) AdjustQuantity(ctx context.Context, id string, delta int) error {
	tag, err := r.q.Exec(ctx, adjustQuantitySQL, id, delta)
	if err != nil {
		return errors.Wrap(mapPgError(err), "adjust quantity")
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
		tags  []string
	)
	if err := row.Scan(&p.ID, &p.BusinessID, &p.Name, &p.Description, &price, &p.QuantityOnHand, &p.Active, &tags); err != nil {
		return product.Product{}, err
	}
	p.Price = price
	p.Tags = product.NewTagSet(tags...)
	return p, nil
}
