package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/sanusihq/commerce/internal/domain/customer"
)

const (
	listCustomersSQL = `
		SELECT id, business_id, name, email, phone_number, platform, created_at
		FROM customers
		WHERE business_id = $1
		ORDER BY created_at`

	getCustomerSQL = `
		SELECT id, business_id, name, email, phone_number, platform, created_at
		FROM customers
		WHERE business_id = $1 AND id = $2`
)

type CustomerRepository struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepository {
	return &CustomerRepository{q: q}
}

var _ customer.Repository = (*CustomerRepository)(nil)

func (r *CustomerRepository) List(ctx context.Context, businessID string) ([]customer.Customer, error) {
	rows, err := r.q.Query(ctx, listCustomersSQL, businessID)
	if err != nil {
		return nil, errors.Wrap(err, "query customers")
	}
	defer rows.Close()

	var customers []customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) GetByID(ctx context.Context, businessID, id string) (*customer.Customer, error) {
	rows, err := r.q.Query(ctx, getCustomerSQL, businessID, id)
	if err != nil {
		return nil, errors.Wrap(err, "query customer")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "query customer")
		}
		return nil, customer.ErrNotFound
	}
	c, err := scanCustomer(rows)
	if err != nil {
		return nil, errors.Wrap(err, "scan customer")
	}
	return &c, nil
}

func scanCustomer(row pgx.Row) (customer.Customer, error) {
	var c customer.Customer
	if err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Email, &c.PhoneNumber, &c.Platform, &c.CreatedAt); err != nil {
		return customer.Customer{}, err
	}
	return c, nil
}
