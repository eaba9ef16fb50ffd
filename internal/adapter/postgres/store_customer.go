package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/customer"
)

const customerColumns = `id, tenant_id, name, phone, email, notes, created_at, updated_at`

func scanCustomer(row scannable) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) ListCustomers(ctx context.Context, tenantID string) ([]customer.Customer, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 ORDER BY name, created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []customer.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetCustomer(ctx context.Context, tenantID, id string) (*customer.Customer, error) {
	if err := checkID("customer", id); err != nil {
		return nil, err
	}
	c, err := scanCustomer(s.q(ctx).QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get customer %s", id)
	}
	return &c, nil
}

func (s *Store) LockCustomer(ctx context.Context, tenantID, id string) (*customer.Customer, error) {
	if err := checkID("customer", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "customer")
	if err != nil {
		return nil, err
	}
	c, err := scanCustomer(q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock customer %s", id)
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, tenantID string, req *customer.CreateRequest) (*customer.Customer, error) {
	c, err := scanCustomer(s.q(ctx).QueryRow(ctx,
		`INSERT INTO customers (tenant_id, name, phone, email, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+customerColumns,
		tenantID, req.Name, req.Phone, req.Email, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", mapPgError(err))
	}
	return &c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE customers SET name = $3, phone = $4, email = $5, notes = $6, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		c.ID, c.TenantID, c.Name, c.Phone, c.Email, c.Notes).Scan(&c.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update customer %s", c.ID)
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, tenantID, id string) error {
	if err := checkID("customer", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM customers WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete customer %s", id)
}

// CountCustomerBookings counts the bookings referencing a customer.
func (s *Store) CountCustomerBookings(ctx context.Context, tenantID, customerID string) (int, error) {
	var n int
	err := s.q(ctx).QueryRow(ctx,
		`SELECT count(*) FROM bookings WHERE tenant_id = $1 AND customer_id = $2`,
		tenantID, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count customer bookings: %w", err)
	}
	return n, nil
}
