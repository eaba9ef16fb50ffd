package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/product"
)

const productColumns = `id, tenant_id, name, description, price_cents, stock, active, created_at, updated_at`

func scanProduct(row scannable) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context, tenantID string) ([]product.Product, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, tenantID, id string) (*product.Product, error) {
	if err := checkID("product", id); err != nil {
		return nil, err
	}
	p, err := scanProduct(s.q(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get product %s", id)
	}
	return &p, nil
}

func (s *Store) LockProduct(ctx context.Context, tenantID, id string) (*product.Product, error) {
	if err := checkID("product", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "product")
	if err != nil {
		return nil, err
	}
	p, err := scanProduct(q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock product %s", id)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, tenantID string, req *product.CreateRequest) (*product.Product, error) {
	p, err := scanProduct(s.q(ctx).QueryRow(ctx,
		`INSERT INTO products (tenant_id, name, description, price_cents, stock)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		tenantID, req.Name, req.Description, req.PriceCents, req.Stock))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", mapPgError(err))
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *product.Product) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE products SET name = $3, description = $4, price_cents = $5, stock = $6, active = $7, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		p.ID, p.TenantID, p.Name, p.Description, p.PriceCents, p.Stock, p.Active).Scan(&p.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update product %s", p.ID)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, tenantID, id string) error {
	if err := checkID("product", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete product %s", id)
}

// CountProductBookings counts the bookings referencing a product.
func (s *Store) CountProductBookings(ctx context.Context, tenantID, productID string) (int, error) {
	var n int
	err := s.q(ctx).QueryRow(ctx,
		`SELECT count(*) FROM bookings WHERE tenant_id = $1 AND product_id = $2`,
		tenantID, productID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count product bookings: %w", err)
	}
	return n, nil
}
