package postgres

import (
	"context"
	"fmt"

	"github.com/turnolink/turnolink/internal/domain/booking"
)

const bookingColumns = `id, tenant_id, customer_id, COALESCE(product_id::text, ''), service_name,
	starts_at, ends_at, status, notes, created_at, updated_at`

func scanBooking(row scannable) (booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(&b.ID, &b.TenantID, &b.CustomerID, &b.ProductID, &b.ServiceName,
		&b.StartsAt, &b.EndsAt, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *Store) ListBookings(ctx context.Context, tenantID string) ([]booking.Booking, error) {
	rows, err := s.q(ctx).Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE tenant_id = $1 ORDER BY starts_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return orEmpty(out), rows.Err()
}

func (s *Store) GetBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	if err := checkID("booking", id); err != nil {
		return nil, err
	}
	b, err := scanBooking(s.q(ctx).QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "get booking %s", id)
	}
	return &b, nil
}

func (s *Store) LockBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	if err := checkID("booking", id); err != nil {
		return nil, err
	}
	q, err := lockQ(ctx, "booking")
	if err != nil {
		return nil, err
	}
	b, err := scanBooking(q.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID))
	if err != nil {
		return nil, notFoundWrap(err, "lock booking %s", id)
	}
	return &b, nil
}

// CreateBooking inserts a booking. The composite foreign keys reject a
// customer or product that belongs to another tenant.
func (s *Store) CreateBooking(ctx context.Context, tenantID string, req *booking.CreateRequest) (*booking.Booking, error) {
	if err := checkID("customer", req.CustomerID); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if req.ProductID != "" {
		if err := checkID("product", req.ProductID); err != nil {
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}
	b, err := scanBooking(s.q(ctx).QueryRow(ctx,
		`INSERT INTO bookings (tenant_id, customer_id, product_id, service_name, starts_at, ends_at, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+bookingColumns,
		tenantID, req.CustomerID, nullIfEmpty(req.ProductID), req.ServiceName, req.StartsAt, req.EndsAt, req.Notes))
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", mapPgError(err))
	}
	return &b, nil
}

func (s *Store) UpdateBooking(ctx context.Context, b *booking.Booking) error {
	err := s.q(ctx).QueryRow(ctx,
		`UPDATE bookings SET status = $3, starts_at = $4, ends_at = $5, notes = $6, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2 RETURNING updated_at`,
		b.ID, b.TenantID, b.Status, b.StartsAt, b.EndsAt, b.Notes).Scan(&b.UpdatedAt)
	if err != nil {
		return notFoundWrap(err, "update booking %s", b.ID)
	}
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, tenantID, id string) error {
	if err := checkID("booking", id); err != nil {
		return err
	}
	tag, err := s.q(ctx).Exec(ctx, `DELETE FROM bookings WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete booking %s", id)
}
