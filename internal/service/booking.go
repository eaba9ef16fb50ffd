package service

import (
	"context"
	"fmt"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/booking"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// BookingService manages the bookings of a tenant.
type BookingService struct {
	store database.Store
	mx    mutator
}

// NewBookingService creates a new BookingService.
func NewBookingService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *BookingService {
	return &BookingService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

func (s *BookingService) List(ctx context.Context, tenantID string) ([]booking.Booking, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListBookings(ctx, tenantID)
}

func (s *BookingService) Get(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetBooking(ctx, tenantID, id)
}

// Create stores a booking. The referenced customer, and product if any, must
// belong to tenantID; one that does not is reported as not found.
func (s *BookingService) Create(ctx context.Context, tenantID string, req *booking.CreateRequest) (*booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntityBooking, tenantID,
		func(ctx context.Context) (*booking.Booking, error) {
			if _, err := s.store.GetCustomer(ctx, tenantID, req.CustomerID); err != nil {
				return nil, fmt.Errorf("customer %s: %w", req.CustomerID, err)
			}
			if req.ProductID != "" {
				if _, err := s.store.GetProduct(ctx, tenantID, req.ProductID); err != nil {
					return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
				}
			}
			return s.store.CreateBooking(ctx, tenantID, req)
		},
		func(b *booking.Booking) string { return b.ID },
	)
}

// Update applies req to booking id. Cancelled bookings are final.
func (s *BookingService) Update(ctx context.Context, tenantID, id string, req *booking.UpdateRequest) (*booking.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, &s.mx, ownedMutation[booking.Booking]{
		entity:   messagequeue.EntityBooking,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*booking.Booking, error) {
			return s.store.LockBooking(ctx, tenantID, id)
		},
		check: func(_ context.Context, b *booking.Booking) error {
			if b.Status == booking.StatusCancelled {
				return domain.BusinessRule("cannot modify a cancelled booking")
			}
			return nil
		},
		apply: func(ctx context.Context, b *booking.Booking) error {
			if err := req.Apply(b); err != nil {
				return err
			}
			return s.store.UpdateBooking(ctx, b)
		},
	})
}

func (s *BookingService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[booking.Booking]{
		entity:   messagequeue.EntityBooking,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*booking.Booking, error) {
			return s.store.LockBooking(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, b *booking.Booking) error {
			return s.store.DeleteBooking(ctx, tenantID, b.ID)
		},
	})
	return err
}
