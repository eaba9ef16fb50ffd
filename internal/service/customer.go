package service

import (
	"context"
	"fmt"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/customer"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// CustomerService manages the customers of a tenant.
type CustomerService struct {
	store database.Store
	mx    mutator
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *CustomerService {
	return &CustomerService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

// List returns all customers of tenantID.
func (s *CustomerService) List(ctx context.Context, tenantID string) ([]customer.Customer, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListCustomers(ctx, tenantID)
}

// Get returns customer id of tenantID.
func (s *CustomerService) Get(ctx context.Context, tenantID, id string) (*customer.Customer, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetCustomer(ctx, tenantID, id)
}

// Create validates and stores a new customer.
func (s *CustomerService) Create(ctx context.Context, tenantID string, req *customer.CreateRequest) (*customer.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntityCustomer, tenantID,
		func(ctx context.Context) (*customer.Customer, error) {
			return s.store.CreateCustomer(ctx, tenantID, req)
		},
		func(c *customer.Customer) string { return c.ID },
	)
}

// Update applies req to customer id after verifying it belongs to tenantID.
func (s *CustomerService) Update(ctx context.Context, tenantID, id string, req *customer.UpdateRequest) (*customer.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return mutateOwned(ctx, &s.mx, ownedMutation[customer.Customer]{
		entity:   messagequeue.EntityCustomer,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*customer.Customer, error) {
			return s.store.LockCustomer(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, c *customer.Customer) error {
			req.Apply(c)
			return s.store.UpdateCustomer(ctx, c)
		},
	})
}

// Delete removes customer id. A customer that still has bookings is kept.
func (s *CustomerService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[customer.Customer]{
		entity:   messagequeue.EntityCustomer,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*customer.Customer, error) {
			return s.store.LockCustomer(ctx, tenantID, id)
		},
		check: func(ctx context.Context, c *customer.Customer) error {
			n, err := s.store.CountCustomerBookings(ctx, tenantID, c.ID)
			if err != nil {
				return fmt.Errorf("count bookings: %w", err)
			}
			if n > 0 {
				return domain.BusinessRule("cannot delete customer with existing bookings")
			}
			return nil
		},
		apply: func(ctx context.Context, c *customer.Customer) error {
			return s.store.DeleteCustomer(ctx, tenantID, c.ID)
		},
	})
	return err
}
