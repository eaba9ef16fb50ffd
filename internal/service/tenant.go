package service

import (
	"context"
	"log/slog"

	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// TenantInvalidator drops cached tenant state.
type TenantInvalidator interface {
	Invalidate(ctx context.Context, id string) error
}

// TenantService manages the tenant lifecycle. It is reserved for superusers.
type TenantService struct {
	store  database.Store
	cache  TenantInvalidator
	events *EventPublisher
}

// NewTenantService creates a new TenantService.
func NewTenantService(store database.Store, cache TenantInvalidator, events *EventPublisher) *TenantService {
	return &TenantService{store: store, cache: cache, events: events}
}

// Create validates and creates a new tenant.
func (s *TenantService) Create(ctx context.Context, req *tenant.CreateRequest) (*tenant.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	t, err := s.store.CreateTenant(ctx, req)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, messagequeue.EntityTenant, messagequeue.OpCreated, t.ID, t.ID)
	return t, nil
}

// Get returns a tenant by ID.
func (s *TenantService) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, id)
}

// List returns all tenants.
func (s *TenantService) List(ctx context.Context) ([]tenant.Tenant, error) {
	return s.store.ListTenants(ctx)
}

// Update modifies an existing tenant. Suspending a tenant takes effect for
// its members as soon as Update returns.
func (s *TenantService) Update(ctx context.Context, id string, req *tenant.UpdateRequest) (*tenant.Tenant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *tenant.Tenant
	err := s.store.InTx(ctx, "", func(ctx context.Context) error {
		t, err := s.store.LockTenant(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			t.Name = *req.Name
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Settings != nil {
			t.Settings = req.Settings
		}
		if err := s.store.UpdateTenant(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	s.events.Publish(ctx, messagequeue.EntityTenant, messagequeue.OpUpdated, id, id)
	return updated, nil
}

// Delete removes a tenant together with everything it owns. Users keep
// their accounts but lose the affiliation.
func (s *TenantService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTenant(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.events.Publish(ctx, messagequeue.EntityTenant, messagequeue.OpDeleted, id, id)
	return nil
}

func (s *TenantService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		slog.Error("tenant cache invalidation failed", "tenant_id", id, "error", err)
	}
}
