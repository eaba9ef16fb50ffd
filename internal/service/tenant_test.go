package service

import (
	"context"
	"errors"
	"testing"

	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/principal"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/domain/user"
)

func TestTenantService_CreateValidatesAndPublishes(t *testing.T) {
	store := newMockStore()
	q := &fakeQueue{}
	svc := NewTenantService(store, nil, NewEventPublisher(q, nil, nil))
	ctx := context.Background()

	if _, err := svc.Create(ctx, &tenant.CreateRequest{Name: "Salon", Slug: "Bad Slug"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	tn, err := svc.Create(ctx, &tenant.CreateRequest{Name: "Salon A", Slug: "salon-a"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tn.Status != tenant.StatusActive {
		t.Errorf("status = %q, want active", tn.Status)
	}
	if q.count() != 1 || q.subjects[0] != "turnolink.tenant.created" {
		t.Errorf("subjects = %v", q.subjects)
	}

	if _, err := svc.Create(ctx, &tenant.CreateRequest{Name: "Again", Slug: "salon-a"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate slug: expected ErrConflict, got %v", err)
	}
}

func TestTenantService_SuspendTakesEffectImmediately(t *testing.T) {
	store := newMockStore()
	tn := store.seedTenant("Salon A", "salon-a", tenant.StatusActive)
	resolver := newTestResolver(t, store)
	q := &fakeQueue{}
	svc := NewTenantService(store, resolver, NewEventPublisher(q, nil, nil))
	ctx := context.Background()
	member := &principal.Principal{UserID: "u1", Role: principal.RoleOwner, TenantID: tn.ID}

	if _, err := resolver.Resolve(ctx, member); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	suspended := tenant.StatusSuspended
	if _, err := svc.Update(ctx, tn.ID, &tenant.UpdateRequest{Status: &suspended}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := resolver.Resolve(ctx, member); !errors.Is(err, ErrTenantSuspended) {
		t.Fatalf("expected ErrTenantSuspended, got %v", err)
	}
	if q.count() != 1 || q.subjects[0] != "turnolink.tenant.updated" {
		t.Errorf("subjects = %v", q.subjects)
	}
}

func TestTenantService_UpdateUnknown(t *testing.T) {
	svc := NewTenantService(newMockStore(), nil, nil)
	name := "X"
	if _, err := svc.Update(context.Background(), "00000000-0000-0000-0000-000000000009", &tenant.UpdateRequest{Name: &name}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTenantService_DeleteLeavesDanglingMembersRejected(t *testing.T) {
	store := newMockStore()
	tn := store.seedTenant("Salon A", "salon-a", tenant.StatusActive)
	c := store.seedCustomer(tn.ID, "Ana")
	resolver := newTestResolver(t, store)
	svc := NewTenantService(store, resolver, nil)
	auth := newTestAuthService(store)
	ctx := context.Background()

	u, err := auth.Register(ctx, &user.CreateRequest{
		Email: "owner@example.com", Name: "Owner", Password: "Password123",
		Role: principal.RoleOwner, TenantID: tn.ID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	// The member holds a token issued before the delete.
	member := u.Principal()
	if _, err := resolver.Resolve(ctx, member); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := svc.Delete(ctx, tn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := resolver.Resolve(ctx, member); !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
	if _, err := store.GetCustomer(ctx, tn.ID, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("owned rows must be gone: %v", err)
	}
	got, err := store.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("user must survive: %v", err)
	}
	if got.TenantID != "" {
		t.Errorf("user tenant = %q, want detached", got.TenantID)
	}
	if err := svc.Delete(ctx, tn.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSuperuser_OperatesAcrossTenants(t *testing.T) {
	f := newTwoTenants()
	resolver := newTestResolver(t, f.store)
	customers := NewCustomerService(f.store, f.events(), nil)
	ctx := context.Background()
	root := &principal.Principal{UserID: "root", Role: principal.RoleSuperAdmin}

	scope, err := resolver.Resolve(ctx, root)
	if err != nil || !scope.Global || scope.Selected() {
		t.Fatalf("scope = %+v, err = %v", scope, err)
	}

	ca := f.store.seedCustomer(f.a.ID, "Ana")
	cb := f.store.seedCustomer(f.b.ID, "Bruno")
	for _, target := range []struct{ tenantID, id string }{{f.a.ID, ca.ID}, {f.b.ID, cb.ID}} {
		selected, err := resolver.Select(ctx, target.tenantID)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := customers.Delete(ctx, selected.TenantID, target.id); err != nil {
			t.Fatalf("superuser delete in %s: %v", target.tenantID, err)
		}
	}
	if f.store.customerCount() != 0 {
		t.Errorf("customers = %d, want 0", f.store.customerCount())
	}
}
