package http

import (
	"context"
	"net/http"

	"github.com/turnolink/turnolink/internal/domain/blockeddate"
	"github.com/turnolink/turnolink/internal/domain/booking"
	"github.com/turnolink/turnolink/internal/domain/customer"
	"github.com/turnolink/turnolink/internal/domain/media"
	"github.com/turnolink/turnolink/internal/domain/product"
	"github.com/turnolink/turnolink/internal/domain/schedule"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/domain/user"
	"github.com/turnolink/turnolink/internal/middleware"
)

// Authenticator issues access tokens and registers accounts.
type Authenticator interface {
	Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error)
	Register(ctx context.Context, req *user.CreateRequest) (*user.User, error)
}

// TenantAdmin manages tenants on behalf of a platform superuser.
type TenantAdmin interface {
	List(ctx context.Context) ([]tenant.Tenant, error)
	Get(ctx context.Context, id string) (*tenant.Tenant, error)
	Create(ctx context.Context, req *tenant.CreateRequest) (*tenant.Tenant, error)
	Update(ctx context.Context, id string, req *tenant.UpdateRequest) (*tenant.Tenant, error)
	Delete(ctx context.Context, id string) error
}

// Handlers holds the service dependencies of the HTTP handlers.
type Handlers struct {
	Auth         Authenticator
	Tenants      TenantAdmin
	Customers    TenantResource[customer.Customer, customer.CreateRequest, customer.UpdateRequest]
	Bookings     TenantResource[booking.Booking, booking.CreateRequest, booking.UpdateRequest]
	Schedules    TenantResource[schedule.Schedule, schedule.CreateRequest, schedule.UpdateRequest]
	BlockedDates TenantResource[blockeddate.BlockedDate, blockeddate.CreateRequest, blockeddate.UpdateRequest]
	Products     TenantResource[product.Product, product.CreateRequest, product.UpdateRequest]
	Media        TenantResource[media.Asset, media.CreateRequest, media.UpdateRequest]
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if p == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// CurrentTenant handles GET /api/v1/tenant and returns the tenant the
// request is scoped to.
func (h *Handlers) CurrentTenant(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.ScopeFromContext(r.Context())
	if !ok || scope.Tenant == nil {
		writeError(w, http.StatusBadRequest, "tenant selection required")
		return
	}
	writeJSON(w, http.StatusOK, scope.Tenant)
}

// ---------------------------------------------------------------------------
// Superuser routes
// ---------------------------------------------------------------------------

// ListTenants handles GET /api/v1/admin/tenants
func (h *Handlers) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Tenants.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err, "not found")
		return
	}
	if tenants == nil {
		tenants = []tenant.Tenant{}
	}
	writeJSON(w, http.StatusOK, tenants)
}

// GetTenant handles GET /api/v1/admin/tenants/{id}
func (h *Handlers) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tenants.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTenant handles POST /api/v1/admin/tenants
func (h *Handlers) CreateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.CreateRequest](w, r)
	if !ok {
		return
	}
	t, err := h.Tenants.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTenant handles PUT /api/v1/admin/tenants/{id}
func (h *Handlers) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[tenant.UpdateRequest](w, r)
	if !ok {
		return
	}
	t, err := h.Tenants.Update(r.Context(), urlParam(r, "id"), &req)
	if err != nil {
		writeDomainError(w, r, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTenant handles DELETE /api/v1/admin/tenants/{id}
func (h *Handlers) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.Tenants.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, r, err, "tenant not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUser handles POST /api/v1/admin/users
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}
	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, "tenant not found")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}
