// Package tenant defines the tenant domain model for multi-tenancy.
package tenant

import (
	"regexp"
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Tenant is a business account owning a partition of all domain data.
type Tenant struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Status    Status            `json:"status"`
	Settings  map[string]string `json:"settings,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Active reports whether the tenant may serve requests.
func (t *Tenant) Active() bool {
	return t.Status == StatusActive
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateRequest holds the fields required to create a new tenant.
type CreateRequest struct {
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	Settings map[string]string `json:"settings,omitempty"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return domain.Validation("name is required")
	}
	if !slugPattern.MatchString(r.Slug) {
		return domain.Validation("slug must be lowercase letters, digits and dashes")
	}
	return nil
}

// UpdateRequest holds the fields that can be updated on a tenant.
type UpdateRequest struct {
	Name     *string           `json:"name,omitempty"`
	Status   *Status           `json:"status,omitempty"`
	Settings map[string]string `json:"settings,omitempty"`
}

// Validate checks the request fields.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return domain.Validation("name must not be empty")
	}
	if r.Status != nil && *r.Status != StatusActive && *r.Status != StatusSuspended {
		return domain.Validation("status must be active or suspended")
	}
	return nil
}

// Scope is the tenant partition a request may act in, fixed by the isolation
// gate for the lifetime of the request. A Global scope belongs to a platform
// superuser; TenantID is then the tenant selected explicitly, if any.
type Scope struct {
	TenantID string
	Tenant   *Tenant
	Global   bool
}

// Selected reports whether the scope names a concrete tenant.
func (s Scope) Selected() bool {
	return s.TenantID != ""
}
