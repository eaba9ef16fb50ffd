// Package user defines the login identity behind a Principal.
package user

import (
	"errors"
	"net/mail"
	"time"

	"github.com/turnolink/turnolink/internal/domain/principal"
)

// User is a dashboard account. Tenant members carry a TenantID; platform
// superusers usually do not.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"` // never serialized
	Role         principal.Role `json:"role"`
	TenantID     string         `json:"tenant_id,omitempty"`
	Enabled      bool           `json:"enabled"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Principal returns the request identity for u.
func (u *User) Principal() *principal.Principal {
	return &principal.Principal{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		TenantID: u.TenantID,
	}
}

// CreateRequest is the input for registering a new user.
type CreateRequest struct {
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Password string         `json:"password"` //nolint:gosec // request field, not a hardcoded secret
	Role     principal.Role `json:"role"`
	TenantID string         `json:"tenant_id"`
}

// Validate checks that the CreateRequest has all required fields.
func (r *CreateRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("invalid email format")
	}
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !principal.ValidRoles[r.Role] {
		return errors.New("invalid role: must be OWNER, STAFF, or SUPER_ADMIN")
	}
	if r.Role != principal.RoleSuperAdmin && r.TenantID == "" {
		return errors.New("tenant_id is required for tenant members")
	}
	return nil
}

// LoginRequest is the input for user authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field, not a hardcoded secret
}

// Validate checks that the LoginRequest has all required fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// LoginResponse is returned after successful authentication.
type LoginResponse struct {
	AccessToken string `json:"access_token"` //nolint:gosec // response field, not a hardcoded secret
	ExpiresIn   int    `json:"expires_in"`   // seconds until access token expires
	User        User   `json:"user"`
}
