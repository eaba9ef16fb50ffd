// Package customer defines the Customer entity owned by a tenant.
package customer

import (
	"net/mail"
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Customer is a person who books appointments or buys from a tenant.
type Customer struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a customer.
type CreateRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return domain.Validation("name is required")
	}
	if r.Phone == "" {
		return domain.Validation("phone is required")
	}
	return validateEmail(r.Email)
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// Validate checks the request fields.
func (r *UpdateRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return domain.Validation("name must not be empty")
	}
	if r.Phone != nil && *r.Phone == "" {
		return domain.Validation("phone must not be empty")
	}
	if r.Email != nil {
		return validateEmail(*r.Email)
	}
	return nil
}

// Apply copies the set fields of r onto c.
func (r *UpdateRequest) Apply(c *Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Validation("invalid email format")
	}
	return nil
}
