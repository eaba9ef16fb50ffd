// Package booking defines appointments booked by customers.
package booking

import (
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// Booking is an appointment slot reserved for a customer.
type Booking struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	CustomerID  string    `json:"customer_id"`
	ProductID   string    `json:"product_id,omitempty"`
	ServiceName string    `json:"service_name"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a booking.
type CreateRequest struct {
	CustomerID  string    `json:"customer_id"`
	ProductID   string    `json:"product_id"`
	ServiceName string    `json:"service_name"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Notes       string    `json:"notes"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if r.CustomerID == "" {
		return domain.Validation("customer_id is required")
	}
	if r.ServiceName == "" {
		return domain.Validation("service_name is required")
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		return domain.Validation("starts_at and ends_at are required")
	}
	if !r.EndsAt.After(r.StartsAt) {
		return domain.Validation("ends_at must be after starts_at")
	}
	return nil
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Status   *Status    `json:"status,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// Validate checks the request fields.
func (r *UpdateRequest) Validate() error {
	if r.Status != nil && !validStatuses[*r.Status] {
		return domain.Validation("invalid status %q", *r.Status)
	}
	return nil
}

// Apply copies the set fields of r onto b and re-checks the time window.
func (r *UpdateRequest) Apply(b *Booking) error {
	if r.Status != nil {
		b.Status = *r.Status
	}
	if r.StartsAt != nil {
		b.StartsAt = *r.StartsAt
	}
	if r.EndsAt != nil {
		b.EndsAt = *r.EndsAt
	}
	if r.Notes != nil {
		b.Notes = *r.Notes
	}
	if !b.EndsAt.After(b.StartsAt) {
		return domain.Validation("ends_at must be after starts_at")
	}
	return nil
}
