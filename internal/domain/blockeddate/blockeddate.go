// Package blockeddate defines days on which a tenant takes no bookings.
package blockeddate

import (
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// DateLayout is the wire format of a blocked day.
const DateLayout = "2006-01-02"

// BlockedDate closes a single calendar day.
type BlockedDate struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to block a day.
type CreateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return domain.Validation("date must be YYYY-MM-DD")
	}
	return nil
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Date   *string `json:"date,omitempty"`
	Reason *string `json:"reason,omitempty"`
}

// Validate checks the request fields.
func (r *UpdateRequest) Validate() error {
	if r.Date != nil {
		if _, err := time.Parse(DateLayout, *r.Date); err != nil {
			return domain.Validation("date must be YYYY-MM-DD")
		}
	}
	return nil
}

// Apply copies the set fields of r onto b.
func (r *UpdateRequest) Apply(b *BlockedDate) {
	if r.Date != nil {
		b.Date = *r.Date
	}
	if r.Reason != nil {
		b.Reason = *r.Reason
	}
}
