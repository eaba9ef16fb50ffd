// Package schedule defines the weekly opening hours of a tenant.
package schedule

import (
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Schedule is one opening window on a day of the week.
type Schedule struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	DayOfWeek int       `json:"day_of_week"` // 0 = Sunday
	OpenTime  string    `json:"open_time"`   // HH:MM
	CloseTime string    `json:"close_time"`  // HH:MM
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckWindow returns a business rule error unless close time is after open time.
func (s *Schedule) CheckWindow() error {
	open, err := time.Parse("15:04", s.OpenTime)
	if err != nil {
		return domain.Validation("open_time must be HH:MM")
	}
	closing, err := time.Parse("15:04", s.CloseTime)
	if err != nil {
		return domain.Validation("close_time must be HH:MM")
	}
	if !closing.After(open) {
		return domain.BusinessRule("close_time must be after open_time")
	}
	return nil
}

// CreateRequest holds the fields needed to create a schedule entry.
type CreateRequest struct {
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return domain.Validation("day_of_week must be between 0 and 6")
	}
	s := Schedule{OpenTime: r.OpenTime, CloseTime: r.CloseTime}
	return s.CheckWindow()
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	OpenTime  *string `json:"open_time,omitempty"`
	CloseTime *string `json:"close_time,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// Apply copies the set fields of r onto s.
func (r *UpdateRequest) Apply(s *Schedule) {
	if r.OpenTime != nil {
		s.OpenTime = *r.OpenTime
	}
	if r.CloseTime != nil {
		s.CloseTime = *r.CloseTime
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}
