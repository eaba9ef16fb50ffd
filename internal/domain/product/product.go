// Package product defines storefront catalog items.
package product

import (
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Product is an item sold through a tenant's storefront.
type Product struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a product.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int    `json:"stock"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	if r.Name == "" {
		return domain.Validation("name is required")
	}
	if r.PriceCents < 0 {
		return domain.Validation("price_cents must not be negative")
	}
	if r.Stock < 0 {
		return domain.Validation("stock must not be negative")
	}
	return nil
}

// UpdateRequest holds optional fields for a partial update.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Apply copies the set fields of r onto p.
func (r *UpdateRequest) Apply(p *Product) error {
	if r.Name != nil {
		if *r.Name == "" {
			return domain.Validation("name must not be empty")
		}
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.PriceCents != nil {
		if *r.PriceCents < 0 {
			return domain.Validation("price_cents must not be negative")
		}
		p.PriceCents = *r.PriceCents
	}
	if r.Stock != nil {
		if *r.Stock < 0 {
			return domain.Validation("stock must not be negative")
		}
		p.Stock = *r.Stock
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	return nil
}
