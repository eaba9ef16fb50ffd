// Package media defines metadata for files a tenant has uploaded.
package media

import (
	"net/url"
	"time"

	"github.com/turnolink/turnolink/internal/domain"
)

// Asset points at an uploaded file. The bytes live in external storage.
type Asset struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Alt         string    `json:"alt,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRequest registers an uploaded file.
type CreateRequest struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Alt         string `json:"alt"`
}

// Validate checks the request fields.
func (r *CreateRequest) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return domain.Validation("url must be absolute")
	}
	if r.Filename == "" {
		return domain.Validation("filename is required")
	}
	if r.SizeBytes < 0 {
		return domain.Validation("size_bytes must not be negative")
	}
	return nil
}

// UpdateRequest holds the editable metadata.
type UpdateRequest struct {
	Filename *string `json:"filename,omitempty"`
	Alt      *string `json:"alt,omitempty"`
}

// Apply copies the set fields of r onto a.
func (r *UpdateRequest) Apply(a *Asset) error {
	if r.Filename != nil {
		if *r.Filename == "" {
			return domain.Validation("filename must not be empty")
		}
		a.Filename = *r.Filename
	}
	if r.Alt != nil {
		a.Alt = *r.Alt
	}
	return nil
}
