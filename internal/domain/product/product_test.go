package product

import (
	"errors"
	"testing"

	"github.com/turnolink/turnolink/internal/domain"
)

func TestUpdateRequestApply(t *testing.T) {
	p := Product{Name: "Shampoo", PriceCents: 1500, Stock: 3, Active: true}

	price := int64(1800)
	inactive := false
	req := UpdateRequest{PriceCents: &price, Active: &inactive}
	if err := req.Apply(&p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PriceCents != 1800 || p.Active {
		t.Fatalf("apply did not copy fields: %+v", p)
	}

	negative := -1
	req = UpdateRequest{Stock: &negative}
	if err := req.Apply(&p); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if p.Stock != 3 {
		t.Errorf("stock changed on rejected update: %d", p.Stock)
	}
}

func TestCreateRequestValidate(t *testing.T) {
	if err := (&CreateRequest{Name: "Gel", PriceCents: 100}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&CreateRequest{PriceCents: 100}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
