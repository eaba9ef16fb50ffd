package schedule

import (
	"errors"
	"testing"

	"github.com/turnolink/turnolink/internal/domain"
)

func TestCheckWindow(t *testing.T) {
	tests := []struct {
		name    string
		open    string
		closing string
		wantErr error
	}{
		{"valid", "09:00", "18:00", nil},
		{"equal", "09:00", "09:00", domain.ErrBusinessRule},
		{"inverted", "18:00", "09:00", domain.ErrBusinessRule},
		{"bad open", "9am", "18:00", domain.ErrValidation},
		{"bad close", "09:00", "25:00", domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Schedule{OpenTime: tt.open, CloseTime: tt.closing}
			err := s.CheckWindow()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateRequestDayOfWeek(t *testing.T) {
	req := CreateRequest{DayOfWeek: 7, OpenTime: "09:00", CloseTime: "10:00"}
	if err := req.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
