package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvalidOrderError(t *testing.T) {
	t.Run("price rejection", func(t *testing.T) {
		err := &InvalidOrderError{Field: "price", Err: ErrInvalidPrice}

		expected := "invalid order [price]: invalid price"
		if err.Error() != expected {
			t.Errorf("Error message = %q, want %q", err.Error(), expected)
		}

		if !errors.Is(err, ErrInvalidPrice) {
			t.Error("Expected error to wrap ErrInvalidPrice")
		}

		if errors.Is(err, ErrInvalidQuantity) {
			t.Error("Expected error to not match ErrInvalidQuantity")
		}
	})

	t.Run("sentinel per field", func(t *testing.T) {
		cases := []struct {
			field    string
			sentinel error
		}{
			{"side", ErrInvalidSide},
			{"price", ErrInvalidPrice},
			{"quantity", ErrInvalidQuantity},
			{"type", ErrInvalidOrderType},
		}

		for _, tc := range cases {
			err := &InvalidOrderError{Field: tc.field, Err: tc.sentinel}
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("Field %q: expected error to wrap %v", tc.field, tc.sentinel)
			}
		}
	})

	t.Run("IsInvalidOrder helper", func(t *testing.T) {
		rejection := &InvalidOrderError{Field: "quantity", Err: ErrInvalidQuantity}
		wrapped := fmt.Errorf("submit failed: %w", rejection)
		plain := errors.New("plain error")

		if !IsInvalidOrder(rejection) {
			t.Error("IsInvalidOrder should return true for a rejection")
		}

		if !IsInvalidOrder(wrapped) {
			t.Error("IsInvalidOrder should return true for a wrapped rejection")
		}

		if IsInvalidOrder(plain) {
			t.Error("IsInvalidOrder should return false for a plain error")
		}

		if IsInvalidOrder(nil) {
			t.Error("IsInvalidOrder should return false for nil")
		}
	})
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "db_path", Err: baseErr}

	expected := "config error [db_path]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}

	if !errors.Is(err, baseErr) {
		t.Error("Expected error to wrap baseErr")
	}
}
