package core

import (
	"errors"
	"testing"
)

func TestValidationError(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name: "with field",
			err: &ValidationError{
				Field:   "SeatCount",
				Message: "must be a number between 1 and 100",
				Err:     baseErr,
			},
			expected: "SeatCount: must be a number between 1 and 100",
		},
		{
			name: "without field",
			err: &ValidationError{
				Message: "invalid input",
				Err:     baseErr,
			},
			expected: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.expected)
			}

			if !errors.Is(tt.err, baseErr) {
				t.Error("ValidationError should wrap base error")
			}
		})
	}
}

func TestLockError(t *testing.T) {
	baseErr := errors.New("base error")

	err := &LockError{
		Operation: "acquire",
		Message:   "file already locked",
		Err:       baseErr,
	}

	expected := "lock acquire: file already locked"
	if got := err.Error(); got != expected {
		t.Errorf("LockError.Error() = %v, want %v", got, expected)
	}

	if !errors.Is(err, baseErr) {
		t.Error("LockError should wrap base error")
	}
}

func TestIncompleteInputError(t *testing.T) {
	err := &IncompleteInputError{Section: "صيانة", Item: "الفرامل"}

	expected := `incomplete inspection: "الفرامل" in section "صيانة"`
	if got := err.Error(); got != expected {
		t.Errorf("IncompleteInputError.Error() = %v, want %v", got, expected)
	}

	var target *IncompleteInputError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match *IncompleteInputError")
	}
}

func TestPersistenceError(t *testing.T) {
	baseErr := errors.New("disk full")

	err := &PersistenceError{Operation: "save state", Err: baseErr}

	expected := "persistence save state: disk full"
	if got := err.Error(); got != expected {
		t.Errorf("PersistenceError.Error() = %v, want %v", got, expected)
	}

	if !errors.Is(err, baseErr) {
		t.Error("PersistenceError should wrap base error")
	}
}
