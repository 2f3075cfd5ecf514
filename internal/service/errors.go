package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/okra/internal/app"
)

var (
	// ErrInvalidInput marks errors caused by the caller's data.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict marks requests that clash with stored state.
	ErrConflict = errors.New("conflict")
)

// invalid wraps a field-level ValidationError in ErrInvalidInput.
func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, &app.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// formatValidationErrors wraps collected document errors.
func formatValidationErrors(errs []error) error {
	return fmt.Errorf("%w: %d validation error(s): %w", ErrInvalidInput, len(errs), app.ValidationErrors(errs))
}
