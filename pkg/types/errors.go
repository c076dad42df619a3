package types

import "fmt"

// ValidationError represents a structural or configuration error in a
// workflow description. Validation failures are fatal: scheduling must
// not start on a workflow that does not validate.
type ValidationError struct {
	Field   string // Field or element that failed validation
	Message string // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
