package domain

import "errors"

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an id does not match a stored record.
	ErrNotFound = errors.New("not found")
	// ErrEmptyResult signals that an aggregation matched no entries.
	// Callers render a "no data" state instead of zero-valued metrics.
	ErrEmptyResult = errors.New("no matching entries")
	// ErrUnauthenticated is returned when there is no current session.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrForbidden is returned when the current user may not perform an action.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError describes a rejected user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
