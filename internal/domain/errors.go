package domain

import (
	"errors"
	"fmt"
)

// Domain errors. The aggregation core itself never fails; these cover input
// parsed at the edges (query parameters, view state transitions, config).
var (
	// ErrInvalidState indicates that a ViewState transition received invalid input.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidCriterion indicates an unknown top list criterion.
	ErrInvalidCriterion = errors.New("invalid criterion")

	// ErrEmptyValue indicates that a required value is empty.
	ErrEmptyValue = errors.New("empty value")

	// ErrTooManyCountries indicates a comparison request with more countries
	// than there are pickers.
	ErrTooManyCountries = errors.New("too many countries")

	// ErrInvalidConfiguration indicates that configuration is invalid or incomplete.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// CriterionError reports a top list criterion that could not be parsed.
type CriterionError struct {
	Value string
}

// Error implements the error interface for CriterionError.
func (e *CriterionError) Error() string {
	return fmt.Sprintf("invalid criterion %q: want total, gold, silver or bronze", e.Value)
}

// Unwrap returns ErrInvalidCriterion so callers can match with errors.Is.
func (e *CriterionError) Unwrap() error { return ErrInvalidCriterion }

// StateError represents an error that occurred during a ViewState transition.
// It provides context about which key and operation caused the error.
type StateError struct {
	// Key is the name of the state key involved in the failed operation.
	Key string

	// Operation describes the transition being performed.
	Operation string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface for StateError.
func (e *StateError) Error() string {
	return fmt.Sprintf("state error: operation=%s, key=%s, err=%v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StateError) Unwrap() error { return e.Err }

// NewStateError creates a new StateError with the given details.
func NewStateError(key, operation string, err error) *StateError {
	return &StateError{
		Key:       key,
		Operation: operation,
		Err:       err,
	}
}

// ValidationError collects one or more validation failures for an entity.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the list of validation error messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError adds a new error message to the validation error.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors returns true if there are any validation errors.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates a new ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]string, 0),
	}
}
