package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for reference-data validation failures.
var (
	ErrMissingID         = errors.New("missing id")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrTooFewOptions     = errors.New("question needs at least two options")
	ErrNoQuestions       = errors.New("question set has no questions")
	ErrInvalidWeight     = errors.New("weight must be at least 1")
	ErrInvalidPriceRange = errors.New("price min exceeds max")
	ErrUnknownEffect     = errors.New("unknown effect op")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrInvalidPreference = errors.New("invalid weight preference")
	ErrInvalidKind       = errors.New("invalid product kind")
)

// ValidationError wraps a sentinel with context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
