package errors

import (
	"errors"
	"fmt"
)

// Domain error types for the signal engine

var (
	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates an optional input (breadth, derivatives, benchmark) was not supplied
	ErrUnavailable = errors.New("input unavailable")
)

// Indicator computation errors

var (
	// ErrInsufficientData indicates the series is shorter than the indicator's floor
	ErrInsufficientData = errors.New("insufficient data")

	// ErrComputationFailure indicates an unexpected failure inside one indicator
	ErrComputationFailure = errors.New("computation failure")

	// ErrNoUsableData indicates every core indicator was absent; the snapshot must not be trusted
	ErrNoUsableData = errors.New("no usable data")
)

// IndicatorError ties a failure to the indicator that produced it
type IndicatorError struct {
	Indicator string
	Err       error
}

// Error implements the error interface
func (e *IndicatorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Indicator, e.Err)
}

// Unwrap returns the wrapped error
func (e *IndicatorError) Unwrap() error {
	return e.Err
}

// NewIndicatorError creates a new indicator error
func NewIndicatorError(indicator string, err error) *IndicatorError {
	return &IndicatorError{
		Indicator: indicator,
		Err:       err,
	}
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// MultiError wraps multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
}

// Unwrap exposes the collected errors to errors.Is / errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the list
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

// ToError returns the MultiError as an error, or nil if no errors
func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
