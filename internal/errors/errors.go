// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrListingNotFound  = errors.New("listing not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrConnectionFailed = errors.New("connection failed")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
)

// APIError represents an error response from the rental backend.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api error [%d] %s: %s: %v", e.StatusCode, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("api error [%d] %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, endpoint, message string, err error) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Err:        err,
	}
}

// StoreError represents a local data store error.
type StoreError struct {
	Operation string
	Table     string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Operation, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, table string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Table:     table,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
