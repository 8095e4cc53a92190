// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrTradeNotFound      = errors.New("trade not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDatabaseError      = errors.New("database error")
	ErrCoachUnavailable   = errors.New("coach not configured")
	ErrNoClosedTrades     = errors.New("no closed trades to analyze")
	ErrInputValidation    = errors.New("input validation failed")
)

// StoreError represents an error from the persistence layer.
type StoreError struct {
	Op      string
	TradeID string
	Err     error
}

func (e *StoreError) Error() string {
	if e.TradeID != "" {
		return fmt.Sprintf("store error [%s] trade %s: %v", e.Op, e.TradeID, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, tradeID string, err error) *StoreError {
	return &StoreError{Op: op, TradeID: tradeID, Err: err}
}

// AuthError represents an authentication failure.
type AuthError struct {
	Op    string
	Email string
	Err   error
}

func (e *AuthError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("auth error [%s] %s: %v", e.Op, e.Email, e.Err)
	}
	return fmt.Sprintf("auth error [%s]: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError.
func NewAuthError(op, email string, err error) *AuthError {
	return &AuthError{Op: op, Email: email, Err: err}
}

// CoachError represents an error from the LLM coach.
type CoachError struct {
	Operation string
	Err       error
}

func (e *CoachError) Error() string {
	return fmt.Sprintf("coach error [%s]: %v", e.Operation, e.Err)
}

func (e *CoachError) Unwrap() error {
	return e.Err
}

// NewCoachError creates a new CoachError.
func NewCoachError(operation string, err error) *CoachError {
	return &CoachError{Operation: operation, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
