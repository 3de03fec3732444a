// Package service implements the use cases governing the essay lifecycle:
// submission eligibility, correction and invalidation transitions,
// subscription gating and the administrative workflows around them.
package service

import (
	"errors"
	"fmt"
)

// Domain-rule sentinel errors shared by the services.
// Expected rule violations surface as one of these so callers can test them
// with errors.Is(); the API layer maps them to HTTP status codes. "Not found"
// conditions reuse the store sentinels unchanged.
var (
	// ErrUnauthorized indicates a role or ownership mismatch: the acting
	// user is not allowed to perform the operation on this entity.
	ErrUnauthorized = errors.New("operation not authorized")

	// ErrInvalidState indicates the entity is in the wrong lifecycle
	// status for the requested transition (e.g., correcting an essay that
	// another corrector already claimed).
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrExpired indicates a lapsed subscription, token or resend window.
	ErrExpired = errors.New("expired")

	// ErrInvalidTheme indicates no eligible theme accepts submissions for
	// the requested course right now.
	ErrInvalidTheme = errors.New("no active theme for course")

	// ErrAlreadySubmitted indicates the student already has a live essay
	// (pending, correcting or revised) for the theme.
	ErrAlreadySubmitted = errors.New("essay already submitted for theme")
)

// isDomainRuleError reports whether the error is one of the sentinel rule
// violations that should pass through service wrapping untouched.
func isDomainRuleError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidTheme) ||
		errors.Is(err, ErrAlreadySubmitted)
}

// ServiceError wraps unexpected errors from a service with context.
type ServiceError struct {
	// Service is the service the error came from (e.g., "essay_service").
	Service string
	// Operation is the operation that failed (e.g., "create_essay").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
