package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is the generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConflict is returned when a conditional write finds the row in a
	// different state than required (e.g., claiming an essay another
	// corrector already took).
	ErrConflict = errors.New("conflicting concurrent update")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrEssayNotFound indicates that the requested essay does not exist in the store.
	ErrEssayNotFound = fmt.Errorf("%w: essay", ErrNotFound)

	// ErrThemeNotFound indicates that the requested essay theme does not exist in the store.
	ErrThemeNotFound = fmt.Errorf("%w: essay theme", ErrNotFound)

	// ErrCorrectionNotFound indicates that the requested correction does not exist in the store.
	ErrCorrectionNotFound = fmt.Errorf("%w: correction", ErrNotFound)

	// ErrInvalidationNotFound indicates that the requested invalidation does not exist in the store.
	ErrInvalidationNotFound = fmt.Errorf("%w: essay invalidation", ErrNotFound)

	// ErrSubscriptionNotFound indicates that the requested subscription does not exist in the store.
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription", ErrNotFound)

	// ErrProductNotFound indicates that the requested product does not exist in the store.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrSettingsNotFound indicates that the settings row was never created.
	ErrSettingsNotFound = fmt.Errorf("%w: settings", ErrNotFound)

	// ErrTokenNotFound indicates that the requested single-essay token does not exist in the store.
	ErrTokenNotFound = fmt.Errorf("%w: single essay token", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrCodeExists indicates that a subscription or product with the given
	// external code already exists.
	ErrCodeExists = fmt.Errorf("%w: code", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
