package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Subscription.
var (
	ErrEmptySubscriptionID      = errors.New("subscription ID cannot be empty")
	ErrEmptySubscriptionUser    = errors.New("subscription user ID cannot be empty")
	ErrEmptySubscriptionProduct = errors.New("subscription product ID cannot be empty")
	ErrEmptyExpiration          = errors.New("subscription expiration cannot be empty")
)

// Subscription grants a user access to submit essays for a course until its
// expiration. Subscriptions are created on purchase (via the payment webhook)
// or granted manually; they are deactivated on cancellation, never deleted.
type Subscription struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ProductID        uuid.UUID `json:"product_id"`
	Code             string    `json:"code,omitempty"` // external payment reference, unique when present
	Expiration       time.Time `json:"expiration"`
	RegistrationDate time.Time `json:"registration_date"`
	Active           bool      `json:"active"`
	Course           Course    `json:"course"`
}

// NewSubscription creates a new active Subscription with the registration
// date set to the current time.
func NewSubscription(
	userID, productID uuid.UUID,
	code string,
	expiration time.Time,
	course Course,
) (*Subscription, error) {
	subscription := &Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		ProductID:        productID,
		Code:             code,
		Expiration:       expiration.UTC(),
		RegistrationDate: time.Now().UTC(),
		Active:           true,
		Course:           course,
	}

	if err := subscription.Validate(); err != nil {
		return nil, err
	}

	return subscription, nil
}

// Validate checks if the Subscription has valid data.
// Returns an error if any field fails validation.
func (s *Subscription) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubscriptionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySubscriptionUser
	}

	if s.ProductID == uuid.Nil {
		return ErrEmptySubscriptionProduct
	}

	if s.Expiration.IsZero() {
		return ErrEmptyExpiration
	}

	if !IsValidCourse(s.Course) {
		return ErrInvalidCourse
	}

	return nil
}

// ExpiredAt reports whether the subscription lapsed before the given instant.
func (s *Subscription) ExpiredAt(now time.Time) bool {
	return now.After(s.Expiration)
}

// Usable reports whether the subscription grants access at the given instant:
// active and not expired.
func (s *Subscription) Usable(now time.Time) bool {
	return s.Active && !s.ExpiredAt(now)
}
