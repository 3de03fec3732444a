package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Settings.
var (
	ErrEmptySettingsID         = errors.New("settings ID cannot be empty")
	ErrInvalidReviewExpiration = errors.New("review expiration must be positive")
	ErrInvalidRecuseExpiration = errors.New("review recuse expiration must be positive")
)

// Settings is the platform-wide singleton configuration row.
// ReviewExpiration is the number of days a student has to resubmit an
// invalidated essay; ReviewRecuseExpiration is the number of days a corrector
// has to give an essay back after claiming it.
type Settings struct {
	ID                     uuid.UUID `json:"id"`
	UpdatedAt              time.Time `json:"updated_at"`
	ReviewExpiration       int       `json:"review_expiration"`
	ReviewRecuseExpiration int       `json:"review_recuse_expiration"`
	SellCorrections        bool      `json:"sell_corrections"`
}

// NewSettings creates the Settings row with the update timestamp set to the
// current time.
func NewSettings(reviewExpiration, reviewRecuseExpiration int, sellCorrections bool) (*Settings, error) {
	settings := &Settings{
		ID:                     uuid.New(),
		UpdatedAt:              time.Now().UTC(),
		ReviewExpiration:       reviewExpiration,
		ReviewRecuseExpiration: reviewRecuseExpiration,
		SellCorrections:        sellCorrections,
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Validate checks if the Settings has valid data.
// Returns an error if any field fails validation.
func (s *Settings) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySettingsID
	}

	if s.ReviewExpiration <= 0 {
		return ErrInvalidReviewExpiration
	}

	if s.ReviewRecuseExpiration <= 0 {
		return ErrInvalidRecuseExpiration
	}

	return nil
}

// ResendWindow returns the duration a student has to resubmit after an
// invalidation.
func (s *Settings) ResendWindow() time.Duration {
	return time.Duration(s.ReviewExpiration) * 24 * time.Hour
}
