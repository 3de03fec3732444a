package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for SingleEssayToken.
var (
	ErrEmptyTokenID      = errors.New("token ID cannot be empty")
	ErrEmptyTokenValue   = errors.New("token value cannot be empty")
	ErrEmptyTokenStudent = errors.New("token student ID cannot be empty")
	ErrEmptyTokenTheme   = errors.New("token theme ID cannot be empty")
)

// SingleEssayToken grants one submission against a specific theme outside the
// subscription flow (a single correction sold separately). The token is
// consumed when SentDate is set, atomically with the essay creation.
type SingleEssayToken struct {
	ID               uuid.UUID  `json:"id"`
	Token            string     `json:"token"`
	StudentID        uuid.UUID  `json:"student_id"`
	ThemeID          uuid.UUID  `json:"theme_id"`
	Expiration       time.Time  `json:"expiration"`
	SentDate         *time.Time `json:"sent_date,omitempty"`
	RegistrationDate time.Time  `json:"registration_date"`
}

// NewSingleEssayToken creates a new unconsumed token for the given student
// and theme. The token value must come from a secure random source.
func NewSingleEssayToken(
	token string,
	studentID, themeID uuid.UUID,
	expiration time.Time,
) (*SingleEssayToken, error) {
	t := &SingleEssayToken{
		ID:               uuid.New(),
		Token:            token,
		StudentID:        studentID,
		ThemeID:          themeID,
		Expiration:       expiration.UTC(),
		RegistrationDate: time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks if the SingleEssayToken has valid data.
// Returns an error if any field fails validation.
func (t *SingleEssayToken) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTokenID
	}

	if t.Token == "" {
		return ErrEmptyTokenValue
	}

	if t.StudentID == uuid.Nil {
		return ErrEmptyTokenStudent
	}

	if t.ThemeID == uuid.Nil {
		return ErrEmptyTokenTheme
	}

	return nil
}

// Consumed reports whether the token was already used for a submission.
func (t *SingleEssayToken) Consumed() bool {
	return t.SentDate != nil
}

// ExpiredAt reports whether the token lapsed before the given instant.
func (t *SingleEssayToken) ExpiredAt(now time.Time) bool {
	return now.After(t.Expiration)
}

// Consume marks the token as used at the current time.
// Returns ErrInvalidTransition if it was already consumed.
func (t *SingleEssayToken) Consume() error {
	if t.Consumed() {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()
	t.SentDate = &now
	return nil
}
