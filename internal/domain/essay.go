package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EssayStatus represents the lifecycle state of an essay.
type EssayStatus string

// Possible essay status values.
//
// The allowed transitions are:
//
//	pending → correcting            (a corrector claims the essay)
//	correcting → revised            (correction delivered, terminal)
//	correcting → invalid            (essay invalidated, terminal)
//	correcting → pending            (corrector gives the essay back)
const (
	EssayStatusPending    EssayStatus = "pending"
	EssayStatusCorrecting EssayStatus = "correcting"
	EssayStatusRevised    EssayStatus = "revised"
	EssayStatusInvalid    EssayStatus = "invalid"
)

// Common validation errors for Essay.
var (
	ErrEmptyEssayID      = errors.New("essay ID cannot be empty")
	ErrEmptyEssayFile    = errors.New("essay file cannot be empty")
	ErrEmptyEssayStudent = errors.New("essay student ID cannot be empty")
	ErrEmptyEssayTheme   = errors.New("essay theme ID cannot be empty")
	ErrInvalidEssayState = errors.New("invalid essay status")
	ErrDanglingCorrector = errors.New("essay with a corrector must be in correction or resolved")
)

// Essay represents a student submission against a theme. Essays are never
// physically deleted; terminal states are revised and invalid.
type Essay struct {
	ID          uuid.UUID   `json:"id"`
	File        string      `json:"file"`
	StudentID   uuid.UUID   `json:"student_id"`
	ThemeID     uuid.UUID   `json:"theme_id"`
	Course      Course      `json:"course"`
	SendDate    time.Time   `json:"send_date"`
	Status      EssayStatus `json:"status"`
	CorrectorID *uuid.UUID  `json:"corrector_id,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewEssay creates a new pending Essay for the given student, theme and
// course, with SendDate set to the current time.
func NewEssay(file string, studentID, themeID uuid.UUID, course Course) (*Essay, error) {
	essay := &Essay{
		ID:        uuid.New(),
		File:      file,
		StudentID: studentID,
		ThemeID:   themeID,
		Course:    course,
		SendDate:  time.Now().UTC(),
		Status:    EssayStatusPending,
		UpdatedAt: time.Now().UTC(),
	}

	if err := essay.Validate(); err != nil {
		return nil, err
	}

	return essay, nil
}

// Validate checks if the Essay has valid data.
// Returns an error if any field fails validation.
func (e *Essay) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEssayID
	}

	if e.File == "" {
		return ErrEmptyEssayFile
	}

	if e.StudentID == uuid.Nil {
		return ErrEmptyEssayStudent
	}

	if e.ThemeID == uuid.Nil {
		return ErrEmptyEssayTheme
	}

	if !IsValidCourse(e.Course) {
		return ErrInvalidCourse
	}

	if !isValidEssayStatus(e.Status) {
		return ErrInvalidEssayState
	}

	// A corrector may only be attached once the essay entered correction.
	if e.CorrectorID != nil && e.Status == EssayStatusPending {
		return ErrDanglingCorrector
	}

	return nil
}

// Resolved reports whether the essay reached a terminal state.
func (e *Essay) Resolved() bool {
	return e.Status == EssayStatusRevised || e.Status == EssayStatusInvalid
}

// CorrectedBy reports whether the given corrector is the one assigned to
// this essay.
func (e *Essay) CorrectedBy(correctorID uuid.UUID) bool {
	return e.CorrectorID != nil && *e.CorrectorID == correctorID
}

// StartCorrection assigns a corrector and moves the essay to correcting.
// The essay must be pending, or already correcting under the same corrector
// (in which case the call is a no-op).
func (e *Essay) StartCorrection(correctorID uuid.UUID) error {
	if e.Status == EssayStatusCorrecting && e.CorrectedBy(correctorID) {
		return nil
	}

	if e.Status != EssayStatusPending || e.CorrectorID != nil {
		return ErrInvalidTransition
	}

	e.CorrectorID = &correctorID
	e.Status = EssayStatusCorrecting
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// CancelCorrection releases the assigned corrector and moves the essay back
// to pending. The essay must be in correcting status.
func (e *Essay) CancelCorrection() error {
	if e.Status != EssayStatusCorrecting {
		return ErrInvalidTransition
	}

	e.CorrectorID = nil
	e.Status = EssayStatusPending
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkRevised moves the essay from correcting to its revised terminal state.
func (e *Essay) MarkRevised() error {
	return e.resolve(EssayStatusRevised)
}

// MarkInvalid moves the essay from correcting to its invalid terminal state.
func (e *Essay) MarkInvalid() error {
	return e.resolve(EssayStatusInvalid)
}

func (e *Essay) resolve(status EssayStatus) error {
	if e.Status != EssayStatusCorrecting || e.CorrectorID == nil {
		return ErrInvalidTransition
	}

	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func isValidEssayStatus(status EssayStatus) bool {
	switch status {
	case EssayStatusPending, EssayStatusCorrecting, EssayStatusRevised, EssayStatusInvalid:
		return true
	default:
		return false
	}
}
