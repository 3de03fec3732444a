package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// InvalidationReason classifies why a corrector rejected an essay.
type InvalidationReason string

// Possible invalidation reasons.
const (
	ReasonInvalid    InvalidationReason = "invalid"    // not an essay at all
	ReasonUnreadable InvalidationReason = "unreadable" // illegible handwriting or file
	ReasonTangent    InvalidationReason = "tangent"    // off the proposed theme
	ReasonOther      InvalidationReason = "other"      // free-form, requires a comment
)

// Common validation errors for EssayInvalidation.
var (
	ErrEmptyInvalidationID        = errors.New("invalidation ID cannot be empty")
	ErrEmptyInvalidationEssay     = errors.New("invalidation essay ID cannot be empty")
	ErrEmptyInvalidationCorrector = errors.New("invalidation corrector ID cannot be empty")
	ErrInvalidReason              = errors.New("invalid invalidation reason")
	ErrMissingComment             = errors.New("a comment is required when the reason is other")
)

// EssayInvalidation records why an essay was rejected instead of corrected.
// Exactly one invalidation exists per essay in invalid status, created on the
// same transition that set the status.
type EssayInvalidation struct {
	ID               uuid.UUID          `json:"id"`
	CorrectorID      uuid.UUID          `json:"corrector_id"`
	EssayID          uuid.UUID          `json:"essay_id"`
	Reason           InvalidationReason `json:"reason"`
	Comment          string             `json:"comment,omitempty"`
	InvalidationDate time.Time          `json:"invalidation_date"`
}

// NewEssayInvalidation creates a new EssayInvalidation with the invalidation
// date set to the current time.
func NewEssayInvalidation(
	correctorID, essayID uuid.UUID,
	reason InvalidationReason,
	comment string,
) (*EssayInvalidation, error) {
	invalidation := &EssayInvalidation{
		ID:               uuid.New(),
		CorrectorID:      correctorID,
		EssayID:          essayID,
		Reason:           reason,
		Comment:          comment,
		InvalidationDate: time.Now().UTC(),
	}

	if err := invalidation.Validate(); err != nil {
		return nil, err
	}

	return invalidation, nil
}

// Validate checks if the EssayInvalidation has valid data.
// Returns an error if any field fails validation.
func (i *EssayInvalidation) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyInvalidationID
	}

	if i.CorrectorID == uuid.Nil {
		return ErrEmptyInvalidationCorrector
	}

	if i.EssayID == uuid.Nil {
		return ErrEmptyInvalidationEssay
	}

	if !isValidReason(i.Reason) {
		return ErrInvalidReason
	}

	if i.Reason == ReasonOther && i.Comment == "" {
		return ErrMissingComment
	}

	return nil
}

func isValidReason(reason InvalidationReason) bool {
	switch reason {
	case ReasonInvalid, ReasonUnreadable, ReasonTangent, ReasonOther:
		return true
	default:
		return false
	}
}
