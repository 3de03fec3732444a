package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Correction.
var (
	ErrEmptyCorrectionID    = errors.New("correction ID cannot be empty")
	ErrEmptyCorrectionEssay = errors.New("correction essay ID cannot be empty")
	ErrPointsOutOfRange     = errors.New("correction points must be between 0 and 10")
)

// CorrectionCriteria holds the rubric a corrector fills while grading an
// essay. Each field carries the corrector's free-form assessment of one
// criterion.
type CorrectionCriteria struct {
	IsReadable         string `json:"is_readable"`
	HasMarginSpacing   string `json:"has_margin_spacing"`
	ObeyedMargins      string `json:"obeyed_margins"`
	Erasures           string `json:"erasures"`
	Orthography        string `json:"orthography"`
	Accentuation       string `json:"accentuation"`
	Agreement          string `json:"agreement"`
	Repeated           string `json:"repeated"`
	VeryShortSentences string `json:"very_short_sentences"`
	UnderstoodTheme    string `json:"understood_theme"`
	FollowedGenre      string `json:"followed_genre"`
	Cohesion           string `json:"cohesion"`
	Organized          string `json:"organized"`
	Conclusion         string `json:"conclusion"`
}

// Correction is the grading delivered for an essay. Exactly one correction
// exists per essay in revised status, created on the same transition that set
// the status.
type Correction struct {
	ID             uuid.UUID `json:"id"`
	EssayID        uuid.UUID `json:"essay_id"`
	CorrectionDate time.Time `json:"correction_date"`
	CorrectionCriteria
	Comment string  `json:"comment,omitempty"`
	Points  float64 `json:"points"`
}

// NewCorrection creates a new Correction for the given essay with the
// correction date set to the current time. The rubric criteria and points are
// copied verbatim.
func NewCorrection(
	essayID uuid.UUID,
	criteria CorrectionCriteria,
	comment string,
	points float64,
) (*Correction, error) {
	correction := &Correction{
		ID:                 uuid.New(),
		EssayID:            essayID,
		CorrectionDate:     time.Now().UTC(),
		CorrectionCriteria: criteria,
		Comment:            comment,
		Points:             points,
	}

	if err := correction.Validate(); err != nil {
		return nil, err
	}

	return correction, nil
}

// Validate checks if the Correction has valid data.
// Returns an error if any field fails validation.
func (c *Correction) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCorrectionID
	}

	if c.EssayID == uuid.Nil {
		return ErrEmptyCorrectionEssay
	}

	if c.Points < 0 || c.Points > 10 {
		return ErrPointsOutOfRange
	}

	return nil
}
