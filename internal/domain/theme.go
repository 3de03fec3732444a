package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for EssayTheme.
var (
	ErrEmptyThemeID     = errors.New("theme ID cannot be empty")
	ErrEmptyThemeTitle  = errors.New("theme title cannot be empty")
	ErrEmptyThemeCourse = errors.New("theme must cover at least one course")
	ErrInvalidThemeSpan = errors.New("theme end date must be after start date")
)

// EssayTheme represents a timed writing prompt. Students may submit essays
// against a theme only while it is active for one of their courses.
type EssayTheme struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	HelpText    string    `json:"help_text"`
	File        string    `json:"file"`
	Courses     []Course  `json:"courses"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Deactivated bool      `json:"deactivated"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewEssayTheme creates a new EssayTheme covering the given courses within
// the [start, end) availability window.
func NewEssayTheme(
	title, helpText, file string,
	courses []Course,
	start, end time.Time,
) (*EssayTheme, error) {
	theme := &EssayTheme{
		ID:        uuid.New(),
		Title:     title,
		HelpText:  helpText,
		File:      file,
		Courses:   courses,
		StartDate: start.UTC(),
		EndDate:   end.UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	return theme, nil
}

// Validate checks if the EssayTheme has valid data.
// Returns an error if any field fails validation.
func (t *EssayTheme) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyThemeID
	}

	if t.Title == "" {
		return ErrEmptyThemeTitle
	}

	if len(t.Courses) == 0 {
		return ErrEmptyThemeCourse
	}

	for _, course := range t.Courses {
		if !IsValidCourse(course) {
			return ErrInvalidCourse
		}
	}

	if !t.EndDate.After(t.StartDate) {
		return ErrInvalidThemeSpan
	}

	return nil
}

// ActiveAt reports whether the theme accepts submissions at the given
// instant: not deactivated and within [StartDate, EndDate).
func (t *EssayTheme) ActiveAt(now time.Time) bool {
	return !t.Deactivated && !now.Before(t.StartDate) && now.Before(t.EndDate)
}

// Active reports whether the theme currently accepts submissions.
func (t *EssayTheme) Active() bool {
	return t.ActiveAt(time.Now().UTC())
}

// HasCourse reports whether the theme covers the given course.
func (t *EssayTheme) HasCourse(course Course) bool {
	for _, c := range t.Courses {
		if c == course {
			return true
		}
	}
	return false
}
