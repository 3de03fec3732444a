// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidCourse is returned when a course value is not one of the
	// recognized courses.
	ErrInvalidCourse = errors.New("invalid course")

	// ErrInvalidTransition is returned when an essay status change is not
	// allowed by the essay lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// Course identifies the exam preparation track a theme or subscription
// belongs to.
type Course string

// Recognized courses. CourseBlank marks essays and products that are not
// bound to a specific track (e.g. single corrections sold by token).
const (
	CourseEsa    Course = "esa"
	CourseEspcex Course = "espcex"
	CourseBlank  Course = "blank"
)

// IsValidCourse checks if the given course is one of the recognized values.
func IsValidCourse(course Course) bool {
	switch course {
	case CourseEsa, CourseEspcex, CourseBlank:
		return true
	default:
		return false
	}
}
