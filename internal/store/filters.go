package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
)

// Period is a half-open time range [Start, End) used by range filters and
// the chart queries.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the instant falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Pagination selects a page of an ordered listing. A zero PageSize means no
// limit.
type Pagination struct {
	Page     int
	PageSize int
	OrderBy  string
	Desc     bool
}

// Offset returns the row offset implied by the page number.
func (p Pagination) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// EssayFilter narrows essay listings. Nil pointer fields are ignored;
// Status with multiple entries matches any of them.
type EssayFilter struct {
	StudentID   *uuid.UUID
	ThemeID     *uuid.UUID
	CorrectorID *uuid.UUID
	Course      *domain.Course
	Status      []domain.EssayStatus
	Period      *Period
}

// UserFilter narrows user listings.
type UserFilter struct {
	Status     *domain.UserStatus
	Permission *domain.Permission
	Search     string // matches name or email
}

// ThemeFilter narrows theme listings.
type ThemeFilter struct {
	Course      *domain.Course
	Deactivated *bool
	Period      *Period
}

// SubscriptionFilter narrows subscription listings.
type SubscriptionFilter struct {
	UserID    *uuid.UUID
	ProductID *uuid.UUID
	Active    *bool
	Course    *domain.Course
	Period    *Period
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Course *domain.Course
	Status *domain.ProductStatus
}
