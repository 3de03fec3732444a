package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
)

// ThemeStore defines the interface for essay theme data persistence.
type ThemeStore interface {
	// Create saves a new theme to the store.
	Create(ctx context.Context, theme *domain.EssayTheme) error

	// GetByID retrieves a theme by its unique ID.
	// Returns ErrThemeNotFound if the theme does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error)

	// GetActiveByCourse retrieves the theme accepting submissions for the
	// given course at the given instant: not deactivated, covering the
	// course, and with `at` within [StartDate, EndDate).
	// Returns ErrThemeNotFound if no such theme exists.
	GetActiveByCourse(ctx context.Context, course domain.Course, at time.Time) (*domain.EssayTheme, error)

	// List retrieves themes matching the filter, newest first.
	List(ctx context.Context, filter ThemeFilter, page Pagination) ([]*domain.EssayTheme, error)

	// Count returns the number of themes matching the filter.
	Count(ctx context.Context, filter ThemeFilter) (int, error)

	// Update saves changes to an existing theme.
	// Returns ErrThemeNotFound if the theme does not exist.
	Update(ctx context.Context, theme *domain.EssayTheme) error

	// WithTx returns a new ThemeStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ThemeStore
}
