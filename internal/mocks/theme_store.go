package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockThemeStore implements store.ThemeStore for testing
type MockThemeStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, theme *domain.EssayTheme) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error)
	GetActiveByCourseFn func(ctx context.Context, course domain.Course, at time.Time) (*domain.EssayTheme, error)
	ListFn              func(ctx context.Context, filter store.ThemeFilter, page store.Pagination) ([]*domain.EssayTheme, error)
	CountFn             func(ctx context.Context, filter store.ThemeFilter) (int, error)
	UpdateFn            func(ctx context.Context, theme *domain.EssayTheme) error

	// Themes backs the default implementation, keyed by theme ID.
	Themes map[uuid.UUID]*domain.EssayTheme
}

var _ store.ThemeStore = (*MockThemeStore)(nil)

// NewMockThemeStore creates a new mock store with initialized defaults
func NewMockThemeStore() *MockThemeStore {
	return &MockThemeStore{
		Themes: make(map[uuid.UUID]*domain.EssayTheme),
	}
}

// Add registers a theme with the default map-backed implementation.
func (m *MockThemeStore) Add(theme *domain.EssayTheme) {
	m.Themes[theme.ID] = theme
}

// Create implements the ThemeStore interface
func (m *MockThemeStore) Create(ctx context.Context, theme *domain.EssayTheme) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, theme)
	}

	m.Themes[theme.ID] = theme
	return nil
}

// GetByID implements the ThemeStore interface
func (m *MockThemeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	theme, exists := m.Themes[id]
	if !exists {
		return nil, store.ErrThemeNotFound
	}
	return theme, nil
}

// GetActiveByCourse implements the ThemeStore interface
func (m *MockThemeStore) GetActiveByCourse(
	ctx context.Context,
	course domain.Course,
	at time.Time,
) (*domain.EssayTheme, error) {
	if m.GetActiveByCourseFn != nil {
		return m.GetActiveByCourseFn(ctx, course, at)
	}

	for _, theme := range m.Themes {
		if theme.ActiveAt(at) && theme.HasCourse(course) {
			return theme, nil
		}
	}
	return nil, store.ErrThemeNotFound
}

// List implements the ThemeStore interface
func (m *MockThemeStore) List(
	ctx context.Context,
	filter store.ThemeFilter,
	page store.Pagination,
) ([]*domain.EssayTheme, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}

	themes := []*domain.EssayTheme{}
	for _, theme := range m.Themes {
		if filter.Course != nil && !theme.HasCourse(*filter.Course) {
			continue
		}
		if filter.Deactivated != nil && theme.Deactivated != *filter.Deactivated {
			continue
		}
		themes = append(themes, theme)
	}
	return themes, nil
}

// Count implements the ThemeStore interface
func (m *MockThemeStore) Count(ctx context.Context, filter store.ThemeFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}

	themes, err := m.List(ctx, filter, store.Pagination{})
	if err != nil {
		return 0, err
	}
	return len(themes), nil
}

// Update implements the ThemeStore interface
func (m *MockThemeStore) Update(ctx context.Context, theme *domain.EssayTheme) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, theme)
	}

	if _, exists := m.Themes[theme.ID]; !exists {
		return store.ErrThemeNotFound
	}
	m.Themes[theme.ID] = theme
	return nil
}

// WithTx implements the ThemeStore interface; the mock ignores transactions.
func (m *MockThemeStore) WithTx(tx *sql.Tx) store.ThemeStore {
	return m
}
