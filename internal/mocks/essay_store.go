package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockEssayStore implements store.EssayStore for testing
type MockEssayStore struct {
	// Function fields for customizable behavior
	CreateFn          func(ctx context.Context, essay *domain.Essay) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.Essay, error)
	ListFn            func(ctx context.Context, filter store.EssayFilter, page store.Pagination) ([]*domain.Essay, error)
	CountFn           func(ctx context.Context, filter store.EssayFilter) (int, error)
	ExistsFn          func(ctx context.Context, filter store.EssayFilter) (bool, error)
	UpdateFn          func(ctx context.Context, essay *domain.Essay) error
	AssignCorrectorFn func(ctx context.Context, essayID, correctorID uuid.UUID) (*domain.Essay, error)

	// Essays backs the default implementation, keyed by essay ID.
	Essays map[uuid.UUID]*domain.Essay

	CreateError error
	UpdateError error
}

var _ store.EssayStore = (*MockEssayStore)(nil)

// NewMockEssayStore creates a new mock store with initialized defaults
func NewMockEssayStore() *MockEssayStore {
	return &MockEssayStore{
		Essays: make(map[uuid.UUID]*domain.Essay),
	}
}

// Add registers an essay with the default map-backed implementation.
func (m *MockEssayStore) Add(essay *domain.Essay) {
	m.Essays[essay.ID] = essay
}

// Create implements the EssayStore interface
func (m *MockEssayStore) Create(ctx context.Context, essay *domain.Essay) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, essay)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Essays[essay.ID] = essay
	return nil
}

// GetByID implements the EssayStore interface
func (m *MockEssayStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Essay, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	essay, exists := m.Essays[id]
	if !exists {
		return nil, store.ErrEssayNotFound
	}

	// Callers get a copy; mutations only reach the store through Update,
	// matching how a row read behaves.
	copied := *essay
	return &copied, nil
}

// List implements the EssayStore interface
func (m *MockEssayStore) List(
	ctx context.Context,
	filter store.EssayFilter,
	page store.Pagination,
) ([]*domain.Essay, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter, page)
	}

	essays := []*domain.Essay{}
	for _, essay := range m.Essays {
		if matchEssay(essay, filter) {
			essays = append(essays, essay)
		}
	}
	return essays, nil
}

// Count implements the EssayStore interface
func (m *MockEssayStore) Count(ctx context.Context, filter store.EssayFilter) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, filter)
	}

	essays, err := m.List(ctx, filter, store.Pagination{})
	if err != nil {
		return 0, err
	}
	return len(essays), nil
}

// Exists implements the EssayStore interface
func (m *MockEssayStore) Exists(ctx context.Context, filter store.EssayFilter) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, filter)
	}

	count, err := m.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update implements the EssayStore interface
func (m *MockEssayStore) Update(ctx context.Context, essay *domain.Essay) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, essay)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	if _, exists := m.Essays[essay.ID]; !exists {
		return store.ErrEssayNotFound
	}
	m.Essays[essay.ID] = essay
	return nil
}

// AssignCorrector implements the EssayStore interface.
// The default implementation mirrors the conditional claim: it succeeds only
// when the essay has no corrector or already belongs to the claimant.
func (m *MockEssayStore) AssignCorrector(
	ctx context.Context,
	essayID, correctorID uuid.UUID,
) (*domain.Essay, error) {
	if m.AssignCorrectorFn != nil {
		return m.AssignCorrectorFn(ctx, essayID, correctorID)
	}

	essay, exists := m.Essays[essayID]
	if !exists {
		return nil, store.ErrEssayNotFound
	}

	if essay.CorrectorID != nil && *essay.CorrectorID != correctorID {
		return nil, store.ErrConflict
	}

	if err := essay.StartCorrection(correctorID); err != nil {
		return nil, store.ErrConflict
	}
	return essay, nil
}

// WithTx implements the EssayStore interface; the mock ignores transactions.
func (m *MockEssayStore) WithTx(tx *sql.Tx) store.EssayStore {
	return m
}

func matchEssay(essay *domain.Essay, filter store.EssayFilter) bool {
	if filter.StudentID != nil && essay.StudentID != *filter.StudentID {
		return false
	}
	if filter.ThemeID != nil && essay.ThemeID != *filter.ThemeID {
		return false
	}
	if filter.CorrectorID != nil &&
		(essay.CorrectorID == nil || *essay.CorrectorID != *filter.CorrectorID) {
		return false
	}
	if filter.Course != nil && essay.Course != *filter.Course {
		return false
	}
	if len(filter.Status) > 0 {
		found := false
		for _, status := range filter.Status {
			if essay.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Period != nil && !filter.Period.Contains(essay.SendDate) {
		return false
	}
	return true
}
