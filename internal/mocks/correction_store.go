package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockCorrectionStore implements store.CorrectionStore for testing
type MockCorrectionStore struct {
	CreateFn     func(ctx context.Context, correction *domain.Correction) error
	GetByEssayFn func(ctx context.Context, essayID uuid.UUID) (*domain.Correction, error)

	// Corrections backs the default implementation, keyed by essay ID.
	Corrections map[uuid.UUID]*domain.Correction

	CreateError error
}

var _ store.CorrectionStore = (*MockCorrectionStore)(nil)

// NewMockCorrectionStore creates a new mock store with initialized defaults
func NewMockCorrectionStore() *MockCorrectionStore {
	return &MockCorrectionStore{
		Corrections: make(map[uuid.UUID]*domain.Correction),
	}
}

// Create implements the CorrectionStore interface
func (m *MockCorrectionStore) Create(ctx context.Context, correction *domain.Correction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, correction)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Corrections[correction.EssayID]; exists {
		return store.ErrDuplicate
	}
	m.Corrections[correction.EssayID] = correction
	return nil
}

// GetByEssay implements the CorrectionStore interface
func (m *MockCorrectionStore) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.Correction, error) {
	if m.GetByEssayFn != nil {
		return m.GetByEssayFn(ctx, essayID)
	}

	correction, exists := m.Corrections[essayID]
	if !exists {
		return nil, store.ErrCorrectionNotFound
	}
	return correction, nil
}

// WithTx implements the CorrectionStore interface; the mock ignores transactions.
func (m *MockCorrectionStore) WithTx(tx *sql.Tx) store.CorrectionStore {
	return m
}

// MockInvalidationStore implements store.InvalidationStore for testing
type MockInvalidationStore struct {
	CreateFn     func(ctx context.Context, invalidation *domain.EssayInvalidation) error
	GetByEssayFn func(ctx context.Context, essayID uuid.UUID) (*domain.EssayInvalidation, error)

	// Invalidations backs the default implementation, keyed by essay ID.
	Invalidations map[uuid.UUID]*domain.EssayInvalidation

	CreateError error
}

var _ store.InvalidationStore = (*MockInvalidationStore)(nil)

// NewMockInvalidationStore creates a new mock store with initialized defaults
func NewMockInvalidationStore() *MockInvalidationStore {
	return &MockInvalidationStore{
		Invalidations: make(map[uuid.UUID]*domain.EssayInvalidation),
	}
}

// Create implements the InvalidationStore interface
func (m *MockInvalidationStore) Create(
	ctx context.Context,
	invalidation *domain.EssayInvalidation,
) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, invalidation)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Invalidations[invalidation.EssayID]; exists {
		return store.ErrDuplicate
	}
	m.Invalidations[invalidation.EssayID] = invalidation
	return nil
}

// GetByEssay implements the InvalidationStore interface
func (m *MockInvalidationStore) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.EssayInvalidation, error) {
	if m.GetByEssayFn != nil {
		return m.GetByEssayFn(ctx, essayID)
	}

	invalidation, exists := m.Invalidations[essayID]
	if !exists {
		return nil, store.ErrInvalidationNotFound
	}
	return invalidation, nil
}

// WithTx implements the InvalidationStore interface; the mock ignores transactions.
func (m *MockInvalidationStore) WithTx(tx *sql.Tx) store.InvalidationStore {
	return m
}
