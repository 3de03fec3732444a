package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
)

// CorrectionStore defines the interface for correction data persistence.
type CorrectionStore interface {
	// Create saves a new correction to the store.
	// Returns ErrDuplicate if the essay already has a correction.
	Create(ctx context.Context, correction *domain.Correction) error

	// GetByEssay retrieves the correction delivered for the given essay.
	// Returns ErrCorrectionNotFound if the essay has no correction.
	GetByEssay(ctx context.Context, essayID uuid.UUID) (*domain.Correction, error)

	// WithTx returns a new CorrectionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CorrectionStore
}

// InvalidationStore defines the interface for essay invalidation persistence.
type InvalidationStore interface {
	// Create saves a new invalidation to the store.
	// Returns ErrDuplicate if the essay was already invalidated.
	Create(ctx context.Context, invalidation *domain.EssayInvalidation) error

	// GetByEssay retrieves the invalidation recorded for the given essay.
	// Returns ErrInvalidationNotFound if the essay has no invalidation.
	GetByEssay(ctx context.Context, essayID uuid.UUID) (*domain.EssayInvalidation, error)

	// WithTx returns a new InvalidationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) InvalidationStore
}
