package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
)

// EssayStore defines the interface for essay data persistence.
type EssayStore interface {
	// Create saves a new essay to the store.
	// Returns validation errors from the domain Essay if data is invalid.
	// Returns ErrInvalidEntity if the student or theme does not exist.
	Create(ctx context.Context, essay *domain.Essay) error

	// GetByID retrieves an essay by its unique ID.
	// Returns ErrEssayNotFound if the essay does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Essay, error)

	// List retrieves essays matching the filter, ordered by send date
	// (oldest first).
	List(ctx context.Context, filter EssayFilter, page Pagination) ([]*domain.Essay, error)

	// Count returns the number of essays matching the filter.
	Count(ctx context.Context, filter EssayFilter) (int, error)

	// Exists reports whether at least one essay matches the filter.
	Exists(ctx context.Context, filter EssayFilter) (bool, error)

	// Update saves changes to an existing essay.
	// Returns ErrEssayNotFound if the essay does not exist.
	Update(ctx context.Context, essay *domain.Essay) error

	// AssignCorrector claims a pending essay for the given corrector and
	// moves it to correcting status. The claim is a single conditional
	// write: it only succeeds while the essay has no corrector assigned
	// (or is already held by the same corrector), so two correctors racing
	// for the same essay cannot both win.
	// Returns ErrConflict if another corrector holds the essay.
	// Returns ErrEssayNotFound if the essay does not exist.
	AssignCorrector(ctx context.Context, essayID, correctorID uuid.UUID) (*domain.Essay, error)

	// WithTx returns a new EssayStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EssayStore
}
