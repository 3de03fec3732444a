package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// InvalidationStore implements the store.InvalidationStore interface using a
// PostgreSQL database as the storage backend.
type InvalidationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewInvalidationStore creates a new PostgreSQL implementation of the
// InvalidationStore interface. If logger is nil, a default logger is used.
func NewInvalidationStore(db store.DBTX, logger *slog.Logger) *InvalidationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &InvalidationStore{
		db:     db,
		logger: logger.With(slog.String("component", "invalidation_store")),
	}
}

var _ store.InvalidationStore = (*InvalidationStore)(nil)

// Create implements store.InvalidationStore.Create.
func (s *InvalidationStore) Create(
	ctx context.Context,
	invalidation *domain.EssayInvalidation,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invalidation.Validate(); err != nil {
		log.Warn("invalidation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("invalidation_id", invalidation.ID.String()))
		return err
	}

	query := `
		INSERT INTO essay_invalidations (id, corrector_id, essay_id, reason, comment, invalidation_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		invalidation.ID,
		invalidation.CorrectorID,
		invalidation.EssayID,
		invalidation.Reason,
		invalidation.Comment,
		invalidation.InvalidationDate,
	)

	if err != nil {
		if isUniqueViolation(err, "essay_invalidations_essay_id_key") {
			return fmt.Errorf("%w: invalidation for essay", store.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: essay or corrector not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create invalidation",
			slog.String("error", err.Error()),
			slog.String("essay_id", invalidation.EssayID.String()))
		return err
	}

	log.Info("invalidation created successfully",
		slog.String("invalidation_id", invalidation.ID.String()),
		slog.String("essay_id", invalidation.EssayID.String()),
		slog.String("reason", string(invalidation.Reason)))
	return nil
}

// GetByEssay implements store.InvalidationStore.GetByEssay.
func (s *InvalidationStore) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.EssayInvalidation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, corrector_id, essay_id, reason, comment, invalidation_date
		FROM essay_invalidations
		WHERE essay_id = $1
	`

	var inv domain.EssayInvalidation
	var reason string
	err := s.db.QueryRowContext(ctx, query, essayID).Scan(
		&inv.ID,
		&inv.CorrectorID,
		&inv.EssayID,
		&reason,
		&inv.Comment,
		&inv.InvalidationDate,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInvalidationNotFound
		}
		log.Error("failed to get invalidation by essay",
			slog.String("error", err.Error()),
			slog.String("essay_id", essayID.String()))
		return nil, err
	}

	inv.Reason = domain.InvalidationReason(reason)
	return &inv, nil
}

// WithTx implements store.InvalidationStore.WithTx.
func (s *InvalidationStore) WithTx(tx *sql.Tx) store.InvalidationStore {
	return &InvalidationStore{db: tx, logger: s.logger}
}
