package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// EssayInvalidationData carries the input for invalidating an essay.
type EssayInvalidationData struct {
	EssayID     uuid.UUID
	CorrectorID uuid.UUID
	Reason      domain.InvalidationReason
	Comment     string
}

// InvalidationService records essay invalidations.
type InvalidationService interface {
	// Create invalidates the essay held by the corrector: it records the
	// invalidation and moves the essay to invalid in a single transaction.
	Create(ctx context.Context, data EssayInvalidationData) (*domain.EssayInvalidation, error)

	// GetByEssay retrieves the invalidation recorded for the given essay.
	GetByEssay(ctx context.Context, essayID uuid.UUID) (*domain.EssayInvalidation, error)
}

// invalidationServiceImpl implements the InvalidationService interface.
type invalidationServiceImpl struct {
	invalidations store.InvalidationStore
	essays        store.EssayStore
	txRunner      store.TxRunner
	logger        *slog.Logger
}

// NewInvalidationService creates a new InvalidationService.
func NewInvalidationService(
	invalidations store.InvalidationStore,
	essays store.EssayStore,
	txRunner store.TxRunner,
	logger *slog.Logger,
) InvalidationService {
	if invalidations == nil || essays == nil || txRunner == nil {
		panic("invalidation service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &invalidationServiceImpl{
		invalidations: invalidations,
		essays:        essays,
		txRunner:      txRunner,
		logger:        logger.With(slog.String("component", "invalidation_service")),
	}
}

// Create implements InvalidationService.Create.
func (s *invalidationServiceImpl) Create(
	ctx context.Context,
	data EssayInvalidationData,
) (*domain.EssayInvalidation, error) {
	essay, err := s.essays.GetByID(ctx, data.EssayID)
	if err != nil {
		return nil, err
	}

	if essay.Status != domain.EssayStatusCorrecting {
		return nil, fmt.Errorf("%w: essay is not in correction", ErrInvalidState)
	}
	if !essay.CorrectedBy(data.CorrectorID) {
		return nil, fmt.Errorf("%w: essay is held by another corrector", ErrUnauthorized)
	}

	invalidation, err := domain.NewEssayInvalidation(
		data.CorrectorID,
		essay.ID,
		data.Reason,
		data.Comment,
	)
	if err != nil {
		return nil, err
	}

	if err := essay.MarkInvalid(); err != nil {
		return nil, fmt.Errorf("%w: essay cannot be invalidated", ErrInvalidState)
	}

	// The invalidation record and the status flip must land together; an
	// invalid essay without its record would be unexplainable to the student.
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.invalidations.WithTx(tx).Create(ctx, invalidation); err != nil {
			return err
		}
		return s.essays.WithTx(tx).Update(ctx, essay)
	})
	if err != nil {
		return nil, &ServiceError{
			Service:   "invalidation_service",
			Operation: "create_invalidation",
			Message:   "failed to record invalidation",
			Err:       err,
		}
	}

	s.logger.Info("essay invalidated",
		slog.String("essay_id", essay.ID.String()),
		slog.String("corrector_id", data.CorrectorID.String()),
		slog.String("reason", string(data.Reason)))
	return invalidation, nil
}

// GetByEssay implements InvalidationService.GetByEssay.
func (s *invalidationServiceImpl) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.EssayInvalidation, error) {
	return s.invalidations.GetByEssay(ctx, essayID)
}
