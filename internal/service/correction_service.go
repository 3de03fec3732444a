package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/store"
)

// CorrectionData carries the input for delivering a correction.
type CorrectionData struct {
	EssayID     uuid.UUID
	CorrectorID uuid.UUID
	Criteria    domain.CorrectionCriteria
	Comment     string
	Points      float64
}

// CorrectionService records the grading delivered for essays.
type CorrectionService interface {
	// Create delivers the correction for the essay held by the corrector:
	// it records the correction and moves the essay to revised in a single
	// transaction, then notifies the student by email.
	Create(ctx context.Context, data CorrectionData) (*domain.Correction, error)

	// GetByEssay retrieves the correction delivered for the given essay.
	GetByEssay(ctx context.Context, essayID uuid.UUID) (*domain.Correction, error)
}

// correctionServiceImpl implements the CorrectionService interface.
type correctionServiceImpl struct {
	corrections store.CorrectionStore
	essays      store.EssayStore
	users       store.UserStore
	txRunner    store.TxRunner
	mailer      mailer.Mailer
	logger      *slog.Logger
}

// NewCorrectionService creates a new CorrectionService.
func NewCorrectionService(
	corrections store.CorrectionStore,
	essays store.EssayStore,
	users store.UserStore,
	txRunner store.TxRunner,
	m mailer.Mailer,
	logger *slog.Logger,
) CorrectionService {
	if corrections == nil || essays == nil || users == nil || txRunner == nil || m == nil {
		panic("correction service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &correctionServiceImpl{
		corrections: corrections,
		essays:      essays,
		users:       users,
		txRunner:    txRunner,
		mailer:      m,
		logger:      logger.With(slog.String("component", "correction_service")),
	}
}

// Create implements CorrectionService.Create.
func (s *correctionServiceImpl) Create(
	ctx context.Context,
	data CorrectionData,
) (*domain.Correction, error) {
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

	// The assignment invariant should already guarantee this, but the
	// grade record is too important to rest on it alone.
	corrector, err := s.users.GetByID(ctx, data.CorrectorID)
	if err != nil {
		return nil, err
	}
	if !corrector.CanCorrect() {
		return nil, fmt.Errorf("%w: user cannot correct essays", ErrUnauthorized)
	}

	correction, err := domain.NewCorrection(essay.ID, data.Criteria, data.Comment, data.Points)
	if err != nil {
		return nil, err
	}

	if err := essay.MarkRevised(); err != nil {
		return nil, fmt.Errorf("%w: essay cannot be revised", ErrInvalidState)
	}

	// The correction record and the status flip must land together; a
	// revised essay without its correction loses the student's grade.
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.corrections.WithTx(tx).Create(ctx, correction); err != nil {
			return err
		}
		return s.essays.WithTx(tx).Update(ctx, essay)
	})
	if err != nil {
		return nil, &ServiceError{
			Service:   "correction_service",
			Operation: "create_correction",
			Message:   "failed to record correction",
			Err:       err,
		}
	}

	s.logger.Info("essay corrected",
		slog.String("essay_id", essay.ID.String()),
		slog.String("corrector_id", data.CorrectorID.String()),
		slog.Float64("points", correction.Points))

	// Notification is best effort; the correction already committed.
	go s.notifyStudent(context.WithoutCancel(ctx), essay)

	return correction, nil
}

// notifyStudent emails the essay's author that the correction is available.
func (s *correctionServiceImpl) notifyStudent(ctx context.Context, essay *domain.Essay) {
	student, err := s.users.GetByID(ctx, essay.StudentID)
	if err != nil {
		s.logger.Warn("failed to load student for correction notification",
			slog.String("essay_id", essay.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	msg := mailer.Message{
		To:      student.Email,
		ToName:  student.FullName(),
		Subject: "Sua redação foi corrigida",
		Text:    "A correção da sua redação já está disponível na plataforma.",
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Warn("failed to send correction notification",
			slog.String("essay_id", essay.ID.String()),
			slog.String("error", err.Error()))
	}
}

// GetByEssay implements CorrectionService.GetByEssay.
func (s *correctionServiceImpl) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.Correction, error) {
	return s.corrections.GetByEssay(ctx, essayID)
}
