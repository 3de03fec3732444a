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

// CorrectionStore implements the store.CorrectionStore interface using a
// PostgreSQL database as the storage backend.
type CorrectionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCorrectionStore creates a new PostgreSQL implementation of the
// CorrectionStore interface. If logger is nil, a default logger is used.
func NewCorrectionStore(db store.DBTX, logger *slog.Logger) *CorrectionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CorrectionStore{
		db:     db,
		logger: logger.With(slog.String("component", "correction_store")),
	}
}

var _ store.CorrectionStore = (*CorrectionStore)(nil)

const correctionColumns = `id, essay_id, correction_date, is_readable, has_margin_spacing,
	obeyed_margins, erasures, orthography, accentuation, agreement, repeated,
	very_short_sentences, understood_theme, followed_genre, cohesion, organized,
	conclusion, comment, points`

// Create implements store.CorrectionStore.Create.
func (s *CorrectionStore) Create(ctx context.Context, correction *domain.Correction) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := correction.Validate(); err != nil {
		log.Warn("correction validation failed during create",
			slog.String("error", err.Error()),
			slog.String("correction_id", correction.ID.String()))
		return err
	}

	query := `
		INSERT INTO essay_corrections (` + correctionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		correction.ID,
		correction.EssayID,
		correction.CorrectionDate,
		correction.IsReadable,
		correction.HasMarginSpacing,
		correction.ObeyedMargins,
		correction.Erasures,
		correction.Orthography,
		correction.Accentuation,
		correction.Agreement,
		correction.Repeated,
		correction.VeryShortSentences,
		correction.UnderstoodTheme,
		correction.FollowedGenre,
		correction.Cohesion,
		correction.Organized,
		correction.Conclusion,
		correction.Comment,
		correction.Points,
	)

	if err != nil {
		if isUniqueViolation(err, "essay_corrections_essay_id_key") {
			return fmt.Errorf("%w: correction for essay", store.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: essay not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create correction",
			slog.String("error", err.Error()),
			slog.String("essay_id", correction.EssayID.String()))
		return err
	}

	log.Info("correction created successfully",
		slog.String("correction_id", correction.ID.String()),
		slog.String("essay_id", correction.EssayID.String()))
	return nil
}

// GetByEssay implements store.CorrectionStore.GetByEssay.
func (s *CorrectionStore) GetByEssay(
	ctx context.Context,
	essayID uuid.UUID,
) (*domain.Correction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + correctionColumns + ` FROM essay_corrections WHERE essay_id = $1`

	var c domain.Correction
	err := s.db.QueryRowContext(ctx, query, essayID).Scan(
		&c.ID,
		&c.EssayID,
		&c.CorrectionDate,
		&c.IsReadable,
		&c.HasMarginSpacing,
		&c.ObeyedMargins,
		&c.Erasures,
		&c.Orthography,
		&c.Accentuation,
		&c.Agreement,
		&c.Repeated,
		&c.VeryShortSentences,
		&c.UnderstoodTheme,
		&c.FollowedGenre,
		&c.Cohesion,
		&c.Organized,
		&c.Conclusion,
		&c.Comment,
		&c.Points,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCorrectionNotFound
		}
		log.Error("failed to get correction by essay",
			slog.String("error", err.Error()),
			slog.String("essay_id", essayID.String()))
		return nil, err
	}

	return &c, nil
}

// WithTx implements store.CorrectionStore.WithTx.
func (s *CorrectionStore) WithTx(tx *sql.Tx) store.CorrectionStore {
	return &CorrectionStore{db: tx, logger: s.logger}
}
