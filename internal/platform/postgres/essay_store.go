package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// EssayStore implements the store.EssayStore interface using a PostgreSQL
// database as the storage backend.
type EssayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewEssayStore creates a new PostgreSQL implementation of the EssayStore
// interface. If logger is nil, a default logger is used.
func NewEssayStore(db store.DBTX, logger *slog.Logger) *EssayStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &EssayStore{
		db:     db,
		logger: logger.With(slog.String("component", "essay_store")),
	}
}

var _ store.EssayStore = (*EssayStore)(nil)

const essayColumns = `id, file, student_id, theme_id, course, send_date, status, corrector_id, updated_at`

// Create implements store.EssayStore.Create.
func (s *EssayStore) Create(ctx context.Context, essay *domain.Essay) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := essay.Validate(); err != nil {
		log.Warn("essay validation failed during create",
			slog.String("error", err.Error()),
			slog.String("essay_id", essay.ID.String()))
		return err
	}

	query := `
		INSERT INTO essays (` + essayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		essay.ID,
		essay.File,
		essay.StudentID,
		essay.ThemeID,
		essay.Course,
		essay.SendDate,
		essay.Status,
		essay.CorrectorID,
		essay.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during essay creation",
				slog.String("error", err.Error()),
				slog.String("student_id", essay.StudentID.String()),
				slog.String("theme_id", essay.ThemeID.String()))
			return fmt.Errorf("%w: student or theme not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create essay",
			slog.String("error", err.Error()),
			slog.String("essay_id", essay.ID.String()))
		return err
	}

	log.Info("essay created successfully",
		slog.String("essay_id", essay.ID.String()),
		slog.String("student_id", essay.StudentID.String()),
		slog.String("status", string(essay.Status)))
	return nil
}

// GetByID implements store.EssayStore.GetByID.
func (s *EssayStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Essay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + essayColumns + ` FROM essays WHERE id = $1`

	essay, err := scanEssay(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrEssayNotFound
		}
		log.Error("failed to get essay by ID",
			slog.String("error", err.Error()),
			slog.String("essay_id", id.String()))
		return nil, err
	}

	return essay, nil
}

// List implements store.EssayStore.List.
func (s *EssayStore) List(
	ctx context.Context,
	filter store.EssayFilter,
	page store.Pagination,
) ([]*domain.Essay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := essayConditions(filter)
	query := `SELECT ` + essayColumns + ` FROM essays` + where + ` ORDER BY send_date`
	query += paginationClause(page, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list essays", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	essays := []*domain.Essay{}
	for rows.Next() {
		essay, err := scanEssay(rows)
		if err != nil {
			log.Error("failed to scan essay row", slog.String("error", err.Error()))
			return nil, err
		}
		essays = append(essays, essay)
	}

	return essays, rows.Err()
}

// Count implements store.EssayStore.Count.
func (s *EssayStore) Count(ctx context.Context, filter store.EssayFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := essayConditions(filter)
	query := `SELECT count(*) FROM essays` + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count essays", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// Exists implements store.EssayStore.Exists.
func (s *EssayStore) Exists(ctx context.Context, filter store.EssayFilter) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := essayConditions(filter)
	query := `SELECT EXISTS (SELECT 1 FROM essays` + where + `)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		log.Error("failed to check essay existence", slog.String("error", err.Error()))
		return false, err
	}

	return exists, nil
}

// Update implements store.EssayStore.Update.
func (s *EssayStore) Update(ctx context.Context, essay *domain.Essay) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := essay.Validate(); err != nil {
		log.Warn("essay validation failed during update",
			slog.String("error", err.Error()),
			slog.String("essay_id", essay.ID.String()))
		return err
	}

	query := `
		UPDATE essays
		SET file = $1, status = $2, corrector_id = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		essay.File,
		essay.Status,
		essay.CorrectorID,
		essay.UpdatedAt,
		essay.ID,
	)

	if err != nil {
		log.Error("failed to update essay",
			slog.String("error", err.Error()),
			slog.String("essay_id", essay.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrEssayNotFound
	}

	log.Info("essay updated successfully",
		slog.String("essay_id", essay.ID.String()),
		slog.String("status", string(essay.Status)))
	return nil
}

// AssignCorrector implements store.EssayStore.AssignCorrector.
// The claim is a single conditional UPDATE so that two correctors racing for
// the same essay cannot both win.
func (s *EssayStore) AssignCorrector(
	ctx context.Context,
	essayID, correctorID uuid.UUID,
) (*domain.Essay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE essays
		SET corrector_id = $2, status = $3, updated_at = now()
		WHERE id = $1
			AND status IN ($4, $3)
			AND (corrector_id IS NULL OR corrector_id = $2)
		RETURNING ` + essayColumns

	essay, err := scanEssay(s.db.QueryRowContext(
		ctx,
		query,
		essayID,
		correctorID,
		domain.EssayStatusCorrecting,
		domain.EssayStatusPending,
	))

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("failed to assign corrector",
				slog.String("error", err.Error()),
				slog.String("essay_id", essayID.String()),
				slog.String("corrector_id", correctorID.String()))
			return nil, err
		}

		// No row matched: either the essay does not exist or another
		// corrector holds it.
		var exists bool
		checkErr := s.db.QueryRowContext(
			ctx, `SELECT EXISTS (SELECT 1 FROM essays WHERE id = $1)`, essayID,
		).Scan(&exists)
		if checkErr != nil {
			return nil, checkErr
		}
		if !exists {
			return nil, store.ErrEssayNotFound
		}

		log.Warn("essay already claimed by another corrector",
			slog.String("essay_id", essayID.String()),
			slog.String("corrector_id", correctorID.String()))
		return nil, store.ErrConflict
	}

	log.Info("corrector assigned to essay",
		slog.String("essay_id", essayID.String()),
		slog.String("corrector_id", correctorID.String()))
	return essay, nil
}

// WithTx implements store.EssayStore.WithTx.
func (s *EssayStore) WithTx(tx *sql.Tx) store.EssayStore {
	return &EssayStore{db: tx, logger: s.logger}
}

func essayConditions(filter store.EssayFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conds = append(conds, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.ThemeID != nil {
		args = append(args, *filter.ThemeID)
		conds = append(conds, fmt.Sprintf("theme_id = $%d", len(args)))
	}
	if filter.CorrectorID != nil {
		args = append(args, *filter.CorrectorID)
		conds = append(conds, fmt.Sprintf("corrector_id = $%d", len(args)))
	}
	if filter.Course != nil {
		args = append(args, *filter.Course)
		conds = append(conds, fmt.Sprintf("course = $%d", len(args)))
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, 0, len(filter.Status))
		for _, status := range filter.Status {
			args = append(args, status)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conds = append(conds, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.Period != nil {
		args = append(args, filter.Period.Start)
		conds = append(conds, fmt.Sprintf("send_date >= $%d", len(args)))
		args = append(args, filter.Period.End)
		conds = append(conds, fmt.Sprintf("send_date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanEssay(row scanner) (*domain.Essay, error) {
	var essay domain.Essay
	var course, status string
	var corrector uuid.NullUUID

	err := row.Scan(
		&essay.ID,
		&essay.File,
		&essay.StudentID,
		&essay.ThemeID,
		&course,
		&essay.SendDate,
		&status,
		&corrector,
		&essay.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	essay.Course = domain.Course(course)
	essay.Status = domain.EssayStatus(status)
	if corrector.Valid {
		id := corrector.UUID
		essay.CorrectorID = &id
	}
	return &essay, nil
}
