package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// ThemeStore implements the store.ThemeStore interface using a PostgreSQL
// database as the storage backend. The course set is stored as a
// comma-separated list to stay independent of array extensions.
type ThemeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewThemeStore creates a new PostgreSQL implementation of the ThemeStore
// interface. If logger is nil, a default logger is used.
func NewThemeStore(db store.DBTX, logger *slog.Logger) *ThemeStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ThemeStore{
		db:     db,
		logger: logger.With(slog.String("component", "theme_store")),
	}
}

var _ store.ThemeStore = (*ThemeStore)(nil)

const themeColumns = `id, title, help_text, file, courses, start_date, end_date, deactivated, updated_at`

// Create implements store.ThemeStore.Create.
func (s *ThemeStore) Create(ctx context.Context, theme *domain.EssayTheme) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := theme.Validate(); err != nil {
		log.Warn("theme validation failed during create",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	query := `
		INSERT INTO essay_themes (` + themeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		theme.ID,
		theme.Title,
		theme.HelpText,
		theme.File,
		joinCourses(theme.Courses),
		theme.StartDate,
		theme.EndDate,
		theme.Deactivated,
		theme.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	log.Info("theme created successfully",
		slog.String("theme_id", theme.ID.String()),
		slog.String("title", theme.Title))
	return nil
}

// GetByID implements store.ThemeStore.GetByID.
func (s *ThemeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + themeColumns + ` FROM essay_themes WHERE id = $1`

	theme, err := scanTheme(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrThemeNotFound
		}
		log.Error("failed to get theme by ID",
			slog.String("error", err.Error()),
			slog.String("theme_id", id.String()))
		return nil, err
	}

	return theme, nil
}

// GetActiveByCourse implements store.ThemeStore.GetActiveByCourse.
func (s *ThemeStore) GetActiveByCourse(
	ctx context.Context,
	course domain.Course,
	at time.Time,
) (*domain.EssayTheme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The course list is comma-separated; match it as a delimited token.
	query := `
		SELECT ` + themeColumns + `
		FROM essay_themes
		WHERE deactivated = false
			AND start_date <= $1
			AND end_date > $1
			AND (',' || courses || ',') LIKE $2
		ORDER BY start_date DESC
		LIMIT 1
	`

	theme, err := scanTheme(s.db.QueryRowContext(ctx, query, at, "%,"+string(course)+",%"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrThemeNotFound
		}
		log.Error("failed to get active theme",
			slog.String("error", err.Error()),
			slog.String("course", string(course)))
		return nil, err
	}

	return theme, nil
}

// List implements store.ThemeStore.List.
func (s *ThemeStore) List(
	ctx context.Context,
	filter store.ThemeFilter,
	page store.Pagination,
) ([]*domain.EssayTheme, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := themeConditions(filter)
	query := `SELECT ` + themeColumns + ` FROM essay_themes` + where + ` ORDER BY start_date DESC`
	query += paginationClause(page, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list themes", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	themes := []*domain.EssayTheme{}
	for rows.Next() {
		theme, err := scanTheme(rows)
		if err != nil {
			log.Error("failed to scan theme row", slog.String("error", err.Error()))
			return nil, err
		}
		themes = append(themes, theme)
	}

	return themes, rows.Err()
}

// Count implements store.ThemeStore.Count.
func (s *ThemeStore) Count(ctx context.Context, filter store.ThemeFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := themeConditions(filter)
	query := `SELECT count(*) FROM essay_themes` + where

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count themes", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// Update implements store.ThemeStore.Update.
func (s *ThemeStore) Update(ctx context.Context, theme *domain.EssayTheme) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := theme.Validate(); err != nil {
		log.Warn("theme validation failed during update",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	theme.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE essay_themes
		SET title = $1, help_text = $2, file = $3, courses = $4,
			start_date = $5, end_date = $6, deactivated = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		theme.Title,
		theme.HelpText,
		theme.File,
		joinCourses(theme.Courses),
		theme.StartDate,
		theme.EndDate,
		theme.Deactivated,
		theme.UpdatedAt,
		theme.ID,
	)

	if err != nil {
		log.Error("failed to update theme",
			slog.String("error", err.Error()),
			slog.String("theme_id", theme.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrThemeNotFound
	}

	log.Info("theme updated successfully", slog.String("theme_id", theme.ID.String()))
	return nil
}

// WithTx implements store.ThemeStore.WithTx.
func (s *ThemeStore) WithTx(tx *sql.Tx) store.ThemeStore {
	return &ThemeStore{db: tx, logger: s.logger}
}

func themeConditions(filter store.ThemeFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Course != nil {
		args = append(args, "%,"+string(*filter.Course)+",%")
		conds = append(conds, fmt.Sprintf("(',' || courses || ',') LIKE $%d", len(args)))
	}
	if filter.Deactivated != nil {
		args = append(args, *filter.Deactivated)
		conds = append(conds, fmt.Sprintf("deactivated = $%d", len(args)))
	}
	if filter.Period != nil {
		args = append(args, filter.Period.Start)
		conds = append(conds, fmt.Sprintf("end_date > $%d", len(args)))
		args = append(args, filter.Period.End)
		conds = append(conds, fmt.Sprintf("start_date < $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func joinCourses(courses []domain.Course) string {
	parts := make([]string, len(courses))
	for i, c := range courses {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func splitCourses(raw string) []domain.Course {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	courses := make([]domain.Course, len(parts))
	for i, p := range parts {
		courses[i] = domain.Course(p)
	}
	return courses
}

func scanTheme(row scanner) (*domain.EssayTheme, error) {
	var theme domain.EssayTheme
	var courses string

	err := row.Scan(
		&theme.ID,
		&theme.Title,
		&theme.HelpText,
		&theme.File,
		&courses,
		&theme.StartDate,
		&theme.EndDate,
		&theme.Deactivated,
		&theme.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	theme.Courses = splitCourses(courses)
	return &theme, nil
}
