package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// ThemeData carries the input for creating a theme.
type ThemeData struct {
	Title     string
	HelpText  string
	File      string
	Courses   []domain.Course
	StartDate time.Time
	EndDate   time.Time
}

// ThemeUpdateData carries the mutable theme fields. Nil fields are left
// unchanged.
type ThemeUpdateData struct {
	Title       *string
	HelpText    *string
	File        *string
	Courses     []domain.Course
	StartDate   *time.Time
	EndDate     *time.Time
	Deactivated *bool
}

// ThemeService manages essay themes.
type ThemeService interface {
	// Create publishes a new theme.
	Create(ctx context.Context, data ThemeData) (*domain.EssayTheme, error)

	// Get retrieves a theme by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error)

	// ActiveByCourse retrieves the theme currently accepting submissions
	// for the course.
	ActiveByCourse(ctx context.Context, course domain.Course) (*domain.EssayTheme, error)

	// List retrieves themes matching the filter, newest first.
	List(ctx context.Context, filter store.ThemeFilter, page store.Pagination) ([]*domain.EssayTheme, error)

	// Count returns the number of themes matching the filter.
	Count(ctx context.Context, filter store.ThemeFilter) (int, error)

	// Update applies a partial update to a theme. The resulting theme must
	// still pass domain validation.
	Update(ctx context.Context, id uuid.UUID, data ThemeUpdateData) (*domain.EssayTheme, error)
}

// themeServiceImpl implements the ThemeService interface.
type themeServiceImpl struct {
	themes store.ThemeStore
	logger *slog.Logger
	now    nowFunc
}

// NewThemeService creates a new ThemeService.
func NewThemeService(themes store.ThemeStore, logger *slog.Logger) ThemeService {
	if themes == nil {
		panic("themes cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &themeServiceImpl{
		themes: themes,
		logger: logger.With(slog.String("component", "theme_service")),
		now:    utcNow,
	}
}

// Create implements ThemeService.Create.
func (s *themeServiceImpl) Create(ctx context.Context, data ThemeData) (*domain.EssayTheme, error) {
	theme, err := domain.NewEssayTheme(
		data.Title,
		data.HelpText,
		data.File,
		data.Courses,
		data.StartDate,
		data.EndDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.themes.Create(ctx, theme); err != nil {
		return nil, err
	}

	s.logger.Info("theme created",
		slog.String("theme_id", theme.ID.String()),
		slog.String("title", theme.Title))
	return theme, nil
}

// Get implements ThemeService.Get.
func (s *themeServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.EssayTheme, error) {
	return s.themes.GetByID(ctx, id)
}

// ActiveByCourse implements ThemeService.ActiveByCourse.
func (s *themeServiceImpl) ActiveByCourse(
	ctx context.Context,
	course domain.Course,
) (*domain.EssayTheme, error) {
	if !domain.IsValidCourse(course) {
		return nil, domain.ErrInvalidCourse
	}
	return s.themes.GetActiveByCourse(ctx, course, s.now())
}

// List implements ThemeService.List.
func (s *themeServiceImpl) List(
	ctx context.Context,
	filter store.ThemeFilter,
	page store.Pagination,
) ([]*domain.EssayTheme, error) {
	return s.themes.List(ctx, filter, page)
}

// Count implements ThemeService.Count.
func (s *themeServiceImpl) Count(ctx context.Context, filter store.ThemeFilter) (int, error) {
	return s.themes.Count(ctx, filter)
}

// Update implements ThemeService.Update.
func (s *themeServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	data ThemeUpdateData,
) (*domain.EssayTheme, error) {
	theme, err := s.themes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.Title != nil {
		theme.Title = *data.Title
	}
	if data.HelpText != nil {
		theme.HelpText = *data.HelpText
	}
	if data.File != nil {
		theme.File = *data.File
	}
	if data.Courses != nil {
		theme.Courses = data.Courses
	}
	if data.StartDate != nil {
		theme.StartDate = data.StartDate.UTC()
	}
	if data.EndDate != nil {
		theme.EndDate = data.EndDate.UTC()
	}
	if data.Deactivated != nil {
		theme.Deactivated = *data.Deactivated
	}
	theme.UpdatedAt = s.now()

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	if err := s.themes.Update(ctx, theme); err != nil {
		return nil, err
	}

	s.logger.Info("theme updated", slog.String("theme_id", theme.ID.String()))
	return theme, nil
}
