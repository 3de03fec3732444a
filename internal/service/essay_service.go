package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// liveEssayStatuses are the statuses that block a new submission for the
// same (student, theme) pair. Only an invalidated essay frees the slot.
var liveEssayStatuses = []domain.EssayStatus{
	domain.EssayStatusPending,
	domain.EssayStatusCorrecting,
	domain.EssayStatusRevised,
}

// EssayCreationData selects one of the three submission modes by which
// field is set: Course (submission against the active theme), Token
// (single-essay token) or InvalidEssayID (resubmission after invalidation).
// Exactly one selector must be present.
type EssayCreationData struct {
	StudentID      uuid.UUID
	File           string
	Course         domain.Course
	Token          string
	InvalidEssayID uuid.UUID
}

// EssayUpdateData carries the only two essay fields mutable through
// PartialUpdate. CorrectorID assigns a corrector; ClearCorrector releases
// the current one; they are mutually exclusive.
type EssayUpdateData struct {
	CorrectorID    *uuid.UUID
	ClearCorrector bool
	Status         *domain.EssayStatus
}

// EssayChartFilter narrows the sent-essays histogram.
type EssayChartFilter struct {
	CorrectorID *uuid.UUID
	Course      *domain.Course
	Period      *store.Period
}

// EssayService orchestrates the essay lifecycle.
type EssayService interface {
	// Create submits a new essay through one of the three modes selected
	// by EssayCreationData. The created essay starts in pending status.
	Create(ctx context.Context, data EssayCreationData) (*domain.Essay, error)

	// Get retrieves an essay by its ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Essay, error)

	// List retrieves essays matching the filter.
	List(ctx context.Context, filter store.EssayFilter, page store.Pagination) ([]*domain.Essay, error)

	// Count returns the number of essays matching the filter.
	Count(ctx context.Context, filter store.EssayFilter) (int, error)

	// PartialUpdate mutates the corrector assignment and/or status of an
	// essay. When actingCorrector is given, the call is scoped: it must
	// match the essay's current corrector or the update is rejected.
	PartialUpdate(
		ctx context.Context,
		id uuid.UUID,
		data EssayUpdateData,
		actingCorrector *uuid.UUID,
	) (*domain.Essay, error)

	// CancelCorrecting releases the essay back to the pending pool. Only
	// the assigned corrector may cancel.
	CancelCorrecting(ctx context.Context, id, correctorID uuid.UUID) (*domain.Essay, error)

	// SentChart produces a fixed-length monthly histogram of essay counts
	// by send date, defaulting to the trailing twelve months.
	SentChart(ctx context.Context, filter EssayChartFilter) ([]ChartPoint, error)

	// CanResend reports whether the student may resubmit the given
	// invalidated essay. Any failure is reported as false.
	CanResend(ctx context.Context, id, studentID uuid.UUID) bool
}

// essayServiceImpl implements the EssayService interface.
type essayServiceImpl struct {
	essays        store.EssayStore
	themes        store.ThemeStore
	users         store.UserStore
	subscriptions store.SubscriptionStore
	settings      store.SettingsStore
	invalidations store.InvalidationStore
	tokens        store.TokenStore
	tokenVerifier TokenVerifier
	txRunner      store.TxRunner
	logger        *slog.Logger
	now           nowFunc
}

// NewEssayService creates a new EssayService.
// It panics if any required dependency is nil; a nil logger falls back to
// the default logger.
func NewEssayService(
	essays store.EssayStore,
	themes store.ThemeStore,
	users store.UserStore,
	subscriptions store.SubscriptionStore,
	settings store.SettingsStore,
	invalidations store.InvalidationStore,
	tokens store.TokenStore,
	tokenVerifier TokenVerifier,
	txRunner store.TxRunner,
	logger *slog.Logger,
) EssayService {
	if essays == nil || themes == nil || users == nil || subscriptions == nil ||
		settings == nil || invalidations == nil || tokens == nil ||
		tokenVerifier == nil || txRunner == nil {
		panic("essay service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &essayServiceImpl{
		essays:        essays,
		themes:        themes,
		users:         users,
		subscriptions: subscriptions,
		settings:      settings,
		invalidations: invalidations,
		tokens:        tokens,
		tokenVerifier: tokenVerifier,
		txRunner:      txRunner,
		logger:        logger.With(slog.String("component", "essay_service")),
		now:           utcNow,
	}
}

// Create implements EssayService.Create.
func (s *essayServiceImpl) Create(
	ctx context.Context,
	data EssayCreationData,
) (*domain.Essay, error) {
	selectors := 0
	if data.Course != "" {
		selectors++
	}
	if data.Token != "" {
		selectors++
	}
	if data.InvalidEssayID != uuid.Nil {
		selectors++
	}
	if selectors != 1 {
		return nil, fmt.Errorf(
			"%w: exactly one of course, token or invalid essay must be given",
			domain.ErrValidation,
		)
	}

	student, err := s.activeStudent(ctx, data.StudentID)
	if err != nil {
		return nil, err
	}

	switch {
	case data.Course != "":
		return s.createByTheme(ctx, student, data)
	case data.Token != "":
		return s.createByToken(ctx, student, data)
	default:
		return s.createByResubmission(ctx, student, data)
	}
}

// activeStudent resolves the submitting student and checks the account is
// active.
func (s *essayServiceImpl) activeStudent(
	ctx context.Context,
	studentID uuid.UUID,
) (*domain.User, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive() {
		return nil, fmt.Errorf("%w: student account is inactive", ErrUnauthorized)
	}
	return student, nil
}

func (s *essayServiceImpl) createByTheme(
	ctx context.Context,
	student *domain.User,
	data EssayCreationData,
) (*domain.Essay, error) {
	if !domain.IsValidCourse(data.Course) {
		return nil, domain.ErrInvalidCourse
	}

	theme, err := s.themes.GetActiveByCourse(ctx, data.Course, s.now())
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTheme, data.Course)
		}
		return nil, err
	}

	if err := s.checkSubscription(ctx, student.ID, theme); err != nil {
		return nil, err
	}

	if err := s.ensureNotSubmitted(ctx, student.ID, theme.ID); err != nil {
		return nil, err
	}

	essay, err := domain.NewEssay(data.File, student.ID, theme.ID, data.Course)
	if err != nil {
		return nil, err
	}

	if err := s.essays.Create(ctx, essay); err != nil {
		return nil, err
	}

	s.logger.Info("essay submitted by theme",
		slog.String("essay_id", essay.ID.String()),
		slog.String("student_id", student.ID.String()),
		slog.String("course", string(data.Course)))
	return essay, nil
}

func (s *essayServiceImpl) createByToken(
	ctx context.Context,
	student *domain.User,
	data EssayCreationData,
) (*domain.Essay, error) {
	token, err := s.tokenVerifier.Check(ctx, data.Token, student.ID)
	if err != nil {
		return nil, err
	}

	theme, err := s.themes.GetByID(ctx, token.ThemeID)
	if err != nil {
		return nil, err
	}

	essay, err := domain.NewEssay(data.File, student.ID, theme.ID, courseForTheme(theme))
	if err != nil {
		return nil, err
	}

	if err := token.Consume(); err != nil {
		return nil, fmt.Errorf("%w: token already used", ErrInvalidState)
	}

	// Consuming the token and inserting the essay must stand or fall
	// together; a replayed token must not yield a second essay.
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tokens.WithTx(tx).Update(ctx, token); err != nil {
			return err
		}
		return s.essays.WithTx(tx).Create(ctx, essay)
	})
	if err != nil {
		return nil, &ServiceError{
			Service:   "essay_service",
			Operation: "create_by_token",
			Message:   "failed to consume token and create essay",
			Err:       err,
		}
	}

	s.logger.Info("essay submitted by token",
		slog.String("essay_id", essay.ID.String()),
		slog.String("student_id", student.ID.String()),
		slog.String("token_id", token.ID.String()))
	return essay, nil
}

func (s *essayServiceImpl) createByResubmission(
	ctx context.Context,
	student *domain.User,
	data EssayCreationData,
) (*domain.Essay, error) {
	prior, err := s.essays.GetByID(ctx, data.InvalidEssayID)
	if err != nil {
		return nil, err
	}

	if err := s.checkResend(ctx, prior, student.ID); err != nil {
		return nil, err
	}

	essay, err := domain.NewEssay(data.File, student.ID, prior.ThemeID, prior.Course)
	if err != nil {
		return nil, err
	}

	if err := s.essays.Create(ctx, essay); err != nil {
		return nil, err
	}

	s.logger.Info("essay resubmitted after invalidation",
		slog.String("essay_id", essay.ID.String()),
		slog.String("previous_essay_id", prior.ID.String()),
		slog.String("student_id", student.ID.String()))
	return essay, nil
}

// checkSubscription verifies the student holds an active, unexpired
// subscription covering one of the theme's courses.
func (s *essayServiceImpl) checkSubscription(
	ctx context.Context,
	studentID uuid.UUID,
	theme *domain.EssayTheme,
) error {
	active := true
	subscriptions, err := s.subscriptions.List(
		ctx,
		store.SubscriptionFilter{UserID: &studentID, Active: &active},
		store.Pagination{},
	)
	if err != nil {
		return err
	}

	now := s.now()
	for _, subscription := range subscriptions {
		if subscription.Usable(now) && theme.HasCourse(subscription.Course) {
			return nil
		}
	}

	return fmt.Errorf("%w: no usable subscription for the theme", ErrExpired)
}

// ensureNotSubmitted rejects the submission when the student already has a
// live essay for the theme.
func (s *essayServiceImpl) ensureNotSubmitted(
	ctx context.Context,
	studentID, themeID uuid.UUID,
) error {
	exists, err := s.essays.Exists(ctx, store.EssayFilter{
		StudentID: &studentID,
		ThemeID:   &themeID,
		Status:    liveEssayStatuses,
	})
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadySubmitted
	}
	return nil
}

// checkResend runs the resubmission eligibility rules for an invalidated
// essay.
func (s *essayServiceImpl) checkResend(
	ctx context.Context,
	prior *domain.Essay,
	studentID uuid.UUID,
) error {
	if prior.StudentID != studentID {
		return fmt.Errorf("%w: essay belongs to another student", ErrUnauthorized)
	}

	if prior.Status != domain.EssayStatusInvalid {
		return fmt.Errorf("%w: only invalidated essays can be resubmitted", ErrInvalidState)
	}

	invalidation, err := s.invalidations.GetByEssay(ctx, prior.ID)
	if err != nil {
		return err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	if s.now().After(invalidation.InvalidationDate.Add(settings.ResendWindow())) {
		return fmt.Errorf("%w: resend window closed", ErrExpired)
	}

	return s.ensureNotSubmitted(ctx, studentID, prior.ThemeID)
}

// Get implements EssayService.Get.
func (s *essayServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Essay, error) {
	return s.essays.GetByID(ctx, id)
}

// List implements EssayService.List.
func (s *essayServiceImpl) List(
	ctx context.Context,
	filter store.EssayFilter,
	page store.Pagination,
) ([]*domain.Essay, error) {
	return s.essays.List(ctx, filter, page)
}

// Count implements EssayService.Count.
func (s *essayServiceImpl) Count(ctx context.Context, filter store.EssayFilter) (int, error) {
	return s.essays.Count(ctx, filter)
}

// PartialUpdate implements EssayService.PartialUpdate.
func (s *essayServiceImpl) PartialUpdate(
	ctx context.Context,
	id uuid.UUID,
	data EssayUpdateData,
	actingCorrector *uuid.UUID,
) (*domain.Essay, error) {
	if data.CorrectorID != nil && data.ClearCorrector {
		return nil, fmt.Errorf(
			"%w: cannot assign and clear a corrector in the same update",
			domain.ErrValidation,
		)
	}

	essay, err := s.essays.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Scoped calls may only touch essays held by the acting corrector. The
	// exception is claiming an unheld essay for oneself.
	if actingCorrector != nil && !essay.CorrectedBy(*actingCorrector) {
		selfClaim := essay.CorrectorID == nil &&
			data.CorrectorID != nil && *data.CorrectorID == *actingCorrector
		if !selfClaim {
			return nil, fmt.Errorf("%w: essay is held by another corrector", ErrUnauthorized)
		}
	}

	if data.CorrectorID != nil {
		essay, err = s.assignCorrector(ctx, essay, *data.CorrectorID)
		if err != nil {
			return nil, err
		}
	}

	dirty := false

	if data.ClearCorrector {
		if err := essay.CancelCorrection(); err != nil {
			return nil, fmt.Errorf("%w: essay is not in correction", ErrInvalidState)
		}
		dirty = true
	}

	if data.Status != nil && essay.Status != *data.Status {
		if err := s.applyStatus(essay, *data.Status); err != nil {
			return nil, err
		}
		dirty = true
	}

	if dirty {
		if err := s.essays.Update(ctx, essay); err != nil {
			return nil, err
		}
	}

	s.logger.Info("essay updated",
		slog.String("essay_id", essay.ID.String()),
		slog.String("status", string(essay.Status)))
	return essay, nil
}

// assignCorrector validates the target corrector and claims the essay with
// a conditional write, so two correctors racing for the same essay cannot
// both win.
func (s *essayServiceImpl) assignCorrector(
	ctx context.Context,
	essay *domain.Essay,
	correctorID uuid.UUID,
) (*domain.Essay, error) {
	// A held essay rejects reassignment before the target is even looked
	// up; the outcome must not depend on who the new corrector is.
	if essay.CorrectorID != nil && *essay.CorrectorID != correctorID {
		return nil, fmt.Errorf("%w: essay already in correction", ErrInvalidState)
	}

	corrector, err := s.users.GetByID(ctx, correctorID)
	if err != nil {
		return nil, err
	}
	if !corrector.CanCorrect() {
		return nil, fmt.Errorf("%w: user cannot correct essays", ErrUnauthorized)
	}

	updated, err := s.essays.AssignCorrector(ctx, essay.ID, corrector.ID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Lost the race against another corrector.
			return nil, fmt.Errorf("%w: essay already in correction", ErrInvalidState)
		}
		return nil, err
	}

	return updated, nil
}

// applyStatus performs an explicit status transition requested through
// PartialUpdate.
func (s *essayServiceImpl) applyStatus(essay *domain.Essay, status domain.EssayStatus) error {
	var err error
	switch status {
	case domain.EssayStatusPending:
		err = essay.CancelCorrection()
	case domain.EssayStatusCorrecting:
		if essay.CorrectorID == nil {
			err = domain.ErrInvalidTransition
		}
	case domain.EssayStatusRevised:
		err = essay.MarkRevised()
	case domain.EssayStatusInvalid:
		err = essay.MarkInvalid()
	default:
		return domain.ErrInvalidEssayState
	}

	if err != nil {
		return fmt.Errorf("%w: cannot move essay to %s", ErrInvalidState, status)
	}
	return nil
}

// CancelCorrecting implements EssayService.CancelCorrecting.
func (s *essayServiceImpl) CancelCorrecting(
	ctx context.Context,
	id, correctorID uuid.UUID,
) (*domain.Essay, error) {
	pending := domain.EssayStatusPending
	return s.PartialUpdate(
		ctx,
		id,
		EssayUpdateData{ClearCorrector: true, Status: &pending},
		&correctorID,
	)
}

// SentChart implements EssayService.SentChart.
func (s *essayServiceImpl) SentChart(
	ctx context.Context,
	filter EssayChartFilter,
) ([]ChartPoint, error) {
	period := chartPeriod(filter.Period, s.now())

	essays, err := s.essays.List(ctx, store.EssayFilter{
		CorrectorID: filter.CorrectorID,
		Course:      filter.Course,
		Period:      &period,
	}, store.Pagination{})
	if err != nil {
		return nil, err
	}

	instants := make([]time.Time, len(essays))
	for i, essay := range essays {
		instants[i] = essay.SendDate
	}

	return monthlyHistogram(period, instants), nil
}

// CanResend implements EssayService.CanResend.
// It is a read-only check: every failure, expected or not, reads as "no".
func (s *essayServiceImpl) CanResend(ctx context.Context, id, studentID uuid.UUID) bool {
	essay, err := s.essays.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return s.checkResend(ctx, essay, studentID) == nil
}

// courseForTheme picks the course recorded on a token-submitted essay: the
// theme's single course when unambiguous, blank otherwise.
func courseForTheme(theme *domain.EssayTheme) domain.Course {
	if len(theme.Courses) == 1 {
		return theme.Courses[0]
	}
	return domain.CourseBlank
}
