package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/mocks"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

// essayServiceFixture bundles the mock stores behind an EssayService so each
// test can seed exactly the state it needs.
type essayServiceFixture struct {
	essays        *mocks.MockEssayStore
	themes        *mocks.MockThemeStore
	users         *mocks.MockUserStore
	subscriptions *mocks.MockSubscriptionStore
	settings      *mocks.MockSettingsStore
	invalidations *mocks.MockInvalidationStore
	tokens        *mocks.MockTokenStore
	txRunner      *mocks.MockTxRunner

	service service.EssayService
}

func newEssayServiceFixture(t *testing.T) *essayServiceFixture {
	t.Helper()

	f := &essayServiceFixture{
		essays:        mocks.NewMockEssayStore(),
		themes:        mocks.NewMockThemeStore(),
		users:         mocks.NewMockUserStore(),
		subscriptions: mocks.NewMockSubscriptionStore(),
		settings:      mocks.NewMockSettingsStore(),
		invalidations: mocks.NewMockInvalidationStore(),
		tokens:        mocks.NewMockTokenStore(),
		txRunner:      &mocks.MockTxRunner{},
	}
	f.service = service.NewEssayService(
		f.essays,
		f.themes,
		f.users,
		f.subscriptions,
		f.settings,
		f.invalidations,
		f.tokens,
		service.NewTokenVerifier(f.tokens),
		f.txRunner,
		nil,
	)
	return f
}

func newTestStudent(t *testing.T) *domain.User {
	t.Helper()
	student, err := domain.NewUser("Ana", "Silva", uuid.NewString()+"@example.com",
		"s3cretpass", domain.PermissionStudent)
	require.NoError(t, err)
	return student
}

func newTestCorrector(t *testing.T) *domain.User {
	t.Helper()
	corrector, err := domain.NewUser("Rui", "Costa", uuid.NewString()+"@example.com",
		"s3cretpass", domain.PermissionCorrector)
	require.NoError(t, err)
	return corrector
}

// newActiveTheme builds a theme whose window spans the current instant.
func newActiveTheme(t *testing.T, courses ...domain.Course) *domain.EssayTheme {
	t.Helper()
	now := time.Now().UTC()
	theme, err := domain.NewEssayTheme("Tema", "", "", courses,
		now.Add(-time.Hour), now.AddDate(0, 0, 7))
	require.NoError(t, err)
	return theme
}

func newUsableSubscription(t *testing.T, userID uuid.UUID, course domain.Course) *domain.Subscription {
	t.Helper()
	subscription, err := domain.NewSubscription(userID, uuid.New(), "",
		time.Now().UTC().AddDate(0, 1, 0), course)
	require.NoError(t, err)
	return subscription
}

// seedThemeSubmission wires a student with a usable subscription and an active
// theme for the course.
func (f *essayServiceFixture) seedThemeSubmission(
	t *testing.T,
	course domain.Course,
) (*domain.User, *domain.EssayTheme) {
	t.Helper()
	student := newTestStudent(t)
	theme := newActiveTheme(t, course)
	f.users.Add(student)
	f.themes.Add(theme)
	f.subscriptions.Add(newUsableSubscription(t, student.ID, course))
	return student, theme
}

func TestEssayServiceCreate_SelectorValidation(t *testing.T) {
	f := newEssayServiceFixture(t)
	student := newTestStudent(t)
	f.users.Add(student)

	t.Run("no selector", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("two selectors", func(t *testing.T) {
		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
			Token:     "some-token",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestEssayServiceCreate_ByTheme(t *testing.T) {
	t.Run("creates a pending essay", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student, theme := f.seedThemeSubmission(t, domain.CourseEsa)

		essay, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.EssayStatusPending, essay.Status)
		assert.Equal(t, theme.ID, essay.ThemeID)
		assert.Contains(t, f.essays.Essays, essay.ID)
	})

	t.Run("no active theme for course", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrInvalidTheme)
	})

	t.Run("no usable subscription", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		f.themes.Add(newActiveTheme(t, domain.CourseEsa))

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrExpired)
	})

	t.Run("subscription for another course", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		f.themes.Add(newActiveTheme(t, domain.CourseEsa))
		f.subscriptions.Add(newUsableSubscription(t, student.ID, domain.CourseEspcex))

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrExpired)
	})

	t.Run("lapsed subscription", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		f.themes.Add(newActiveTheme(t, domain.CourseEsa))

		lapsed := newUsableSubscription(t, student.ID, domain.CourseEsa)
		lapsed.Expiration = time.Now().UTC().Add(-time.Hour)
		f.subscriptions.Add(lapsed)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrExpired)
	})

	t.Run("duplicate live essay for the theme", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student, theme := f.seedThemeSubmission(t, domain.CourseEsa)

		prior, err := domain.NewEssay("https://files.example.com/v1.pdf",
			student.ID, theme.ID, domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(prior)

		_, err = f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/v2.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrAlreadySubmitted)
	})

	t.Run("an invalidated essay frees the slot", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student, theme := f.seedThemeSubmission(t, domain.CourseEsa)

		prior, err := domain.NewEssay("https://files.example.com/v1.pdf",
			student.ID, theme.ID, domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, prior.StartCorrection(uuid.New()))
		require.NoError(t, prior.MarkInvalid())
		f.essays.Add(prior)

		_, err = f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/v2.pdf",
			Course:    domain.CourseEsa,
		})
		assert.NoError(t, err)
	})

	t.Run("inactive student account", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student, _ := f.seedThemeSubmission(t, domain.CourseEsa)
		student.Status = domain.UserStatusInactive

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Course:    domain.CourseEsa,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestEssayServiceCreate_ByToken(t *testing.T) {
	seedToken := func(t *testing.T, f *essayServiceFixture, studentID uuid.UUID, theme *domain.EssayTheme) *domain.SingleEssayToken {
		t.Helper()
		token, err := domain.NewSingleEssayToken(uuid.NewString(), studentID, theme.ID,
			time.Now().UTC().AddDate(0, 0, 30))
		require.NoError(t, err)
		f.tokens.Add(token)
		return token
	}

	t.Run("consumes the token with the essay", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, student.ID, theme)

		essay, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.CourseEsa, essay.Course, "single-course theme sets the course")
		assert.True(t, f.tokens.Tokens[token.Token].Consumed())
		assert.Contains(t, f.essays.Essays, essay.ID)
		assert.Equal(t, 1, f.txRunner.Calls)
	})

	t.Run("multi-course theme records a blank course", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa, domain.CourseEspcex)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, student.ID, theme)

		essay, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CourseBlank, essay.Course)
	})

	t.Run("another student's token", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, uuid.New(), theme)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("consumed token", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, student.ID, theme)
		require.NoError(t, token.Consume())

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, student.ID, theme)
		token.Expiration = time.Now().UTC().Add(-time.Hour)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})
		assert.ErrorIs(t, err, service.ErrExpired)
	})

	t.Run("failed consumption leaves no essay behind", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)
		token := seedToken(t, f, student.ID, theme)
		f.tokens.UpdateError = errors.New("connection reset")

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID: student.ID,
			File:      "https://files.example.com/essay.pdf",
			Token:     token.Token,
		})

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Empty(t, f.essays.Essays, "essay insert must not outlive the token update")
	})
}

func TestEssayServiceCreate_ByResubmission(t *testing.T) {
	// seedInvalidEssay places an invalidated essay with its invalidation
	// record dated daysAgo days back, under a 7-day resend window.
	seedInvalidEssay := func(t *testing.T, f *essayServiceFixture, studentID uuid.UUID, daysAgo int) *domain.Essay {
		t.Helper()
		prior, err := domain.NewEssay("https://files.example.com/v1.pdf",
			studentID, uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		correctorID := uuid.New()
		require.NoError(t, prior.StartCorrection(correctorID))
		require.NoError(t, prior.MarkInvalid())
		f.essays.Add(prior)

		f.invalidations.Invalidations[prior.ID] = &domain.EssayInvalidation{
			ID:               uuid.New(),
			CorrectorID:      correctorID,
			EssayID:          prior.ID,
			Reason:           domain.ReasonUnreadable,
			InvalidationDate: time.Now().UTC().AddDate(0, 0, -daysAgo),
		}

		settings, err := domain.NewSettings(7, 3, true)
		require.NoError(t, err)
		f.settings.Settings = settings
		return prior
	}

	t.Run("resubmits within the window", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		prior := seedInvalidEssay(t, f, student.ID, 2)

		essay, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID:      student.ID,
			File:           "https://files.example.com/v2.pdf",
			InvalidEssayID: prior.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, prior.ThemeID, essay.ThemeID)
		assert.Equal(t, prior.Course, essay.Course)
		assert.Equal(t, domain.EssayStatusPending, essay.Status)
	})

	t.Run("window closed", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		prior := seedInvalidEssay(t, f, student.ID, 10)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID:      student.ID,
			File:           "https://files.example.com/v2.pdf",
			InvalidEssayID: prior.ID,
		})
		assert.ErrorIs(t, err, service.ErrExpired)
	})

	t.Run("another student's essay", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)
		prior := seedInvalidEssay(t, f, uuid.New(), 2)

		_, err := f.service.Create(context.Background(), service.EssayCreationData{
			StudentID:      student.ID,
			File:           "https://files.example.com/v2.pdf",
			InvalidEssayID: prior.ID,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("essay was not invalidated", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)

		prior, err := domain.NewEssay("https://files.example.com/v1.pdf",
			student.ID, uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(prior)

		_, err = f.service.Create(context.Background(), service.EssayCreationData{
			StudentID:      student.ID,
			File:           "https://files.example.com/v2.pdf",
			InvalidEssayID: prior.ID,
		})
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})
}

func TestEssayServicePartialUpdate(t *testing.T) {
	t.Run("assigns a corrector", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		corrector := newTestCorrector(t)
		f.users.Add(corrector)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		updated, err := f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &corrector.ID}, nil)
		require.NoError(t, err)

		assert.Equal(t, domain.EssayStatusCorrecting, updated.Status)
		assert.True(t, updated.CorrectedBy(corrector.ID))
	})

	t.Run("a corrector claims an unheld essay for themselves", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		corrector := newTestCorrector(t)
		f.users.Add(corrector)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		updated, err := f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &corrector.ID}, &corrector.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.EssayStatusCorrecting, updated.Status)
		assert.True(t, updated.CorrectedBy(corrector.ID))
	})

	t.Run("a corrector cannot hand an unheld essay to someone else", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		actor := newTestCorrector(t)
		target := newTestCorrector(t)
		f.users.Add(actor)
		f.users.Add(target)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &target.ID}, &actor.ID)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("students cannot be assigned", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &student.ID}, nil)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("losing the claim race reads as invalid state", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		corrector := newTestCorrector(t)
		f.users.Add(corrector)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		f.essays.AssignCorrectorFn = func(ctx context.Context, essayID, correctorID uuid.UUID) (*domain.Essay, error) {
			return nil, store.ErrConflict
		}

		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &corrector.ID}, nil)
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("essay held by another corrector", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		holder := newTestCorrector(t)
		intruder := newTestCorrector(t)
		f.users.Add(holder)
		f.users.Add(intruder)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		revised := domain.EssayStatusRevised
		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{Status: &revised}, &intruder.ID)

		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, domain.EssayStatusCorrecting, essay.Status, "rejected update must not change state")
		assert.True(t, essay.CorrectedBy(holder.ID))
	})

	t.Run("held essay rejects an unknown new corrector as invalid state", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		holder := newTestCorrector(t)
		f.users.Add(holder)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		// The new corrector does not even exist; the held essay must
		// still answer "already in correction".
		unknown := uuid.New()
		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{CorrectorID: &unknown}, nil)

		assert.ErrorIs(t, err, service.ErrInvalidState)
		assert.NotErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("assign and clear together is rejected", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		corrector := newTestCorrector(t)
		f.users.Add(corrector)

		_, err := f.service.PartialUpdate(context.Background(), uuid.New(),
			service.EssayUpdateData{CorrectorID: &corrector.ID, ClearCorrector: true}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("holder marks the essay revised", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		holder := newTestCorrector(t)
		f.users.Add(holder)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		revised := domain.EssayStatusRevised
		updated, err := f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{Status: &revised}, &holder.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EssayStatusRevised, updated.Status)
	})

	t.Run("pending essays cannot be revised", func(t *testing.T) {
		f := newEssayServiceFixture(t)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		revised := domain.EssayStatusRevised
		_, err = f.service.PartialUpdate(context.Background(), essay.ID,
			service.EssayUpdateData{Status: &revised}, nil)
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})
}

func TestEssayServiceCancelCorrecting(t *testing.T) {
	t.Run("holder releases the essay", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		holder := newTestCorrector(t)
		f.users.Add(holder)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		updated, err := f.service.CancelCorrecting(context.Background(), essay.ID, holder.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.EssayStatusPending, updated.Status)
		assert.Nil(t, updated.CorrectorID)
	})

	t.Run("only the holder may cancel", func(t *testing.T) {
		f := newEssayServiceFixture(t)
		holder := newTestCorrector(t)
		other := newTestCorrector(t)
		f.users.Add(holder)
		f.users.Add(other)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		_, err = f.service.CancelCorrecting(context.Background(), essay.ID, other.ID)

		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, domain.EssayStatusCorrecting, essay.Status)
		assert.True(t, essay.CorrectedBy(holder.ID))
	})
}

func TestEssayServiceSentChart(t *testing.T) {
	f := newEssayServiceFixture(t)

	seed := func(sendDate time.Time) {
		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		essay.SendDate = sendDate
		f.essays.Add(essay)
	}
	seed(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	seed(time.Date(2024, 3, 28, 9, 0, 0, 0, time.UTC))
	seed(time.Date(2024, 4, 2, 18, 0, 0, 0, time.UTC))
	seed(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) // outside the period

	points, err := f.service.SentChart(context.Background(), service.EssayChartFilter{
		Period: &store.Period{
			Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	require.Len(t, points, 3, "one bucket per calendar month, empty months included")
	assert.Equal(t, service.ChartPoint{Key: "3-2024", Value: 2}, points[0])
	assert.Equal(t, service.ChartPoint{Key: "4-2024", Value: 1}, points[1])
	assert.Equal(t, service.ChartPoint{Key: "5-2024", Value: 0}, points[2])
}

func TestEssayServiceCanResend(t *testing.T) {
	f := newEssayServiceFixture(t)
	student := newTestStudent(t)
	f.users.Add(student)

	prior, err := domain.NewEssay("https://files.example.com/v1.pdf",
		student.ID, uuid.New(), domain.CourseEsa)
	require.NoError(t, err)
	correctorID := uuid.New()
	require.NoError(t, prior.StartCorrection(correctorID))
	require.NoError(t, prior.MarkInvalid())
	f.essays.Add(prior)

	f.invalidations.Invalidations[prior.ID] = &domain.EssayInvalidation{
		ID:               uuid.New(),
		CorrectorID:      correctorID,
		EssayID:          prior.ID,
		Reason:           domain.ReasonUnreadable,
		InvalidationDate: time.Now().UTC().AddDate(0, 0, -1),
	}
	settings, err := domain.NewSettings(7, 3, true)
	require.NoError(t, err)
	f.settings.Settings = settings

	assert.True(t, f.service.CanResend(context.Background(), prior.ID, student.ID))
	assert.False(t, f.service.CanResend(context.Background(), prior.ID, uuid.New()),
		"another student cannot resend")
	assert.False(t, f.service.CanResend(context.Background(), uuid.New(), student.ID),
		"unknown essay reads as no")
}
