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
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/store"
)

type correctionServiceFixture struct {
	corrections *mocks.MockCorrectionStore
	essays      *mocks.MockEssayStore
	users       *mocks.MockUserStore
	mailer      *mailer.ConsoleMailer

	service service.CorrectionService
}

func newCorrectionServiceFixture(t *testing.T) *correctionServiceFixture {
	t.Helper()

	f := &correctionServiceFixture{
		corrections: mocks.NewMockCorrectionStore(),
		essays:      mocks.NewMockEssayStore(),
		users:       mocks.NewMockUserStore(),
		mailer:      mailer.NewConsoleMailer(nil),
	}
	f.service = service.NewCorrectionService(
		f.corrections,
		f.essays,
		f.users,
		&mocks.MockTxRunner{},
		f.mailer,
		nil,
	)
	return f
}

// seedCorrectingEssay places an essay mid-correction along with its author.
func (f *correctionServiceFixture) seedCorrectingEssay(t *testing.T) (*domain.Essay, *domain.User, uuid.UUID) {
	t.Helper()

	student := newTestStudent(t)
	f.users.Add(student)
	corrector := newTestCorrector(t)
	f.users.Add(corrector)

	essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
		student.ID, uuid.New(), domain.CourseEsa)
	require.NoError(t, err)
	require.NoError(t, essay.StartCorrection(corrector.ID))
	f.essays.Add(essay)
	return essay, student, corrector.ID
}

func TestCorrectionServiceCreate(t *testing.T) {
	t.Run("records the correction and revises the essay", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		essay, student, correctorID := f.seedCorrectingEssay(t)

		correction, err := f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Criteria:    domain.CorrectionCriteria{IsReadable: "yes"},
			Comment:     "boa argumentação",
			Points:      8.5,
		})
		require.NoError(t, err)

		assert.Equal(t, 8.5, correction.Points)
		assert.Equal(t, domain.EssayStatusRevised, f.essays.Essays[essay.ID].Status)
		assert.Contains(t, f.corrections.Corrections, essay.ID)

		assert.Eventually(t, func() bool {
			sent := f.mailer.Sent()
			return len(sent) == 1 && sent[0].To == student.Email
		}, time.Second, 10*time.Millisecond, "student is notified after commit")
	})

	t.Run("pending essay cannot be corrected", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			student.ID, uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		_, err = f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: uuid.New(),
			Points:      8,
		})
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("held by another corrector", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		essay, _, _ := f.seedCorrectingEssay(t)

		_, err := f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: uuid.New(),
			Points:      8,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("corrector account no longer exists", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		student := newTestStudent(t)
		f.users.Add(student)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			student.ID, uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		ghost := uuid.New()
		require.NoError(t, essay.StartCorrection(ghost))
		f.essays.Add(essay)

		_, err = f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: ghost,
			Points:      8,
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("a student holding an essay cannot grade it", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		author := newTestStudent(t)
		holder := newTestStudent(t)
		f.users.Add(author)
		f.users.Add(holder)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			author.ID, uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		require.NoError(t, essay.StartCorrection(holder.ID))
		f.essays.Add(essay)

		_, err = f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: holder.ID,
			Points:      8,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("out of range points", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		essay, _, correctorID := f.seedCorrectingEssay(t)

		_, err := f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Points:      11,
		})
		assert.ErrorIs(t, err, domain.ErrPointsOutOfRange)
	})

	t.Run("failed insert surfaces as a service error", func(t *testing.T) {
		f := newCorrectionServiceFixture(t)
		essay, _, correctorID := f.seedCorrectingEssay(t)
		f.corrections.CreateError = errors.New("connection reset")

		_, err := f.service.Create(context.Background(), service.CorrectionData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Points:      8,
		})

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, domain.EssayStatusCorrecting, f.essays.Essays[essay.ID].Status,
			"essay keeps its status when the insert fails")
		assert.NotContains(t, f.corrections.Corrections, essay.ID)
		assert.Empty(t, f.mailer.Sent(), "no notification without a commit")
	})
}

func TestCorrectionServiceGetByEssay(t *testing.T) {
	f := newCorrectionServiceFixture(t)

	correction, err := domain.NewCorrection(uuid.New(),
		domain.CorrectionCriteria{IsReadable: "yes"}, "", 7)
	require.NoError(t, err)
	f.corrections.Corrections[correction.EssayID] = correction

	got, err := f.service.GetByEssay(context.Background(), correction.EssayID)
	require.NoError(t, err)
	assert.Equal(t, correction.ID, got.ID)
}
