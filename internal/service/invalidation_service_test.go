package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/mocks"
	"github.com/lpfarias/essay-api/internal/service"
)

type invalidationServiceFixture struct {
	invalidations *mocks.MockInvalidationStore
	essays        *mocks.MockEssayStore

	service service.InvalidationService
}

func newInvalidationServiceFixture(t *testing.T) *invalidationServiceFixture {
	t.Helper()

	f := &invalidationServiceFixture{
		invalidations: mocks.NewMockInvalidationStore(),
		essays:        mocks.NewMockEssayStore(),
	}
	f.service = service.NewInvalidationService(
		f.invalidations,
		f.essays,
		&mocks.MockTxRunner{},
		nil,
	)
	return f
}

func (f *invalidationServiceFixture) seedCorrectingEssay(t *testing.T) (*domain.Essay, uuid.UUID) {
	t.Helper()

	essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
		uuid.New(), uuid.New(), domain.CourseEsa)
	require.NoError(t, err)
	correctorID := uuid.New()
	require.NoError(t, essay.StartCorrection(correctorID))
	f.essays.Add(essay)
	return essay, correctorID
}

func TestInvalidationServiceCreate(t *testing.T) {
	t.Run("records the invalidation and invalidates the essay", func(t *testing.T) {
		f := newInvalidationServiceFixture(t)
		essay, correctorID := f.seedCorrectingEssay(t)

		invalidation, err := f.service.Create(context.Background(), service.EssayInvalidationData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Reason:      domain.ReasonUnreadable,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.ReasonUnreadable, invalidation.Reason)
		assert.Equal(t, domain.EssayStatusInvalid, f.essays.Essays[essay.ID].Status)
		assert.Contains(t, f.invalidations.Invalidations, essay.ID)
	})

	t.Run("pending essay cannot be invalidated", func(t *testing.T) {
		f := newInvalidationServiceFixture(t)

		essay, err := domain.NewEssay("https://files.example.com/essay.pdf",
			uuid.New(), uuid.New(), domain.CourseEsa)
		require.NoError(t, err)
		f.essays.Add(essay)

		_, err = f.service.Create(context.Background(), service.EssayInvalidationData{
			EssayID:     essay.ID,
			CorrectorID: uuid.New(),
			Reason:      domain.ReasonUnreadable,
		})
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("held by another corrector", func(t *testing.T) {
		f := newInvalidationServiceFixture(t)
		essay, _ := f.seedCorrectingEssay(t)

		_, err := f.service.Create(context.Background(), service.EssayInvalidationData{
			EssayID:     essay.ID,
			CorrectorID: uuid.New(),
			Reason:      domain.ReasonUnreadable,
		})
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("other reason without a comment", func(t *testing.T) {
		f := newInvalidationServiceFixture(t)
		essay, correctorID := f.seedCorrectingEssay(t)

		_, err := f.service.Create(context.Background(), service.EssayInvalidationData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Reason:      domain.ReasonOther,
		})
		assert.ErrorIs(t, err, domain.ErrMissingComment)
	})

	t.Run("failed insert surfaces as a service error", func(t *testing.T) {
		f := newInvalidationServiceFixture(t)
		essay, correctorID := f.seedCorrectingEssay(t)
		f.invalidations.CreateError = errors.New("connection reset")

		_, err := f.service.Create(context.Background(), service.EssayInvalidationData{
			EssayID:     essay.ID,
			CorrectorID: correctorID,
			Reason:      domain.ReasonUnreadable,
		})

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, domain.EssayStatusCorrecting, f.essays.Essays[essay.ID].Status,
			"essay keeps its status when the insert fails")
		assert.NotContains(t, f.invalidations.Invalidations, essay.ID)
	})
}
