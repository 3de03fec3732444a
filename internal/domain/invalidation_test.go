package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEssayInvalidation(t *testing.T) {
	invalidation, err := NewEssayInvalidation(uuid.New(), uuid.New(), ReasonTangent, "")
	require.NoError(t, err)

	assert.Equal(t, ReasonTangent, invalidation.Reason)
	assert.False(t, invalidation.InvalidationDate.IsZero())
}

func TestNewEssayInvalidation_Validation(t *testing.T) {
	t.Run("unknown reason", func(t *testing.T) {
		_, err := NewEssayInvalidation(uuid.New(), uuid.New(), InvalidationReason("bored"), "")
		assert.ErrorIs(t, err, ErrInvalidReason)
	})

	t.Run("other requires a comment", func(t *testing.T) {
		_, err := NewEssayInvalidation(uuid.New(), uuid.New(), ReasonOther, "")
		assert.ErrorIs(t, err, ErrMissingComment)

		_, err = NewEssayInvalidation(uuid.New(), uuid.New(), ReasonOther, "wrong file uploaded")
		assert.NoError(t, err)
	})
}

func TestNewCorrection(t *testing.T) {
	correction, err := NewCorrection(uuid.New(), CorrectionCriteria{IsReadable: "yes"}, "bom texto", 8.5)
	require.NoError(t, err)

	assert.Equal(t, 8.5, correction.Points)
	assert.Equal(t, "yes", correction.IsReadable)

	_, err = NewCorrection(uuid.New(), CorrectionCriteria{}, "", 10.5)
	assert.ErrorIs(t, err, ErrPointsOutOfRange)

	_, err = NewCorrection(uuid.New(), CorrectionCriteria{}, "", -1)
	assert.ErrorIs(t, err, ErrPointsOutOfRange)
}
