package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	expiration := time.Now().UTC().AddDate(0, 1, 0)

	subscription, err := NewSubscription(uuid.New(), uuid.New(), "tx-123", expiration, CourseEsa)
	require.NoError(t, err)

	assert.True(t, subscription.Active)
	assert.Equal(t, "tx-123", subscription.Code)
	assert.False(t, subscription.RegistrationDate.IsZero())
}

func TestNewSubscription_Validation(t *testing.T) {
	expiration := time.Now().UTC().AddDate(0, 1, 0)

	t.Run("missing user", func(t *testing.T) {
		_, err := NewSubscription(uuid.Nil, uuid.New(), "", expiration, CourseEsa)
		assert.ErrorIs(t, err, ErrEmptySubscriptionUser)
	})

	t.Run("zero expiration", func(t *testing.T) {
		_, err := NewSubscription(uuid.New(), uuid.New(), "", time.Time{}, CourseEsa)
		assert.ErrorIs(t, err, ErrEmptyExpiration)
	})
}

func TestSubscriptionUsable(t *testing.T) {
	now := time.Now().UTC()

	subscription, err := NewSubscription(uuid.New(), uuid.New(), "", now.AddDate(0, 1, 0), CourseEsa)
	require.NoError(t, err)

	assert.True(t, subscription.Usable(now))
	assert.False(t, subscription.Usable(now.AddDate(0, 2, 0)), "expired")

	subscription.Active = false
	assert.False(t, subscription.Usable(now), "deactivated")
}
