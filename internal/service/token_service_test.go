package service_test

import (
	"context"
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

type tokenServiceFixture struct {
	tokens   *mocks.MockTokenStore
	themes   *mocks.MockThemeStore
	users    *mocks.MockUserStore
	settings *mocks.MockSettingsStore

	service service.TokenService
}

func newTokenServiceFixture(t *testing.T, sellCorrections bool) *tokenServiceFixture {
	t.Helper()

	settings, err := domain.NewSettings(7, 3, sellCorrections)
	require.NoError(t, err)

	f := &tokenServiceFixture{
		tokens:   mocks.NewMockTokenStore(),
		themes:   mocks.NewMockThemeStore(),
		users:    mocks.NewMockUserStore(),
		settings: &mocks.MockSettingsStore{Settings: settings},
	}
	f.service = service.NewTokenService(
		f.tokens,
		f.themes,
		f.users,
		f.settings,
		&mocks.MockSecureRandom{},
		nil,
	)
	return f
}

func TestTokenServiceCreate(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		f := newTokenServiceFixture(t, true)
		student := newTestStudent(t)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.users.Add(student)
		f.themes.Add(theme)

		token, err := f.service.Create(context.Background(), service.TokenData{
			StudentID:  student.ID,
			ThemeID:    theme.ID,
			Expiration: time.Now().UTC().AddDate(0, 0, 30),
		})
		require.NoError(t, err)

		assert.Equal(t, "mock-token", token.Token)
		assert.False(t, token.Consumed())
		assert.Contains(t, f.tokens.Tokens, "mock-token")
	})

	t.Run("single corrections turned off", func(t *testing.T) {
		f := newTokenServiceFixture(t, false)

		_, err := f.service.Create(context.Background(), service.TokenData{
			StudentID:  uuid.New(),
			ThemeID:    uuid.New(),
			Expiration: time.Now().UTC().AddDate(0, 0, 30),
		})
		assert.ErrorIs(t, err, service.ErrInvalidState)
	})

	t.Run("expiration in the past", func(t *testing.T) {
		f := newTokenServiceFixture(t, true)

		_, err := f.service.Create(context.Background(), service.TokenData{
			StudentID:  uuid.New(),
			ThemeID:    uuid.New(),
			Expiration: time.Now().UTC().Add(-time.Hour),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newTokenServiceFixture(t, true)
		theme := newActiveTheme(t, domain.CourseEsa)
		f.themes.Add(theme)

		_, err := f.service.Create(context.Background(), service.TokenData{
			StudentID:  uuid.New(),
			ThemeID:    theme.ID,
			Expiration: time.Now().UTC().AddDate(0, 0, 30),
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("unknown theme", func(t *testing.T) {
		f := newTokenServiceFixture(t, true)
		student := newTestStudent(t)
		f.users.Add(student)

		_, err := f.service.Create(context.Background(), service.TokenData{
			StudentID:  student.ID,
			ThemeID:    uuid.New(),
			Expiration: time.Now().UTC().AddDate(0, 0, 30),
		})
		assert.ErrorIs(t, err, store.ErrThemeNotFound)
	})
}

func TestTokenServiceGet(t *testing.T) {
	f := newTokenServiceFixture(t, true)

	token, err := domain.NewSingleEssayToken("opaque-value", uuid.New(), uuid.New(),
		time.Now().UTC().AddDate(0, 0, 30))
	require.NoError(t, err)
	f.tokens.Add(token)

	got, err := f.service.Get(context.Background(), "opaque-value")
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)

	_, err = f.service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}
