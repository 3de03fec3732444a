package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpfarias/essay-api/internal/config"
	"github.com/lpfarias/essay-api/internal/domain"
)

const testSigningSecret = "test-secret-with-at-least-32-characters!"

func newTestJWTService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	return &hmacJWTService{
		signingKey:           []byte(testSigningSecret),
		tokenLifetime:        15 * time.Minute,
		refreshTokenLifetime: 7 * 24 * time.Hour,
		timeFunc:             now,
		clockSkew:            time.Minute,
	}
}

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
	assert.Error(t, err, "short signing secrets are rejected")

	_, err = NewJWTService(config.AuthConfig{
		JWTSecret:                   testSigningSecret,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 10080,
	})
	assert.NoError(t, err)
}

func TestJWTServiceRoundtrip(t *testing.T) {
	svc := newTestJWTService(t, time.Now)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID, domain.PermissionCorrector)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.PermissionCorrector, claims.Permission)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTServiceExpiredToken(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, func() time.Time { return issued })

	token, err := svc.GenerateToken(context.Background(), uuid.New(), domain.PermissionStudent)
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return issued.Add(time.Hour) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTServiceClockSkew(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(t, func() time.Time { return issued })

	token, err := svc.GenerateToken(context.Background(), uuid.New(), domain.PermissionStudent)
	require.NoError(t, err)

	// Just past expiry but within the allowed drift.
	svc.timeFunc = func() time.Time { return issued.Add(15*time.Minute + 30*time.Second) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestJWTServiceWrongTokenType(t *testing.T) {
	svc := newTestJWTService(t, time.Now)

	refreshToken, err := svc.GenerateRefreshToken(context.Background(), uuid.New(), domain.PermissionStudent)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	accessToken, err := svc.GenerateToken(context.Background(), uuid.New(), domain.PermissionStudent)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTServiceTamperedToken(t *testing.T) {
	svc := newTestJWTService(t, time.Now)

	token, err := svc.GenerateToken(context.Background(), uuid.New(), domain.PermissionStudent)
	require.NoError(t, err)

	other := newTestJWTService(t, time.Now)
	other.signingKey = []byte("another-secret-with-32-characters-at-least")

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
