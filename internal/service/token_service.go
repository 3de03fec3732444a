package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// TokenData carries the input for issuing a single-essay token.
type TokenData struct {
	StudentID  uuid.UUID
	ThemeID    uuid.UUID
	Expiration time.Time
}

// TokenService issues single-essay tokens, the vehicle for corrections sold
// outside the subscription flow.
type TokenService interface {
	// Create issues a token granting one submission against the theme.
	// Fails when the platform has single corrections turned off.
	Create(ctx context.Context, data TokenData) (*domain.SingleEssayToken, error)

	// Get retrieves a token by its opaque value.
	Get(ctx context.Context, token string) (*domain.SingleEssayToken, error)
}

// tokenServiceImpl implements the TokenService interface.
type tokenServiceImpl struct {
	tokens   store.TokenStore
	themes   store.ThemeStore
	users    store.UserStore
	settings store.SettingsStore
	random   SecureRandom
	logger   *slog.Logger
	now      nowFunc
}

// NewTokenService creates a new TokenService.
func NewTokenService(
	tokens store.TokenStore,
	themes store.ThemeStore,
	users store.UserStore,
	settings store.SettingsStore,
	random SecureRandom,
	logger *slog.Logger,
) TokenService {
	if tokens == nil || themes == nil || users == nil || settings == nil || random == nil {
		panic("token service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &tokenServiceImpl{
		tokens:   tokens,
		themes:   themes,
		users:    users,
		settings: settings,
		random:   random,
		logger:   logger.With(slog.String("component", "token_service")),
		now:      utcNow,
	}
}

// Create implements TokenService.Create.
func (s *tokenServiceImpl) Create(
	ctx context.Context,
	data TokenData,
) (*domain.SingleEssayToken, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.SellCorrections {
		return nil, fmt.Errorf("%w: single corrections are not for sale", ErrInvalidState)
	}

	if !data.Expiration.After(s.now()) {
		return nil, fmt.Errorf("%w: token expiration must be in the future", domain.ErrValidation)
	}

	// Fail fast on dangling references before minting the token.
	if _, err := s.users.GetByID(ctx, data.StudentID); err != nil {
		return nil, err
	}
	if _, err := s.themes.GetByID(ctx, data.ThemeID); err != nil {
		return nil, err
	}

	value, err := s.random.Token()
	if err != nil {
		return nil, &ServiceError{
			Service:   "token_service",
			Operation: "create_token",
			Message:   "failed to generate token value",
			Err:       err,
		}
	}

	token, err := domain.NewSingleEssayToken(value, data.StudentID, data.ThemeID, data.Expiration)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("single essay token issued",
		slog.String("token_id", token.ID.String()),
		slog.String("student_id", data.StudentID.String()),
		slog.String("theme_id", data.ThemeID.String()))
	return token, nil
}

// Get implements TokenService.Get.
func (s *tokenServiceImpl) Get(ctx context.Context, token string) (*domain.SingleEssayToken, error) {
	return s.tokens.GetByToken(ctx, token)
}
