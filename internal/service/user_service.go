package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/service/auth"
	"github.com/lpfarias/essay-api/internal/store"
)

// UserData carries the input for creating a user. An empty Password makes
// the service generate one and email it to the new user.
type UserData struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Permission domain.Permission
	Phone      string
}

// UserUpdateData carries the mutable user fields. Nil fields are left
// unchanged.
type UserUpdateData struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Phone      *string
	Status     *domain.UserStatus
	Permission *domain.Permission
}

// AuthResult is the outcome of a successful authentication.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// UserService manages accounts and authentication.
type UserService interface {
	// Authenticate verifies the credentials and issues a token pair.
	// Unknown emails, wrong passwords and inactive accounts all fail with
	// ErrUnauthorized.
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)

	// Create registers a new user.
	Create(ctx context.Context, data UserData) (*domain.User, error)

	// Get retrieves a user by their ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List retrieves users matching the filter.
	List(ctx context.Context, filter store.UserFilter, page store.Pagination) ([]*domain.User, error)

	// Update applies a partial update to a user.
	Update(ctx context.Context, id uuid.UUID, data UserUpdateData) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	users      store.UserStore
	jwtService auth.JWTService
	verifier   auth.PasswordVerifier
	random     SecureRandom
	mailer     mailer.Mailer
	logger     *slog.Logger
	now        nowFunc
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	random SecureRandom,
	m mailer.Mailer,
	logger *slog.Logger,
) UserService {
	if users == nil || jwtService == nil || verifier == nil || random == nil || m == nil {
		panic("user service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		users:      users,
		jwtService: jwtService,
		verifier:   verifier,
		random:     random,
		mailer:     m,
		logger:     logger.With(slog.String("component", "user_service")),
		now:        utcNow,
	}
}

// Authenticate implements UserService.Authenticate.
func (s *userServiceImpl) Authenticate(
	ctx context.Context,
	email, password string,
) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			// Same failure as a wrong password; don't leak which emails
			// have accounts.
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if !user.IsActive() {
		return nil, fmt.Errorf("%w: account is inactive", ErrUnauthorized)
	}

	return s.issueTokens(ctx, user)
}

// Refresh implements UserService.Refresh.
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return nil, err
	}

	if !user.IsActive() {
		return nil, fmt.Errorf("%w: account is inactive", ErrUnauthorized)
	}

	return s.issueTokens(ctx, user)
}

func (s *userServiceImpl) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, user.ID, user.Permission)
	if err != nil {
		return nil, &ServiceError{
			Service:   "user_service",
			Operation: "issue_tokens",
			Message:   "failed to generate access token",
			Err:       err,
		}
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, user.ID, user.Permission)
	if err != nil {
		return nil, &ServiceError{
			Service:   "user_service",
			Operation: "issue_tokens",
			Message:   "failed to generate refresh token",
			Err:       err,
		}
	}

	return &AuthResult{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Create implements UserService.Create.
func (s *userServiceImpl) Create(ctx context.Context, data UserData) (*domain.User, error) {
	password := data.Password
	generated := false
	if password == "" {
		var err error
		password, err = s.random.Password(autoCreatedPasswordLength)
		if err != nil {
			return nil, &ServiceError{
				Service:   "user_service",
				Operation: "create_user",
				Message:   "failed to generate password",
				Err:       err,
			}
		}
		generated = true
	}

	user, err := domain.NewUser(data.FirstName, data.LastName, data.Email, password, data.Permission)
	if err != nil {
		return nil, err
	}
	user.Phone = data.Phone

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if generated {
		go s.sendGeneratedPassword(user, password)
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("permission", string(user.Permission)))
	return user, nil
}

// sendGeneratedPassword emails an auto-generated password to a user created
// without one. Best effort; the account already exists.
func (s *userServiceImpl) sendGeneratedPassword(user *domain.User, password string) {
	msg := mailer.Message{
		To:      user.Email,
		ToName:  user.FullName(),
		Subject: "Sua conta foi criada",
		Text: fmt.Sprintf(
			"Sua conta foi criada.\nLogin: %s\nSenha: %s",
			user.Email, password,
		),
	}
	if err := s.mailer.Send(msg); err != nil {
		s.logger.Warn("failed to send generated password",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}
}

// Get implements UserService.Get.
func (s *userServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List implements UserService.List.
func (s *userServiceImpl) List(
	ctx context.Context,
	filter store.UserFilter,
	page store.Pagination,
) ([]*domain.User, error) {
	return s.users.List(ctx, filter, page)
}

// Update implements UserService.Update.
func (s *userServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	data UserUpdateData,
) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.FirstName != nil {
		user.FirstName = *data.FirstName
	}
	if data.LastName != nil {
		user.LastName = *data.LastName
	}
	if data.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*data.Email))
	}
	if data.Password != nil {
		// The store hashes a non-empty plaintext password on update.
		user.Password = *data.Password
	}
	if data.Phone != nil {
		user.Phone = *data.Phone
	}
	if data.Status != nil {
		user.Status = *data.Status
	}
	if data.Permission != nil {
		user.Permission = *data.Permission
	}
	user.UpdatedAt = s.now()

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", slog.String("user_id", user.ID.String()))
	return user, nil
}
