package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/platform/logger"
	"github.com/lpfarias/essay-api/internal/store"
)

// TokenStore implements the store.TokenStore interface using a PostgreSQL
// database as the storage backend.
type TokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTokenStore creates a new PostgreSQL implementation of the TokenStore
// interface. If logger is nil, a default logger is used.
func NewTokenStore(db store.DBTX, logger *slog.Logger) *TokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

var _ store.TokenStore = (*TokenStore)(nil)

// Create implements store.TokenStore.Create.
func (s *TokenStore) Create(ctx context.Context, token *domain.SingleEssayToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("token validation failed during create",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	query := `
		INSERT INTO single_essay_tokens (id, token, student_id, theme_id, expiration, sent_date, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		token.ID,
		token.Token,
		token.StudentID,
		token.ThemeID,
		token.Expiration,
		token.SentDate,
		token.RegistrationDate,
	)

	if err != nil {
		if isUniqueViolation(err, "single_essay_tokens_token_key") {
			return fmt.Errorf("%w: token", store.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: student or theme not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create token",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	log.Info("single essay token created",
		slog.String("token_id", token.ID.String()),
		slog.String("student_id", token.StudentID.String()))
	return nil
}

// GetByToken implements store.TokenStore.GetByToken.
func (s *TokenStore) GetByToken(ctx context.Context, value string) (*domain.SingleEssayToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, token, student_id, theme_id, expiration, sent_date, registration_date
		FROM single_essay_tokens
		WHERE token = $1
	`

	var token domain.SingleEssayToken
	var sentDate sql.NullTime
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&token.ID,
		&token.Token,
		&token.StudentID,
		&token.ThemeID,
		&token.Expiration,
		&sentDate,
		&token.RegistrationDate,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		log.Error("failed to get token", slog.String("error", err.Error()))
		return nil, err
	}

	if sentDate.Valid {
		t := sentDate.Time
		token.SentDate = &t
	}
	return &token, nil
}

// Update implements store.TokenStore.Update.
func (s *TokenStore) Update(ctx context.Context, token *domain.SingleEssayToken) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		log.Warn("token validation failed during update",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	query := `
		UPDATE single_essay_tokens
		SET expiration = $1, sent_date = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, token.Expiration, token.SentDate, token.ID)
	if err != nil {
		log.Error("failed to update token",
			slog.String("error", err.Error()),
			slog.String("token_id", token.ID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrTokenNotFound
	}

	log.Info("token updated successfully", slog.String("token_id", token.ID.String()))
	return nil
}

// WithTx implements store.TokenStore.WithTx.
func (s *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &TokenStore{db: tx, logger: s.logger}
}
