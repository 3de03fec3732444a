package store

import (
	"context"
	"database/sql"

	"github.com/lpfarias/essay-api/internal/domain"
)

// TokenStore defines the interface for single-essay token persistence.
type TokenStore interface {
	// Create saves a new token to the store.
	Create(ctx context.Context, token *domain.SingleEssayToken) error

	// GetByToken retrieves a token by its opaque value.
	// Returns ErrTokenNotFound if the token does not exist.
	GetByToken(ctx context.Context, token string) (*domain.SingleEssayToken, error)

	// Update saves changes to an existing token (e.g., marking it consumed).
	// Returns ErrTokenNotFound if the token does not exist.
	Update(ctx context.Context, token *domain.SingleEssayToken) error

	// WithTx returns a new TokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
