package mocks

import (
	"context"
	"database/sql"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// MockTokenStore implements store.TokenStore for testing
type MockTokenStore struct {
	CreateFn     func(ctx context.Context, token *domain.SingleEssayToken) error
	GetByTokenFn func(ctx context.Context, token string) (*domain.SingleEssayToken, error)
	UpdateFn     func(ctx context.Context, token *domain.SingleEssayToken) error

	// Tokens backs the default implementation, keyed by the opaque value.
	Tokens map[string]*domain.SingleEssayToken

	UpdateError error
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// NewMockTokenStore creates a new mock store with initialized defaults
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{
		Tokens: make(map[string]*domain.SingleEssayToken),
	}
}

// Add registers a token with the default map-backed implementation.
func (m *MockTokenStore) Add(token *domain.SingleEssayToken) {
	m.Tokens[token.Token] = token
}

// Create implements the TokenStore interface
func (m *MockTokenStore) Create(ctx context.Context, token *domain.SingleEssayToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}

	if _, exists := m.Tokens[token.Token]; exists {
		return store.ErrDuplicate
	}
	m.Tokens[token.Token] = token
	return nil
}

// GetByToken implements the TokenStore interface
func (m *MockTokenStore) GetByToken(
	ctx context.Context,
	token string,
) (*domain.SingleEssayToken, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}

	t, exists := m.Tokens[token]
	if !exists {
		return nil, store.ErrTokenNotFound
	}
	return t, nil
}

// Update implements the TokenStore interface
func (m *MockTokenStore) Update(ctx context.Context, token *domain.SingleEssayToken) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, token)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	if _, exists := m.Tokens[token.Token]; !exists {
		return store.ErrTokenNotFound
	}
	m.Tokens[token.Token] = token
	return nil
}

// WithTx implements the TokenStore interface; the mock ignores transactions.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
