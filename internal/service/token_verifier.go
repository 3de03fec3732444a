package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lpfarias/essay-api/internal/domain"
	"github.com/lpfarias/essay-api/internal/store"
)

// TokenVerifier validates single-essay tokens on behalf of EssayService.
type TokenVerifier interface {
	// Check resolves the token and verifies it belongs to the student, is
	// not expired and was not consumed yet.
	// Returns store.ErrTokenNotFound for unknown tokens, ErrExpired for
	// lapsed ones, ErrInvalidState for consumed ones and ErrUnauthorized
	// when the token belongs to another student.
	Check(ctx context.Context, token string, studentID uuid.UUID) (*domain.SingleEssayToken, error)
}

// storeTokenVerifier is the TokenStore-backed TokenVerifier.
type storeTokenVerifier struct {
	tokens store.TokenStore
	now    nowFunc
}

// NewTokenVerifier creates a TokenVerifier backed by the given token store.
func NewTokenVerifier(tokens store.TokenStore) TokenVerifier {
	if tokens == nil {
		panic("tokens cannot be nil")
	}
	return &storeTokenVerifier{tokens: tokens, now: utcNow}
}

// Check implements the TokenVerifier interface.
func (v *storeTokenVerifier) Check(
	ctx context.Context,
	token string,
	studentID uuid.UUID,
) (*domain.SingleEssayToken, error) {
	t, err := v.tokens.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if t.StudentID != studentID {
		return nil, fmt.Errorf("%w: token belongs to another student", ErrUnauthorized)
	}

	if t.Consumed() {
		return nil, fmt.Errorf("%w: token already used", ErrInvalidState)
	}

	if t.ExpiredAt(v.now()) {
		return nil, fmt.Errorf("%w: single essay token", ErrExpired)
	}

	return t, nil
}
