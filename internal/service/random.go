package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// SecureRandom provides cryptographic randomness to the services that need
// it (auto-created user passwords, single-essay tokens). It is injected,
// never reached as an ambient global, so tests can substitute a
// deterministic implementation.
type SecureRandom interface {
	// Password returns a random password of the given length drawn from a
	// printable alphabet.
	Password(length int) (string, error)

	// Token returns a random opaque token suitable for single-use links.
	Token() (string, error)
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"

// CryptoRandom implements SecureRandom using crypto/rand.
type CryptoRandom struct{}

var _ SecureRandom = (*CryptoRandom)(nil)

// NewCryptoRandom creates the process-wide secure random provider.
func NewCryptoRandom() *CryptoRandom {
	return &CryptoRandom{}
}

// Password implements the SecureRandom interface.
func (r *CryptoRandom) Password(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random index: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}

	return string(out), nil
}

// Token implements the SecureRandom interface.
func (r *CryptoRandom) Token() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
