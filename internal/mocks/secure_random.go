package mocks

import "github.com/lpfarias/essay-api/internal/service"

// MockSecureRandom implements service.SecureRandom for testing with
// deterministic output.
type MockSecureRandom struct {
	PasswordFn func(length int) (string, error)
	TokenFn    func() (string, error)

	// Default values used when functions aren't explicitly defined
	PasswordValue string
	TokenValue    string
	Err           error
}

var _ service.SecureRandom = (*MockSecureRandom)(nil)

// Password implements the service.SecureRandom interface
func (m *MockSecureRandom) Password(length int) (string, error) {
	if m.PasswordFn != nil {
		return m.PasswordFn(length)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.PasswordValue != "" {
		return m.PasswordValue, nil
	}
	return "mock-password", nil
}

// Token implements the service.SecureRandom interface
func (m *MockSecureRandom) Token() (string, error) {
	if m.TokenFn != nil {
		return m.TokenFn()
	}
	if m.Err != nil {
		return "", m.Err
	}
	if m.TokenValue != "" {
		return m.TokenValue, nil
	}
	return "mock-token", nil
}
