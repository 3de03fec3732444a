package mailer

import (
	"log/slog"
	"sync"
)

// ConsoleMailer logs messages instead of delivering them. It is the default
// in development and the standard double in tests; sent messages are
// retained for inspection.
type ConsoleMailer struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []Message
}

var _ Mailer = (*ConsoleMailer)(nil)

// NewConsoleMailer creates a ConsoleMailer writing through the given logger.
// If logger is nil, the default logger is used.
func NewConsoleMailer(logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{logger: logger.With(slog.String("component", "console_mailer"))}
}

// Send implements the Mailer interface.
func (m *ConsoleMailer) Send(msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	m.logger.Info("email sent to console",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}

// Sent returns a copy of all messages delivered so far.
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
