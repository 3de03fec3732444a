// Package mailer provides the outbound notification service used by the
// use-case layer. Sends are fire-and-forget: failures are logged by the
// caller and never propagated to students or the payment provider.
package mailer

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers notification emails.
type Mailer interface {
	// Send delivers the message. Implementations must be safe for
	// concurrent use; callers typically invoke Send from a goroutine.
	Send(msg Message) error
}
