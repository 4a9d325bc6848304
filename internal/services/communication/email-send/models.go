package emailsend

import (
	"context"
	"time"
)

const TaskType = "email-send"

const (
	WarnMailNotConfigured = "Email service is not configured"
	WarnMailUnreachable   = "Email service is unreachable, notification was not delivered"
)

// Message is a single HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

type Output struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"messageId,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	SentAt    time.Time `json:"sentAt,omitempty"`
	// Degraded is set when the mock transport handled the send, so nothing
	// reached the recipient.
	Degraded bool   `json:"degraded,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// Transport delivers a message and returns the provider message id.
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
	Verify(ctx context.Context) error
	Name() string
}
