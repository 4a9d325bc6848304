package emailsend

import (
	"context"
	"fmt"
)

type sesSender interface {
	SendHTML(ctx context.Context, from string, to []string, subject, html string) (string, error)
}

// SESTransport sends HTML mail through Amazon SES.
type SESTransport struct {
	client sesSender
}

func NewSESTransport(client sesSender) *SESTransport {
	return &SESTransport{client: client}
}

func (t *SESTransport) Name() string { return ProviderSES }

// Verify is a no-op; SES credentials are only checked on send.
func (t *SESTransport) Verify(ctx context.Context) error {
	if t.client == nil {
		return fmt.Errorf("ses client not initialized")
	}
	return nil
}

func (t *SESTransport) Send(ctx context.Context, msg Message) (string, error) {
	id, err := t.client.SendHTML(ctx, msg.From, msg.To, msg.Subject, msg.HTML)
	if err != nil {
		return "", fmt.Errorf("ses send failed: %w", err)
	}
	return id, nil
}
