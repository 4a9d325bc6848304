package emailsend

import (
	"context"
	"fmt"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
)

const ProviderMock = "mock"

// MockTransport logs instead of sending. It stands in when no working
// transport is available.
type MockTransport struct {
	logger logger.Logger
	now    func() time.Time
}

func NewMockTransport(log logger.Logger) *MockTransport {
	return &MockTransport{logger: log, now: time.Now}
}

func (t *MockTransport) Name() string { return ProviderMock }

func (t *MockTransport) Verify(ctx context.Context) error { return nil }

func (t *MockTransport) Send(ctx context.Context, msg Message) (string, error) {
	id := fmt.Sprintf("mock-id-%d", t.now().UnixMilli())
	t.logger.Info("mock email transport used, message not delivered", map[string]interface{}{
		"to":        msg.To,
		"subject":   msg.Subject,
		"messageId": id,
	})
	return id, nil
}
