package emailsend

import (
	"context"
	"time"

	commonaws "github.com/The-Young-Programer/Investor-Zteller/internal/common/aws"
	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/metrics"
)

type Service struct {
	config *Config
	cache  *TransportCache
	logger logger.Logger
}

func NewService(config *Config, cache *TransportCache, log logger.Logger) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		config: config,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// NewTransportFactory returns the factory for the configured provider.
func NewTransportFactory(config *Config) TransportFactory {
	return func(ctx context.Context) (Transport, error) {
		if config.Provider == ProviderSES {
			client, err := commonaws.NewSESClient(ctx, config.AWSRegion)
			if err != nil {
				return nil, err
			}
			return NewSESTransport(client), nil
		}
		return NewSMTPTransport(config.SMTP, config.Timeout), nil
	}
}

// SendEmail delivers one HTML message to a single recipient.
func (s *Service) SendEmail(ctx context.Context, to, subject, html string) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	transport, err := s.cache.Get(ctx)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "none", "failed").Inc()
		return nil, err
	}

	msg := Message{
		From:    s.config.FromAddress(),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	s.logger.Info("Executing email send", map[string]interface{}{
		"to":        to,
		"subject":   subject,
		"transport": transport.Name(),
	})

	messageID, err := transport.Send(ctx, msg)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("email", transport.Name(), "failed").Inc()
		return nil, apperrors.NewNotificationSendFailedError("email", err)
	}

	out := &Output{
		Success:   true,
		MessageID: messageID,
		Provider:  transport.Name(),
		SentAt:    time.Now().UTC(),
	}

	if transport.Name() == ProviderMock {
		out.Degraded = true
		out.Warning = WarnMailUnreachable
		if !s.config.Configured() {
			out.Warning = WarnMailNotConfigured
		}
		metrics.NotificationsSent.WithLabelValues("email", ProviderMock, "degraded").Inc()
		s.logger.Warn("Email not delivered, mock transport in use", map[string]interface{}{
			"to":      to,
			"warning": out.Warning,
		})
		return out, nil
	}

	metrics.NotificationsSent.WithLabelValues("email", transport.Name(), "sent").Inc()
	s.logger.Info("Email sent successfully", map[string]interface{}{
		"to":        to,
		"messageId": messageID,
		"transport": transport.Name(),
	})

	return out, nil
}
