package emailsend

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
)

// TransportFactory builds the configured (non-mock) transport.
type TransportFactory func(ctx context.Context) (Transport, error)

// TransportCache resolves the transport used for each send. The configured
// transport is verified in the background; when verification fails the mock
// is served until the next recheck. Sends never wait on a recheck, and the
// first resolution waits at most VerifyWait before falling back to the mock.
type TransportCache struct {
	mu         sync.Mutex
	config     *Config
	factory    TransportFactory
	real       Transport
	current    Transport
	mock       *MockTransport
	verifiedAt time.Time
	checking   chan struct{}
	logger     logger.Logger
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error
}

func NewTransportCache(config *Config, factory TransportFactory, log logger.Logger) *TransportCache {
	if config == nil {
		config = DefaultConfig()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &TransportCache{
		config:  config,
		factory: factory,
		mock:    NewMockTransport(l),
		logger:  l,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Get returns the transport to send with. Without mail configuration it
// returns MAIL_CONFIG_MISSING in development and the mock otherwise.
func (c *TransportCache) Get(ctx context.Context) (Transport, error) {
	c.mu.Lock()

	if !c.config.Configured() {
		defer c.mu.Unlock()
		if c.config.Development {
			return nil, apperrors.NewMailConfigMissingError()
		}
		if c.current != c.mock {
			c.logger.Warn("mail configuration missing, using mock transport", nil)
			c.current = c.mock
		}
		return c.mock, nil
	}

	done := c.startCheckLocked()
	if c.current != nil {
		t := c.current
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	timer := time.NewTimer(c.config.VerifyWait)
	defer timer.Stop()

	select {
	case <-done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.current, nil
	case <-timer.C:
		c.logger.Warn("mail transport still verifying, using mock", map[string]interface{}{
			"provider": c.config.Provider,
			"waited":   c.config.VerifyWait.String(),
		})
	case <-ctx.Done():
	}
	return c.mock, nil
}

// Warm starts verification without waiting for it.
func (c *TransportCache) Warm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.Configured() {
		c.startCheckLocked()
	}
}

// startCheckLocked launches a verification when one is due and none is in
// flight. It returns the channel closed when the in-flight check settles.
func (c *TransportCache) startCheckLocked() chan struct{} {
	if c.checking != nil {
		return c.checking
	}
	if c.current != nil && c.now().Sub(c.verifiedAt) < c.config.RecheckInterval {
		return nil
	}
	done := make(chan struct{})
	c.checking = done
	go c.refresh(done)
	return done
}

func (c *TransportCache) refresh(done chan struct{}) {
	next := c.resolve()

	c.mu.Lock()
	c.current = next
	c.verifiedAt = c.now()
	c.checking = nil
	c.mu.Unlock()
	close(done)
}

func (c *TransportCache) resolve() Transport {
	c.mu.Lock()
	configured := c.real
	c.mu.Unlock()

	if configured == nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.VerifyTimeout)
		t, err := c.factory(ctx)
		cancel()
		if err != nil {
			c.logger.Warn("failed to build mail transport, using mock", map[string]interface{}{
				"provider": c.config.Provider,
				"error":    err.Error(),
			})
			return c.mock
		}
		c.mu.Lock()
		c.real = t
		c.mu.Unlock()
		configured = t
	}

	if err := c.verify(configured); err != nil {
		c.logger.Warn("mail transport verification failed, using mock", map[string]interface{}{
			"provider": configured.Name(),
			"error":    err.Error(),
		})
		return c.mock
	}
	return configured
}

// verify retries with exponential backoff. Each attempt is bounded by
// VerifyTimeout.
func (c *TransportCache) verify(t Transport) error {
	var err error
	delay := c.config.VerifyDelay

	for i := 0; i < c.config.VerifyAttempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), c.config.VerifyTimeout)
		err = t.Verify(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if i < c.config.VerifyAttempts-1 {
			c.logger.Warn("mail transport verification failed, retrying", map[string]interface{}{
				"attempt":     i + 1,
				"maxAttempts": c.config.VerifyAttempts,
				"nextRetryIn": delay.String(),
				"error":       err.Error(),
			})
			if serr := c.sleep(context.Background(), delay); serr != nil {
				return serr
			}
			delay *= 2
		}
	}

	return fmt.Errorf("verify %s failed after %d attempts: %w", t.Name(), c.config.VerifyAttempts, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
