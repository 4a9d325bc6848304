package emailsend

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

type stubTransport struct {
	mock.Mock
}

func (m *stubTransport) Send(ctx context.Context, msg Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *stubTransport) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *stubTransport) Name() string { return "stub" }

func configuredSMTP() *Config {
	c := DefaultConfig()
	c.SMTP = config.SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "mailer@example.com",
		Password:  "secret",
		FromEmail: "noreply@zteller.com",
		UseTLS:    true,
	}
	return c
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newCache(t *testing.T, cfg *Config, transport Transport) (*TransportCache, *clock, *[]time.Duration) {
	clk := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	var sleeps []time.Duration

	cache := NewTransportCache(cfg, func(ctx context.Context) (Transport, error) {
		return transport, nil
	}, &testLogger{t: t})
	cache.now = clk.now
	cache.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	t.Cleanup(func() { settle(cache) })
	return cache, clk, &sleeps
}

// settle waits for an in-flight verification to finish.
func settle(c *TransportCache) {
	c.mu.Lock()
	done := c.checking
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	assert.False(t, c.Configured())
	require.NoError(t, c.Validate())

	c = configuredSMTP()
	assert.True(t, c.Configured())
	assert.Equal(t, "noreply@zteller.com", c.FromAddress())

	c.SMTP.FromEmail = ""
	assert.Equal(t, "mailer@example.com", c.FromAddress())

	c.Provider = ProviderSES
	assert.False(t, c.Configured())
	c.SESFromEmail = "noreply@zteller.com"
	c.AWSRegion = "eu-west-1"
	assert.True(t, c.Configured())

	c.Provider = "pigeon"
	assert.Error(t, c.Validate())

	c = DefaultConfig()
	c.VerifyTimeout = c.Timeout
	assert.Error(t, c.Validate())
}

func TestFromAppConfig(t *testing.T) {
	var app config.Config
	app.App.Environment = config.EnvDevelopment
	app.Mail.Provider = ProviderSES
	app.Mail.RecheckInterval = 60000
	app.Mail.VerifyTimeout = 2000
	app.Integrations.AWS.Region = "eu-west-1"
	app.Integrations.AWS.SES.FromEmail = "noreply@zteller.com"

	c := FromAppConfig(&app)
	assert.Equal(t, ProviderSES, c.Provider)
	assert.Equal(t, time.Minute, c.RecheckInterval)
	assert.Equal(t, 2*time.Second, c.VerifyTimeout)
	assert.Equal(t, 587, c.SMTP.Port)
	assert.True(t, c.Development)
	assert.True(t, c.Configured())

	var toggled config.Config
	toggled.Integrations.AWS.SES.Enabled = true
	assert.Equal(t, ProviderSES, FromAppConfig(&toggled).Provider)
}

func TestBuildMessage(t *testing.T) {
	raw := string(BuildMessage(Message{
		From:    "noreply@zteller.com",
		To:      []string{"admin@zteller.com"},
		Subject: "New Investment Application - ₦100,000 from Ada Obi",
		HTML:    "<p>hello</p>",
	}, "<1.local@smtp.example.com>"))

	assert.Contains(t, raw, "From: noreply@zteller.com\r\n")
	assert.Contains(t, raw, "To: admin@zteller.com\r\n")
	assert.Contains(t, raw, "Message-ID: <1.local@smtp.example.com>\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, raw, "Subject: =?UTF-8?q?")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hello</p>"))

	plain := string(BuildMessage(Message{Subject: "Hello"}, ""))
	assert.Contains(t, plain, "Subject: Hello\r\n")
	assert.NotContains(t, plain, "Message-ID")
}

func TestMockTransport(t *testing.T) {
	m := NewMockTransport(&testLogger{t: t})
	m.now = func() time.Time { return time.UnixMilli(1717243200000) }

	id, err := m.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "x"})
	require.NoError(t, err)
	assert.Equal(t, "mock-id-1717243200000", id)
	assert.Equal(t, ProviderMock, m.Name())
	assert.NoError(t, m.Verify(context.Background()))
}

func TestTransportCache_MissingConfig(t *testing.T) {
	dev := DefaultConfig()
	dev.Development = true
	cache, _, _ := newCache(t, dev, &stubTransport{})

	_, err := cache.Get(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMailConfigMissing))

	prod := DefaultConfig()
	cache, _, _ = newCache(t, prod, &stubTransport{})
	transport, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, transport.Name())
}

func TestTransportCache_VerifiedTransportIsReused(t *testing.T) {
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Return(nil).Twice()

	cfg := configuredSMTP()
	cache, clk, sleeps := newCache(t, cfg, stub)

	first, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, first)

	clk.t = clk.t.Add(cfg.RecheckInterval - time.Second)
	second, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, second)
	stub.AssertNumberOfCalls(t, "Verify", 1)

	clk.t = clk.t.Add(2 * time.Second)
	third, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, third)
	settle(cache)
	stub.AssertNumberOfCalls(t, "Verify", 2)
	assert.Empty(t, *sleeps)
}

func TestTransportCache_VerifyFailureFallsBackToMock(t *testing.T) {
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Return(errors.New("dial tcp: connection refused")).Times(3)

	cfg := configuredSMTP()
	cache, clk, sleeps := newCache(t, cfg, stub)

	transport, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, transport.Name())
	stub.AssertNumberOfCalls(t, "Verify", 3)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, *sleeps)

	again, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, again.Name())
	stub.AssertNumberOfCalls(t, "Verify", 3)

	stub.On("Verify", mock.Anything).Return(nil).Once()
	clk.t = clk.t.Add(cfg.RecheckInterval)
	during, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, during.Name())

	settle(cache)
	recovered, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, recovered)
}

func TestTransportCache_AttemptsAreBounded(t *testing.T) {
	cfg := configuredSMTP()
	cfg.VerifyTimeout = 250 * time.Millisecond

	stub := &stubTransport{}
	stub.On("Verify", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= cfg.VerifyTimeout
	})).Return(nil).Once()

	cache, _, _ := newCache(t, cfg, stub)
	transport, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, transport)
	stub.AssertExpectations(t)
}

func TestTransportCache_SlowVerificationDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Run(func(args mock.Arguments) {
		<-release
	}).Return(nil).Once()

	cfg := configuredSMTP()
	cfg.VerifyWait = 20 * time.Millisecond
	cache, _, _ := newCache(t, cfg, stub)
	var releaseOnce sync.Once
	unblock := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	var wg sync.WaitGroup
	results := make([]Transport, 4)
	start := time.Now()
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Get(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Less(t, time.Since(start), time.Second)
	for _, tr := range results {
		assert.Equal(t, ProviderMock, tr.Name())
	}

	unblock()
	settle(cache)
	stub.AssertNumberOfCalls(t, "Verify", 1)

	transport, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, stub, transport)
}

func TestTransportCache_FactoryError(t *testing.T) {
	cache := NewTransportCache(configuredSMTP(), func(ctx context.Context) (Transport, error) {
		return nil, errors.New("no credentials")
	}, &testLogger{t: t})

	transport, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, transport.Name())
}

func TestService_SendEmail(t *testing.T) {
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Return(nil)
	stub.On("Send", mock.Anything, mock.MatchedBy(func(m Message) bool {
		return m.From == "noreply@zteller.com" && len(m.To) == 1 && m.To[0] == "admin@zteller.com"
	})).Return("<42.local@smtp.example.com>", nil).Once()

	cfg := configuredSMTP()
	cache, _, _ := newCache(t, cfg, stub)
	svc := NewService(cfg, cache, &testLogger{t: t})

	out, err := svc.SendEmail(context.Background(), "admin@zteller.com", "subject", "<p>body</p>")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "<42.local@smtp.example.com>", out.MessageID)
	assert.Equal(t, "stub", out.Provider)
	assert.False(t, out.Degraded)
	assert.Empty(t, out.Warning)
	stub.AssertExpectations(t)
}

func TestService_SendEmailDegraded(t *testing.T) {
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Return(errors.New("dial tcp: connection refused"))

	cfg := configuredSMTP()
	cache, _, _ := newCache(t, cfg, stub)
	svc := NewService(cfg, cache, &testLogger{t: t})

	out, err := svc.SendEmail(context.Background(), "admin@zteller.com", "subject", "<p>body</p>")
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Equal(t, ProviderMock, out.Provider)
	assert.Equal(t, WarnMailUnreachable, out.Warning)
	stub.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	unconfigured := DefaultConfig()
	svc = NewService(unconfigured, NewTransportCache(unconfigured, nil, &testLogger{t: t}), &testLogger{t: t})
	out, err = svc.SendEmail(context.Background(), "admin@zteller.com", "subject", "<p>body</p>")
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Equal(t, WarnMailNotConfigured, out.Warning)
}

func TestService_SilentMailHostDegradesQuickly(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var conns []net.Conn
	var connMu sync.Mutex
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			connMu.Lock()
			conns = append(conns, conn)
			connMu.Unlock()
		}
	}()

	cfg := configuredSMTP()
	cfg.SMTP.Host = "127.0.0.1"
	cfg.SMTP.Port = ln.Addr().(*net.TCPAddr).Port
	cfg.SMTP.UseTLS = false
	cfg.Timeout = time.Second
	cfg.VerifyTimeout = 100 * time.Millisecond
	cfg.VerifyDelay = 10 * time.Millisecond
	cfg.VerifyWait = 50 * time.Millisecond

	cache := NewTransportCache(cfg, NewTransportFactory(cfg), &testLogger{t: t})
	t.Cleanup(func() {
		settle(cache)
		ln.Close()
		connMu.Lock()
		for _, c := range conns {
			c.Close()
		}
		connMu.Unlock()
	})
	svc := NewService(cfg, cache, &testLogger{t: t})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	out, err := svc.SendEmail(ctx, "admin@zteller.com", "subject", "<p>body</p>")
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.NoError(t, ctx.Err())
}

func TestService_SendEmailFailure(t *testing.T) {
	stub := &stubTransport{}
	stub.On("Verify", mock.Anything).Return(nil)
	stub.On("Send", mock.Anything, mock.Anything).Return("", errors.New("550 mailbox unavailable"))

	cfg := configuredSMTP()
	cache, _, _ := newCache(t, cfg, stub)
	svc := NewService(cfg, cache, &testLogger{t: t})

	_, err := svc.SendEmail(context.Background(), "admin@zteller.com", "subject", "<p>body</p>")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotificationSendFailed))
}

func TestSMTPTransport_UnreachableHost(t *testing.T) {
	transport := NewSMTPTransport(config.SMTPConfig{Host: "127.0.0.1", Port: 1}, time.Second)

	err := transport.Verify(context.Background())
	assert.Error(t, err)

	_, err = transport.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}})
	assert.Error(t, err)
}
