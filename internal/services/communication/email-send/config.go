package emailsend

import (
	"fmt"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
)

const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
)

type Config struct {
	Provider        string
	SMTP            config.SMTPConfig
	SESFromEmail    string
	AWSRegion       string
	Timeout         time.Duration
	RecheckInterval time.Duration
	VerifyAttempts  int
	VerifyDelay     time.Duration
	VerifyTimeout   time.Duration
	VerifyWait      time.Duration
	Development     bool
}

func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderSMTP,
		SMTP:            config.SMTPConfig{Port: 587, UseTLS: true},
		Timeout:         30 * time.Second,
		RecheckInterval: 5 * time.Minute,
		VerifyAttempts:  3,
		VerifyDelay:     500 * time.Millisecond,
		VerifyTimeout:   5 * time.Second,
		VerifyWait:      2 * time.Second,
	}
}

// FromAppConfig maps the mail and integration sections onto a Config.
func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Mail.Provider != "" {
		c.Provider = cfg.Mail.Provider
	}
	if cfg.Integrations.AWS.SES.Enabled {
		c.Provider = ProviderSES
	}
	if cfg.Mail.RecheckInterval > 0 {
		c.RecheckInterval = config.GetDuration(cfg.Mail.RecheckInterval)
	}
	if cfg.Mail.VerifyTimeout > 0 {
		c.VerifyTimeout = config.GetDuration(cfg.Mail.VerifyTimeout)
	}
	c.SMTP = cfg.Integrations.SMTP
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	c.SESFromEmail = cfg.Integrations.AWS.SES.FromEmail
	c.AWSRegion = cfg.Integrations.AWS.Region
	c.Development = cfg.IsDevelopment()
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.VerifyTimeout <= 0 || c.VerifyTimeout >= c.Timeout {
		return fmt.Errorf("verify_timeout must be positive and below timeout")
	}
	if c.VerifyAttempts <= 0 {
		return fmt.Errorf("verify_attempts must be positive")
	}
	if c.Provider != ProviderSMTP && c.Provider != ProviderSES {
		return fmt.Errorf("unknown mail provider %q", c.Provider)
	}
	if c.Provider == ProviderSMTP && (c.SMTP.Port <= 0 || c.SMTP.Port > 65535) {
		return fmt.Errorf("smtp_port must be between 1 and 65535")
	}
	return nil
}

// Configured reports whether the selected provider has what it needs to send.
func (c *Config) Configured() bool {
	switch c.Provider {
	case ProviderSES:
		return c.SESFromEmail != "" && c.AWSRegion != ""
	default:
		return c.SMTP.Complete()
	}
}

// FromAddress is the sender used for outbound mail.
func (c *Config) FromAddress() string {
	if c.Provider == ProviderSES {
		return c.SESFromEmail
	}
	if c.SMTP.FromEmail != "" {
		return c.SMTP.FromEmail
	}
	return c.SMTP.Username
}
