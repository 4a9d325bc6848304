// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Mail          MailConfig         `mapstructure:"mail"`
	Integrations  IntegrationConfig  `mapstructure:"integrations"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Investment    InvestmentConfig   `mapstructure:"investment"`
	Wizard        WizardConfig       `mapstructure:"wizard"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IsDevelopment reports whether raw error detail may be exposed to callers.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == EnvDevelopment
}

type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadTimeout    int    `mapstructure:"read_timeout"`    // milliseconds
	WriteTimeout   int    `mapstructure:"write_timeout"`   // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	RateLimit      int    `mapstructure:"rate_limit"`      // POST requests per minute per client
}

type DatabaseConfig struct {
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type RedisConfig struct {
	Address        string `mapstructure:"address"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	StatusCacheTTL int    `mapstructure:"status_cache_ttl"` // seconds
}

// PostgresConfig backs the audit log. The audit log is skipped when Enabled is false.
type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type StorageConfig struct {
	Minio MinioConfig `mapstructure:"minio"`
}

type MinioConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Bucket        string `mapstructure:"bucket"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// MailConfig selects the outbound mail transport.
type MailConfig struct {
	Provider        string `mapstructure:"provider"`         // smtp | ses
	RecheckInterval int    `mapstructure:"recheck_interval"` // milliseconds
	VerifyTimeout   int    `mapstructure:"verify_timeout"`   // milliseconds, per verification attempt
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromEmail string `mapstructure:"from_email"`
	UseTLS    bool   `mapstructure:"use_tls"`
}

// Complete reports whether host and credentials are all present.
func (s SMTPConfig) Complete() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// IntegrationConfig holds settings for SMTP and AWS.
type IntegrationConfig struct {
	SMTP SMTPConfig `mapstructure:"smtp"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			SenderID string `mapstructure:"sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// NotificationConfig holds admin notification settings.
type NotificationConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AppURL        string `mapstructure:"app_url"`
	EndpointURL   string `mapstructure:"endpoint_url"`
	Timeout       int    `mapstructure:"timeout"`        // milliseconds
	InternalToken string `mapstructure:"internal_token"` // exempts pipeline calls from rate limiting
}

// InvestmentConfig holds the return rate and receipt constraints.
type InvestmentConfig struct {
	MonthlyRate float64 `mapstructure:"monthly_rate"`
	MaxFileSize int64   `mapstructure:"max_file_size"` // bytes
	FileTimeout int     `mapstructure:"file_timeout"`  // milliseconds
}

type WizardConfig struct {
	SessionTTL int `mapstructure:"session_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
