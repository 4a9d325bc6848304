package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENVIRONMENT", "test")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvTest, cfg.App.Environment)
	assert.Equal(t, "investors", cfg.Database.Mongo.Collection)
	assert.Equal(t, "admin@zteller.ng", cfg.Notifications.AdminEmail)
	assert.Equal(t, "http://localhost:3000", cfg.Notifications.AppURL)
	assert.Equal(t, "http://localhost:8080/api/send-admin-notification", cfg.Notifications.EndpointURL)
	assert.Equal(t, 0.05, cfg.Investment.MonthlyRate)
	assert.Equal(t, int64(1048576), cfg.Investment.MaxFileSize)
	assert.Equal(t, 30000, cfg.Investment.FileTimeout)
	assert.Equal(t, 587, cfg.Integrations.SMTP.Port)
	assert.Equal(t, "smtp", cfg.Mail.Provider)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_DeploymentVariables(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("ADMIN_EMAIL", "ops@example.com")
	t.Setenv("NEXT_PUBLIC_APP_URL", "https://invest.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com", cfg.Integrations.SMTP.Host)
	assert.Equal(t, 465, cfg.Integrations.SMTP.Port)
	assert.Equal(t, "mailer@example.com", cfg.Integrations.SMTP.FromEmail)
	assert.True(t, cfg.Integrations.SMTP.Complete())
	assert.Equal(t, "ops@example.com", cfg.Notifications.AdminEmail)
	assert.Equal(t, "https://invest.example.com", cfg.Notifications.AppURL)
}

func TestLoadFromFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MINIO_BUCKET", "receipts")

	cfg, err := LoadFromFile("../../../configs/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, EnvTest, cfg.App.Environment)
	assert.Equal(t, "zteller", cfg.Database.Mongo.Database)
	assert.Equal(t, "receipts", cfg.Storage.Minio.Bucket)
	assert.Equal(t, "http://localhost:9000", cfg.Storage.Minio.PublicBaseURL)
	assert.Equal(t, 1800, cfg.Wizard.SessionTTL)
	assert.False(t, cfg.Database.Postgres.Enabled)
	assert.False(t, cfg.Integrations.SMTP.Complete())

	_, err = LoadFromFile("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoad_MissingMongoURI(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MONGO_URI", "")
	t.Setenv("MONGOURI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.mongo.uri is required")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.App.Environment = EnvProduction
		cfg.Database.Mongo.URI = "mongodb://localhost"
		cfg.Database.Redis.Address = "localhost:6379"
		cfg.Storage.Minio.Endpoint = "localhost:9000"
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown environment", mutate: func(c *Config) { c.App.Environment = "staging" }, wantErr: "app.environment"},
		{name: "missing redis", mutate: func(c *Config) { c.Database.Redis.Address = "" }, wantErr: "database.redis.address"},
		{name: "missing minio", mutate: func(c *Config) { c.Storage.Minio.Endpoint = "" }, wantErr: "storage.minio.endpoint"},
		{name: "audit log without host", mutate: func(c *Config) { c.Database.Postgres.Enabled = true }, wantErr: "database.postgres.host"},
		{name: "unknown mail provider", mutate: func(c *Config) { c.Mail.Provider = "sendgrid" }, wantErr: "mail.provider"},
		{name: "rate out of range", mutate: func(c *Config) { c.Investment.MonthlyRate = 1.5 }, wantErr: "monthly_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "audit", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=audit sslmode=disable", p.GetDSN())
}
