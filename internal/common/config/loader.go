// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, then configs/config.<env>.yaml, then the environment.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", environment()))
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func environment() string {
	for _, key := range []string{"APP_ENVIRONMENT", "NODE_ENV"} {
		if env := os.Getenv(key); env != "" {
			return env
		}
	}
	return EnvDevelopment
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideFromEnv maps the deployment's flat variable names onto the config tree.
func overrideFromEnv(cfg *Config) {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if val := os.Getenv(k); val != "" {
				*dst = val
				return
			}
		}
	}

	setString(&cfg.App.Environment, "APP_ENVIRONMENT", "NODE_ENV")

	setString(&cfg.Integrations.SMTP.Host, "SMTP_HOST")
	setString(&cfg.Integrations.SMTP.Username, "SMTP_USER")
	setString(&cfg.Integrations.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.Integrations.SMTP.FromEmail, "SMTP_FROM_EMAIL")
	if val := os.Getenv("SMTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Integrations.SMTP.Port = port
		}
	}

	setString(&cfg.Notifications.AdminEmail, "ADMIN_EMAIL")
	setString(&cfg.Notifications.AppURL, "NEXT_PUBLIC_APP_URL", "APP_URL")
	setString(&cfg.Notifications.EndpointURL, "NOTIFICATION_ENDPOINT_URL")
	setString(&cfg.Notifications.InternalToken, "NOTIFICATION_INTERNAL_TOKEN")

	setString(&cfg.Database.Mongo.URI, "MONGO_URI", "MONGOURI")
	setString(&cfg.Database.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Database.Redis.Address, "REDIS_ADDRESS")
	setString(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Database.Postgres.User, "DB_USER")
	setString(&cfg.Database.Postgres.Password, "DB_PASSWORD")

	setString(&cfg.Storage.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&cfg.Storage.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&cfg.Storage.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&cfg.Storage.Minio.Bucket, "MINIO_BUCKET")

	setString(&cfg.Integrations.AWS.Region, "AWS_REGION")
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "investor-api"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = EnvDevelopment
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 45000
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30000
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 30
	}

	if cfg.Database.Mongo.Database == "" {
		cfg.Database.Mongo.Database = "zteller"
	}
	if cfg.Database.Mongo.Collection == "" {
		cfg.Database.Mongo.Collection = "investors"
	}
	if cfg.Database.Mongo.Timeout == 0 {
		cfg.Database.Mongo.Timeout = 10000
	}
	if cfg.Database.Redis.StatusCacheTTL == 0 {
		cfg.Database.Redis.StatusCacheTTL = 60
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Storage.Minio.Bucket == "" {
		cfg.Storage.Minio.Bucket = "payment-proofs"
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "smtp"
	}
	if cfg.Mail.RecheckInterval == 0 {
		cfg.Mail.RecheckInterval = 300000
	}
	if cfg.Mail.VerifyTimeout == 0 {
		cfg.Mail.VerifyTimeout = 5000
	}
	if cfg.Integrations.SMTP.Port == 0 {
		cfg.Integrations.SMTP.Port = 587
	}
	if !cfg.Integrations.SMTP.UseTLS && cfg.Integrations.SMTP.Port != 25 {
		cfg.Integrations.SMTP.UseTLS = true
	}
	if cfg.Integrations.SMTP.FromEmail == "" {
		cfg.Integrations.SMTP.FromEmail = cfg.Integrations.SMTP.Username
	}
	if cfg.Integrations.AWS.Region == "" {
		cfg.Integrations.AWS.Region = "us-east-1"
	}

	if cfg.Notifications.AdminEmail == "" {
		cfg.Notifications.AdminEmail = "admin@zteller.ng"
	}
	if cfg.Notifications.AppURL == "" {
		cfg.Notifications.AppURL = "http://localhost:3000"
	}
	cfg.Notifications.AppURL = strings.TrimSuffix(cfg.Notifications.AppURL, "/")
	if cfg.Notifications.EndpointURL == "" {
		cfg.Notifications.EndpointURL = localURL(cfg.Server.Address) + "/api/send-admin-notification"
	}
	if cfg.Notifications.Timeout == 0 {
		cfg.Notifications.Timeout = 30000
	}

	if cfg.Investment.MonthlyRate == 0 {
		cfg.Investment.MonthlyRate = 0.05
	}
	if cfg.Investment.MaxFileSize == 0 {
		cfg.Investment.MaxFileSize = 1 << 20
	}
	if cfg.Investment.FileTimeout == 0 {
		cfg.Investment.FileTimeout = 30000
	}

	if cfg.Wizard.SessionTTL == 0 {
		cfg.Wizard.SessionTTL = 1800
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func localURL(address string) string {
	if strings.HasPrefix(address, ":") {
		return "http://localhost" + address
	}
	return "http://" + address
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.App.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("app.environment must be one of development, production, test")
	}

	if cfg.Database.Mongo.URI == "" {
		return fmt.Errorf("database.mongo.uri is required")
	}
	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	if cfg.Database.Postgres.Enabled {
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required when the audit log is enabled")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required when the audit log is enabled")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required when the audit log is enabled")
		}
	}

	if cfg.Storage.Minio.Endpoint == "" {
		return fmt.Errorf("storage.minio.endpoint is required")
	}

	switch cfg.Mail.Provider {
	case "smtp", "ses":
	default:
		return fmt.Errorf("mail.provider must be smtp or ses, got %q", cfg.Mail.Provider)
	}

	if cfg.Investment.MonthlyRate <= 0 || cfg.Investment.MonthlyRate >= 1 {
		return fmt.Errorf("investment.monthly_rate must be between 0 and 1")
	}
	if cfg.Investment.MaxFileSize <= 0 {
		return fmt.Errorf("investment.max_file_size must be positive")
	}

	return nil
}
