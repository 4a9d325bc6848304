// internal/services/application/application-wizard/config.go
package applicationwizard

import "time"

type Config struct {
	SessionTTL     time.Duration
	SubmitLockTTL  time.Duration
	MaxFileSize    int64
	DefaultMonths  int
	MonthlyRate    float64
	Development    bool
	MaxUploadBytes int64
}

func LoadConfig() *Config {
	return &Config{
		SessionTTL:     30 * time.Minute,
		SubmitLockTTL:  2 * time.Minute,
		MaxFileSize:    1 << 20,
		DefaultMonths:  3,
		MonthlyRate:    0.05,
		MaxUploadBytes: 4 << 20,
	}
}
