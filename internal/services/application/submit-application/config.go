// internal/services/application/submit-application/config.go
package submitapplication

import "time"

type Config struct {
	MonthlyRate   float64
	NotifyTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MonthlyRate:   0.05,
		NotifyTimeout: 30 * time.Second,
	}
}
