// internal/services/application/encode-payment-proof/config.go
package encodepaymentproof

import "time"

type Config struct {
	MaxFileSize int64
	Timeout     time.Duration
	KeyPrefix   string
}

func LoadConfig() *Config {
	return &Config{
		MaxFileSize: 1 << 20,
		Timeout:     30 * time.Second,
		KeyPrefix:   "payment-proofs",
	}
}
