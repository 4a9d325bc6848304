// internal/services/application/validate-application-data/config.go
package validateapplicationdata

const DefaultMaxFileSize int64 = 1 << 20

type Config struct {
	MaxFileSize  int64
	AllowedTypes []string
}

func LoadConfig() *Config {
	return &Config{
		MaxFileSize:  DefaultMaxFileSize,
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
	}
}
