// internal/services/communication/send-admin-notification/config.go
package sendadminnotification

import (
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
)

type Config struct {
	AdminEmail string
	AppURL     string
	Timeout    time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		AdminEmail: cfg.Notifications.AdminEmail,
		AppURL:     cfg.Notifications.AppURL,
		Timeout:    30 * time.Second,
	}
	if cfg.Notifications.Timeout > 0 {
		c.Timeout = config.GetDuration(cfg.Notifications.Timeout)
	}
	return c
}
