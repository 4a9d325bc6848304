// internal/services/communication/send-confirmation/config.go
package sendconfirmation

import (
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
)

type Config struct {
	DeliveryTimeout time.Duration
	SMSEnabled      bool
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		DeliveryTimeout: 60 * time.Second,
		SMSEnabled:      cfg.Integrations.AWS.SNS.Enabled,
	}
}
