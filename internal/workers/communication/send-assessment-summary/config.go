// internal/workers/communication/send-assessment-summary/config.go
package sendassessmentsummary

import (
	"time"

	"readiness-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	FromEmail    string
	SNSEnabled   bool
	TopicARN     string
}

func LoadConfig(cfg config.NotificationConfig, timeout time.Duration) *Config {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		Timeout:      timeout,
		EmailEnabled: cfg.Email.Enabled,
		FromEmail:    cfg.Email.FromEmail,
		SNSEnabled:   cfg.SNS.Enabled,
		TopicARN:     cfg.SNS.TopicARN,
	}
}
