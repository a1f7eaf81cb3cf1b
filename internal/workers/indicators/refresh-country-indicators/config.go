// internal/workers/indicators/refresh-country-indicators/config.go
package refreshcountryindicators

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
