// internal/workers/indicators/fetch-country-indicators/config.go
package fetchcountryindicators

import "time"

type Config struct {
	Timeout time.Duration
	// SeedMissing writes the static baseline when the table holds nothing for a covered country.
	SeedMissing bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		SeedMissing: true,
	}
}
