// internal/workers/assessment/compute-readiness-score/config.go
package computereadinessscore

import "time"

type Config struct {
	Timeout time.Duration
	// WeakestCount is how many low-scoring categories are reported as focus areas.
	WeakestCount int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		WeakestCount: 2,
	}
}
