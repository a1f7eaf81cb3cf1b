// internal/workers/assessment/save-assessment-draft/config.go
package saveassessmentdraft

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
