// internal/workers/assessment/create-assessment-record/config.go
package createassessmentrecord

import "time"

type Config struct {
	Timeout time.Duration
	// DeleteDraft removes the wizard draft once the record is stored.
	DeleteDraft bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		DeleteDraft: true,
	}
}
