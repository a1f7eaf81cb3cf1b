// internal/workers/indicators/refresh-country-indicators/models.go
package refreshcountryindicators

import "readiness-workers/internal/indicators"

type Input struct {
	Country string `json:"country"`
}

type Output struct {
	Country string              `json:"country"`
	Seeded  bool                `json:"seeded"`
	Checked int                 `json:"checked"`
	Updated int                 `json:"updated"`
	Skipped int                 `json:"skipped"`
	Changes []indicators.Change `json:"changes"`
}
