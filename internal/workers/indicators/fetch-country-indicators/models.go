// internal/workers/indicators/fetch-country-indicators/models.go
package fetchcountryindicators

import "readiness-workers/internal/indicators"

const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceBaseline = "baseline"
	SourceNone     = "none"
)

type Input struct {
	Country  string `json:"country"`
	Category string `json:"category,omitempty"`
}

type Output struct {
	Country    string                 `json:"country"`
	Indicators []indicators.Indicator `json:"indicators"`
	Source     string                 `json:"source"`
}
