// internal/indicators/model.go
package indicators

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrIndicatorNotFound = errors.New("INDICATOR_NOT_FOUND")
	ErrCacheMiss         = errors.New("CACHE_MISS")
	ErrInvalidCountry    = errors.New("INVALID_COUNTRY")
	ErrUnknownIndicator  = errors.New("UNKNOWN_INDICATOR")
)

type Category string

const (
	CategoryEconomic    Category = "economic"
	CategoryPolitical   Category = "political"
	CategoryDemographic Category = "demographic"
	CategoryDigital     Category = "digital"
)

// Indicator is one country-level figure. Records are keyed by (Country, Code).
type Indicator struct {
	Country   string    `json:"country"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Change is published whenever a refresh moves an indicator value.
type Change struct {
	Country string    `json:"country"`
	Code    string    `json:"code"`
	Old     float64   `json:"old"`
	New     float64   `json:"new"`
	At      time.Time `json:"at"`
}

// NormalizeCountry validates an ISO 3166-1 alpha-2 code and upper-cases it.
func NormalizeCountry(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, raw)
	}
	return code, nil
}
