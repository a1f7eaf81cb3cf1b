// internal/indicators/baseline.go
package indicators

import (
	"sort"
	"time"
)

const baselineSource = "World Bank WDI 2023 (baseline)"

// Definition describes an indicator code and the range its values may take.
type Definition struct {
	Code     string
	Name     string
	Category Category
	Unit     string
	Min      float64
	Max      float64
}

var definitions = []Definition{
	{Code: "gdp_growth", Name: "Croissance du PIB", Category: CategoryEconomic, Unit: "%", Min: -10, Max: 15},
	{Code: "inflation", Name: "Inflation", Category: CategoryEconomic, Unit: "%", Min: -5, Max: 80},
	{Code: "political_stability", Name: "Stabilité politique", Category: CategoryPolitical, Unit: "index", Min: -2.5, Max: 2.5},
	{Code: "population", Name: "Population", Category: CategoryDemographic, Unit: "millions", Min: 0, Max: 400},
	{Code: "internet_penetration", Name: "Pénétration d'Internet", Category: CategoryDigital, Unit: "%", Min: 0, Max: 100},
	{Code: "mobile_money_accounts", Name: "Comptes mobile money", Category: CategoryDigital, Unit: "% adultes", Min: 0, Max: 100},
}

var definitionIndex = func() map[string]Definition {
	m := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		m[d.Code] = d
	}
	return m
}()

func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

func DefinitionFor(code string) (Definition, bool) {
	d, ok := definitionIndex[code]
	return d, ok
}

// values per country, in definitions order
var baselineValues = map[string][6]float64{
	"NG": {2.9, 24.7, -1.8, 223.8, 55.4, 34.0},
	"KE": {5.6, 7.7, -0.7, 55.1, 40.8, 79.0},
	"ZA": {0.6, 6.0, -0.3, 60.4, 72.3, 30.0},
	"EG": {3.8, 33.9, -1.0, 112.7, 72.2, 6.0},
	"MA": {3.4, 6.1, -0.3, 37.8, 90.7, 8.0},
	"GH": {2.9, 38.1, 0.0, 34.1, 69.8, 60.0},
	"CI": {6.5, 4.4, -0.6, 28.9, 38.4, 51.0},
	"SN": {4.6, 5.9, -0.1, 17.8, 60.0, 55.0},
	"RW": {8.2, 14.0, 0.1, 14.1, 34.4, 47.0},
	"ET": {7.2, 30.2, -1.6, 126.5, 19.4, 14.0},
}

// BaselineCountries lists the seeded markets in alphabetical order.
func BaselineCountries() []string {
	out := make([]string, 0, len(baselineValues))
	for c := range baselineValues {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Baseline returns the static seed for every market.
func Baseline() []Indicator {
	var out []Indicator
	for _, country := range BaselineCountries() {
		out = append(out, BaselineFor(country)...)
	}
	return out
}

// BaselineFor returns the seed for one market, or nil when it is not covered.
func BaselineFor(country string) []Indicator {
	values, ok := baselineValues[country]
	if !ok {
		return nil
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]Indicator, 0, len(definitions))
	for i, d := range definitions {
		out = append(out, Indicator{
			Country:   country,
			Code:      d.Code,
			Name:      d.Name,
			Category:  d.Category,
			Value:     values[i],
			Unit:      d.Unit,
			Source:    baselineSource,
			UpdatedAt: at,
		})
	}
	return out
}
