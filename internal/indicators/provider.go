// internal/indicators/provider.go
package indicators

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Provider supplies the latest value for an indicator.
type Provider interface {
	Fetch(ctx context.Context, current Indicator) (float64, error)
}

// step size as a fraction of the indicator's range, per category
var categoryDrift = map[Category]float64{
	CategoryEconomic:    0.01,
	CategoryPolitical:   0.005,
	CategoryDemographic: 0.0005,
	CategoryDigital:     0.005,
}

// SimulatedProvider stands in for live data feeds with a bounded random walk.
// Each step is normally distributed around the current value and clamped to
// the indicator's range.
type SimulatedProvider struct {
	mu         sync.Mutex
	rng        *rand.Rand
	volatility float64
}

func NewSimulatedProvider(seed int64, volatility float64) *SimulatedProvider {
	return &SimulatedProvider{
		rng:        rand.New(rand.NewSource(seed)),
		volatility: volatility,
	}
}

func (p *SimulatedProvider) Fetch(ctx context.Context, current Indicator) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	def, ok := DefinitionFor(current.Code)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownIndicator, current.Code)
	}

	p.mu.Lock()
	z := p.rng.NormFloat64()
	p.mu.Unlock()

	step := z * p.volatility * categoryDrift[def.Category] * (def.Max - def.Min)
	next := clamp(current.Value+step, def.Min, def.Max)
	return math.Round(next*100) / 100, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
