// internal/indicators/refresher.go
package indicators

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"

	"github.com/robfig/cron/v3"
)

type indicatorStore interface {
	ListByCountry(ctx context.Context, country string) ([]Indicator, error)
	Upsert(ctx context.Context, ind Indicator) error
	Countries(ctx context.Context) ([]string, error)
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, country string) error
}

type changePublisher interface {
	Publish(ctx context.Context, change Change) error
}

// RefreshResult summarises one country refresh.
type RefreshResult struct {
	Country string   `json:"country"`
	Checked int      `json:"checked"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Changes []Change `json:"changes"`
}

// Refresher pulls new values from a Provider and propagates them to the
// store, the cache and subscribers.
type Refresher struct {
	store    indicatorStore
	cache    cacheInvalidator
	notifier changePublisher
	provider Provider
	logger   logger.Logger
	timeout  time.Duration
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRefresher(store indicatorStore, cache cacheInvalidator, notifier changePublisher, provider Provider, log logger.Logger) *Refresher {
	return &Refresher{
		store:    store,
		cache:    cache,
		notifier: notifier,
		provider: provider,
		logger:   log.WithFields(map[string]interface{}{"component": "indicator-refresher"}),
		timeout:  2 * time.Minute,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RefreshCountry fetches a new value for every stored indicator of country.
// Provider errors skip the indicator; store errors abort the country.
func (r *Refresher) RefreshCountry(ctx context.Context, country string) (*RefreshResult, error) {
	current, err := r.store.ListByCountry(ctx, country)
	if err != nil {
		metrics.IndicatorRefreshes.WithLabelValues("failed").Inc()
		return nil, err
	}

	result := &RefreshResult{Country: country, Changes: []Change{}}
	for _, ind := range current {
		result.Checked++

		next, err := r.provider.Fetch(ctx, ind)
		if err != nil {
			result.Skipped++
			r.logger.Warn("indicator fetch failed", map[string]interface{}{
				"country": country,
				"code":    ind.Code,
				"error":   err.Error(),
			})
			continue
		}
		if next == ind.Value {
			continue
		}

		old := ind.Value
		ind.Value = next
		ind.UpdatedAt = r.now()
		if err := r.store.Upsert(ctx, ind); err != nil {
			// values written before the failure still reach readers
			r.propagate(ctx, result)
			metrics.IndicatorRefreshes.WithLabelValues("failed").Inc()
			return result, err
		}

		result.Updated++
		result.Changes = append(result.Changes, Change{
			Country: country,
			Code:    ind.Code,
			Old:     old,
			New:     next,
			At:      ind.UpdatedAt,
		})
	}

	r.propagate(ctx, result)
	metrics.IndicatorRefreshes.WithLabelValues("succeeded").Inc()
	r.logger.Debug("country indicators refreshed", map[string]interface{}{
		"country": country,
		"checked": result.Checked,
		"updated": result.Updated,
		"skipped": result.Skipped,
	})
	return result, nil
}

// propagate invalidates the country cache and publishes the changes of result.
// Failures are logged; the store already holds the new values.
func (r *Refresher) propagate(ctx context.Context, result *RefreshResult) {
	if result.Updated == 0 {
		return
	}
	if err := r.cache.Invalidate(ctx, result.Country); err != nil {
		r.logger.Warn("indicator cache invalidation failed", map[string]interface{}{
			"country": result.Country,
			"error":   err.Error(),
		})
	}
	for _, change := range result.Changes {
		if err := r.notifier.Publish(ctx, change); err != nil {
			r.logger.Warn("indicator change publish failed", map[string]interface{}{
				"country": result.Country,
				"code":    change.Code,
				"error":   err.Error(),
			})
		}
	}
	metrics.IndicatorChanges.WithLabelValues(result.Country).Add(float64(result.Updated))
}

// RefreshAll refreshes every stored country. A failing country does not stop
// the others; their errors are joined.
func (r *Refresher) RefreshAll(ctx context.Context) ([]RefreshResult, error) {
	countries, err := r.store.Countries(ctx)
	if err != nil {
		return nil, err
	}

	var (
		results []RefreshResult
		errs    []error
	)
	for _, country := range countries {
		res, err := r.RefreshCountry(ctx, country)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", country, err))
			continue
		}
		results = append(results, *res)
	}
	return results, errors.Join(errs...)
}

// Start schedules RefreshAll on a standard five-field cron spec. Overlapping
// runs are skipped.
func (r *Refresher) Start(spec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return fmt.Errorf("refresher already started")
	}

	cl := logger.NewKeyValueAdapter(r.logger)
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, r.runScheduled); err != nil {
		return fmt.Errorf("schedule indicator refresh %q: %w", spec, err)
	}
	c.Start()
	r.cron = c

	r.logger.Info("indicator refresher started", map[string]interface{}{"schedule": spec})
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	r.logger.Info("indicator refresher stopped", nil)
}

func (r *Refresher) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	results, err := r.RefreshAll(ctx)
	updated := 0
	for _, res := range results {
		updated += res.Updated
	}
	fields := map[string]interface{}{
		"countries": len(results),
		"updated":   updated,
	}
	if err != nil {
		fields["error"] = err.Error()
		r.logger.Error("scheduled indicator refresh finished with errors", fields)
		return
	}
	r.logger.Info("scheduled indicator refresh finished", fields)
}
