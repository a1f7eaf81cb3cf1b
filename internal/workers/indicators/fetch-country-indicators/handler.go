// internal/workers/indicators/fetch-country-indicators/handler.go
package fetchcountryindicators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/indicators"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "fetch-country-indicators"
)

var knownCategories = map[indicators.Category]bool{
	indicators.CategoryEconomic:    true,
	indicators.CategoryPolitical:   true,
	indicators.CategoryDemographic: true,
	indicators.CategoryDigital:     true,
}

type Store interface {
	ListByCountry(ctx context.Context, country string) ([]indicators.Indicator, error)
	Seed(ctx context.Context, inds []indicators.Indicator) error
}

type Cache interface {
	Get(ctx context.Context, country string) ([]indicators.Indicator, error)
	Set(ctx context.Context, country string, inds []indicators.Indicator) error
}

type Handler struct {
	config *Config
	store  Store
	cache  Cache
	logger logger.Logger
	errors *apperrors.ErrorHandler
}

// NewHandler builds the cache-aside reader. cache may be nil.
func NewHandler(config *Config, store Store, cache Cache, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		store:  store,
		cache:  cache,
		logger: l,
		errors: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	country, err := indicators.NormalizeCountry(input.Country)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	category := indicators.Category(strings.ToLower(strings.TrimSpace(input.Category)))
	if category != "" && !knownCategories[category] {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown indicator category %q", input.Category))
	}

	inds, source, err := h.load(ctx, country)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Country:    country,
		Indicators: filterByCategory(inds, category),
		Source:     source,
	}
	h.logger.Info("country indicators fetched", map[string]interface{}{
		"country":  country,
		"category": string(category),
		"source":   source,
		"count":    len(out.Indicators),
	})
	return out, nil
}

// load reads through the cache, then the store, then the static baseline.
func (h *Handler) load(ctx context.Context, country string) ([]indicators.Indicator, string, error) {
	if h.cache != nil {
		cached, err := h.cache.Get(ctx, country)
		switch {
		case err == nil:
			metrics.IndicatorCacheLookups.WithLabelValues("hit").Inc()
			return cached, SourceCache, nil
		case errors.Is(err, indicators.ErrCacheMiss):
			metrics.IndicatorCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.IndicatorCacheLookups.WithLabelValues("error").Inc()
			h.logger.Warn("indicator cache read failed", map[string]interface{}{
				"country": country,
				"error":   err.Error(),
			})
		}
	}

	inds, err := h.store.ListByCountry(ctx, country)
	if err != nil {
		return nil, "", apperrors.NewQueryExecutionFailedError("list_indicators", err)
	}
	source := SourceDatabase

	if len(inds) == 0 {
		inds = indicators.BaselineFor(country)
		if len(inds) == 0 {
			return []indicators.Indicator{}, SourceNone, nil
		}
		source = SourceBaseline
		if h.config.SeedMissing {
			if err := h.store.Seed(ctx, inds); err != nil {
				h.logger.Warn("baseline seed failed", map[string]interface{}{
					"country": country,
					"error":   err.Error(),
				})
			}
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, country, inds); err != nil {
			h.logger.Warn("indicator cache write failed", map[string]interface{}{
				"country": country,
				"error":   err.Error(),
			})
		}
	}
	return inds, source, nil
}

func filterByCategory(inds []indicators.Indicator, category indicators.Category) []indicators.Indicator {
	out := make([]indicators.Indicator, 0, len(inds))
	for _, ind := range inds {
		if category == "" || ind.Category == category {
			out = append(out, ind)
		}
	}
	return out
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.JobCompleted(TaskType)
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := apperrors.Normalize(err)
	metrics.JobFailed(TaskType, string(stdErr.Code))
	h.errors.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
