// internal/workers/indicators/refresh-country-indicators/handler.go
package refreshcountryindicators

import (
	"context"
	"encoding/json"

	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/indicators"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "refresh-country-indicators"
)

type Refresher interface {
	RefreshCountry(ctx context.Context, country string) (*indicators.RefreshResult, error)
}

type Seeder interface {
	Seed(ctx context.Context, inds []indicators.Indicator) error
}

type Handler struct {
	config    *Config
	refresher Refresher
	seeder    Seeder
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
}

func NewHandler(config *Config, refresher Refresher, seeder Seeder, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		refresher: refresher,
		seeder:    seeder,
		logger:    l,
		errors:    apperrors.NewErrorHandler(l),
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

// execute refreshes one country. A covered country with nothing stored yet
// is seeded from the baseline and refreshed once more.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	country, err := indicators.NormalizeCountry(input.Country)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}

	result, err := h.refresher.RefreshCountry(ctx, country)
	if err != nil {
		return nil, apperrors.NewIndicatorRefreshFailedError(country, err)
	}

	seeded := false
	if result.Checked == 0 && h.seeder != nil {
		if baseline := indicators.BaselineFor(country); len(baseline) > 0 {
			if err := h.seeder.Seed(ctx, baseline); err != nil {
				return nil, apperrors.NewIndicatorRefreshFailedError(country, err)
			}
			seeded = true
			if result, err = h.refresher.RefreshCountry(ctx, country); err != nil {
				return nil, apperrors.NewIndicatorRefreshFailedError(country, err)
			}
		}
	}

	changes := result.Changes
	if changes == nil {
		changes = []indicators.Change{}
	}
	out := &Output{
		Country: country,
		Seeded:  seeded,
		Checked: result.Checked,
		Updated: result.Updated,
		Skipped: result.Skipped,
		Changes: changes,
	}
	h.logger.Info("country indicators refreshed", map[string]interface{}{
		"country": country,
		"seeded":  seeded,
		"checked": out.Checked,
		"updated": out.Updated,
	})
	return out, nil
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
