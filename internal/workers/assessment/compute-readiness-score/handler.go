// internal/workers/assessment/compute-readiness-score/handler.go
package computereadinessscore

import (
	"context"
	"encoding/json"

	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "compute-readiness-score"
)

type Handler struct {
	config  *Config
	catalog *scoring.Catalog
	logger  logger.Logger
	errors  *apperrors.ErrorHandler
}

func NewHandler(config *Config, catalog *scoring.Catalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		catalog: catalog,
		logger:  l,
		errors:  apperrors.NewErrorHandler(l),
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

// execute never fails on bad answers; they are dropped and reported back.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answers, ignored := scoring.ParseAnswers(input.Answers, h.catalog)
	if len(ignored) > 0 {
		h.logger.Warn("ignored invalid answers", map[string]interface{}{
			"assessmentId": input.AssessmentID,
			"ignored":      len(ignored),
		})
	}

	result := scoring.Score(answers, h.catalog)
	maturity := scoring.ClassifyMaturity(result.OverallScore)

	categoryScores := make(map[string]int, len(result.CategoryScores))
	for cat, s := range result.CategoryScores {
		categoryScores[string(cat)] = s
	}

	weakest := []string{}
	if scoring.AnsweredCount(answers, h.catalog) > 0 {
		for _, cs := range scoring.WeakestCategories(result, h.config.WeakestCount) {
			weakest = append(weakest, string(cs.Category))
		}
	}
	if ignored == nil {
		ignored = []scoring.RejectedAnswer{}
	}

	metrics.ReadinessScore.Observe(float64(result.OverallScore))

	h.logger.Info("readiness score computed", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"readinessScore": result.OverallScore,
		"maturityLevel":  string(maturity),
	})

	return &Output{
		AssessmentID:      input.AssessmentID,
		ReadinessScore:    result.OverallScore,
		CategoryScores:    categoryScores,
		MaturityLevel:     string(maturity),
		AnsweredCount:     scoring.AnsweredCount(answers, h.catalog),
		TotalQuestions:    h.catalog.Len(),
		WeakestCategories: weakest,
		IgnoredAnswers:    ignored,
	}, nil
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
