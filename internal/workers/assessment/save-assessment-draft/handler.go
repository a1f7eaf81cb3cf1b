// internal/workers/assessment/save-assessment-draft/handler.go
package saveassessmentdraft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"readiness-workers/internal/assessment"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "save-assessment-draft"
)

type Handler struct {
	config  *Config
	drafts  *assessment.DraftStore
	catalog *scoring.Catalog
	logger  logger.Logger
	errors  *apperrors.ErrorHandler
}

func NewHandler(config *Config, drafts *assessment.DraftStore, catalog *scoring.Catalog, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		drafts:  drafts,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	draft, err := h.loadOrCreate(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	if input.Company != nil {
		draft.Company = input.Company.Normalized()
	}

	// invalid entries are reported back to the form, never stored
	valid, rejected := scoring.ParseAnswers(input.Answers, h.catalog)
	for id, v := range valid {
		if err := draft.Answer(id, v); err != nil {
			return nil, apperrors.NewAnswersInvalidError(err.Error())
		}
	}
	for _, id := range input.Clear {
		draft.Clear(scoring.QuestionID(strings.TrimSpace(id)))
	}

	switch {
	case input.Step != nil:
		draft.GoTo(*input.Step)
	case input.Action == ActionNext:
		draft.Next()
	case input.Action == ActionPrev:
		draft.Prev()
	case input.Action != "":
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("unknown wizard action %q", input.Action))
	}

	if err := h.drafts.Save(ctx, draft); err != nil {
		return nil, apperrors.NewCacheFailedError(err)
	}

	if rejected == nil {
		rejected = []scoring.RejectedAnswer{}
	}
	out := &Output{
		DraftID:         draft.ID,
		Step:            draft.Step,
		TotalSteps:      draft.TotalSteps(),
		Progress:        draft.Progress(),
		CanSubmit:       draft.CanSubmit(),
		RejectedAnswers: rejected,
	}
	if cat, ok := draft.CurrentCategory(); ok {
		out.CurrentCategory = string(cat)
	}

	h.logger.Info("assessment draft saved", map[string]interface{}{
		"draftId":  draft.ID,
		"step":     draft.Step,
		"answered": out.Progress.Answered,
		"rejected": len(rejected),
	})
	return out, nil
}

func (h *Handler) loadOrCreate(ctx context.Context, id string) (*assessment.Draft, error) {
	if strings.TrimSpace(id) == "" {
		return h.drafts.New(), nil
	}
	draft, err := h.drafts.Load(ctx, id)
	if errors.Is(err, assessment.ErrDraftNotFound) {
		return nil, apperrors.NewDraftNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewCacheFailedError(err)
	}
	return draft, nil
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
