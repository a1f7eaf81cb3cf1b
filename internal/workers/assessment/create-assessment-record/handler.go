// internal/workers/assessment/create-assessment-record/handler.go
package createassessmentrecord

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"readiness-workers/internal/assessment"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"
	"readiness-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "create-assessment-record"

	StatusSubmitted = "submitted"
)

type Repository interface {
	Create(ctx context.Context, a *assessment.Assessment) error
}

type Indexer interface {
	Index(ctx context.Context, a *assessment.Assessment) error
}

type Drafts interface {
	Load(ctx context.Context, id string) (*assessment.Draft, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	config  *Config
	repo    Repository
	indexer Indexer
	drafts  Drafts
	catalog *scoring.Catalog
	logger  logger.Logger
	errors  *apperrors.ErrorHandler
}

// NewHandler wires the record store. indexer and drafts may be nil.
func NewHandler(config *Config, catalog *scoring.Catalog, repo Repository, indexer Indexer, drafts Drafts, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		repo:    repo,
		indexer: indexer,
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
	company, answers, err := h.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	if !company.Complete() {
		return nil, apperrors.NewAnswersInvalidError("company name and country are required")
	}
	if len(answers) == 0 {
		return nil, apperrors.NewAnswersInvalidError("at least one valid answer is required")
	}

	a := assessment.New(input.DraftID, company, answers, h.catalog)
	if input.Scores != nil && input.Scores.ReadinessScore != a.Result.OverallScore {
		h.logger.Warn("submitted score differs from recomputed score", map[string]interface{}{
			"draftId":   input.DraftID,
			"submitted": input.Scores.ReadinessScore,
			"computed":  a.Result.OverallScore,
		})
	}

	if err := h.repo.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, assessment.ErrDuplicateAssessment):
			return nil, apperrors.NewDuplicateAssessmentError(input.DraftID)
		default:
			return nil, apperrors.NewDatabaseInsertFailedError(err)
		}
	}

	indexed := false
	if h.indexer != nil {
		if err := h.indexer.Index(ctx, a); err != nil {
			h.logger.Warn("assessment indexing failed", map[string]interface{}{
				"assessmentId": a.ID,
				"error":        err.Error(),
			})
		} else {
			indexed = true
		}
	}

	if h.config.DeleteDraft && h.drafts != nil && input.DraftID != "" {
		if err := h.drafts.Delete(ctx, input.DraftID); err != nil {
			h.logger.Warn("draft cleanup failed", map[string]interface{}{
				"draftId": input.DraftID,
				"error":   err.Error(),
			})
		}
	}

	metrics.AssessmentsCreated.WithLabelValues(a.Company.Country, string(a.Maturity)).Inc()

	h.logger.Info("assessment record created", map[string]interface{}{
		"assessmentId":   a.ID,
		"draftId":        input.DraftID,
		"country":        a.Company.Country,
		"readinessScore": a.Result.OverallScore,
		"maturityLevel":  string(a.Maturity),
		"indexed":        indexed,
	})

	return &Output{
		AssessmentID:   a.ID,
		Status:         StatusSubmitted,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		ReadinessScore: a.Result.OverallScore,
		MaturityLevel:  string(a.Maturity),
		Indexed:        indexed,
	}, nil
}

// resolve merges the stored draft with explicit input values.
func (h *Handler) resolve(ctx context.Context, input *Input) (assessment.Company, scoring.AnswerSet, error) {
	var company assessment.Company
	answers := scoring.AnswerSet{}

	needDraft := input.Company == nil || input.Answers == nil
	if input.DraftID == "" && needDraft {
		return company, nil, apperrors.NewAnswersInvalidError("company and answers are required without a draft")
	}
	if needDraft {
		if h.drafts == nil {
			return company, nil, apperrors.NewDraftNotFoundError(input.DraftID)
		}
		draft, err := h.drafts.Load(ctx, input.DraftID)
		if errors.Is(err, assessment.ErrDraftNotFound) {
			return company, nil, apperrors.NewDraftNotFoundError(input.DraftID)
		}
		if err != nil {
			return company, nil, apperrors.NewCacheFailedError(err)
		}
		company = draft.Company
		answers = draft.Answers.Clone()
	}

	if input.Company != nil {
		company = *input.Company
	}
	if input.Answers != nil {
		parsed, rejected := scoring.ParseAnswers(input.Answers, h.catalog)
		if len(rejected) > 0 {
			h.logger.Warn("ignored invalid answers", map[string]interface{}{
				"draftId": input.DraftID,
				"ignored": len(rejected),
			})
		}
		answers = parsed
	}
	return company, answers, nil
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
