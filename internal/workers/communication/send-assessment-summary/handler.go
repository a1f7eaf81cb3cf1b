// internal/workers/communication/send-assessment-summary/handler.go
package sendassessmentsummary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"readiness-workers/internal/common/aws"
	apperrors "readiness-workers/internal/common/errors"
	"readiness-workers/internal/common/logger"
	"readiness-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-assessment-summary"
)

type EmailSender interface {
	Send(ctx context.Context, email aws.Email) (string, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topicARN, eventType string, payload interface{}) (string, error)
}

type Handler struct {
	config    *Config
	email     EmailSender
	publisher EventPublisher
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
	now       func() time.Time
}

// NewHandler wires the notification channels. A nil sender or publisher
// disables its channel regardless of config.
func NewHandler(config *Config, email EmailSender, publisher EventPublisher, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		email:     email,
		publisher: publisher,
		logger:    l,
		errors:    apperrors.NewErrorHandler(l),
		now:       func() time.Time { return time.Now().UTC() },
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

// execute publishes the event first; an email failure after that retries both.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{Skipped: []string{}}

	if h.config.SNSEnabled && h.publisher != nil {
		id, err := h.publisher.PublishEvent(ctx, h.config.TopicARN, EventAssessmentCompleted, CompletedEvent{
			EventType:      EventAssessmentCompleted,
			AssessmentID:   input.AssessmentID,
			Country:        strings.ToUpper(input.Country),
			ReadinessScore: input.ReadinessScore,
			MaturityLevel:  input.MaturityLevel,
			CategoryScores: input.CategoryScores,
			OccurredAt:     h.now().Format(time.RFC3339),
		})
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError("sns", err)
		}
		out.EventPublished = true
		out.EventMessageID = id
	} else {
		out.Skipped = append(out.Skipped, "sns")
	}

	switch {
	case !h.config.EmailEnabled || h.email == nil:
		out.Skipped = append(out.Skipped, "email")
	case strings.TrimSpace(input.RecipientEmail) == "":
		out.Skipped = append(out.Skipped, "email:no-recipient")
	case !isValidEmail(input.RecipientEmail):
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("invalid recipient email %q", input.RecipientEmail))
	default:
		id, err := h.email.Send(ctx, aws.Email{
			From:     h.config.FromEmail,
			To:       []string{strings.TrimSpace(input.RecipientEmail)},
			Subject:  buildSubject(input),
			TextBody: buildBody(input),
		})
		if err != nil {
			return nil, apperrors.NewNotificationSendFailedError("email", err)
		}
		out.EmailSent = true
		out.EmailMessageID = id
	}

	h.logger.Info("assessment summary dispatched", map[string]interface{}{
		"assessmentId":   input.AssessmentID,
		"emailSent":      out.EmailSent,
		"eventPublished": out.EventPublished,
		"skipped":        out.Skipped,
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
