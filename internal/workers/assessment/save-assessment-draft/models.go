// internal/workers/assessment/save-assessment-draft/models.go
package saveassessmentdraft

import (
	"readiness-workers/internal/assessment"
	"readiness-workers/internal/scoring"
)

const (
	ActionNext = "next"
	ActionPrev = "prev"
)

// Input merges into an existing draft, or starts one when DraftID is empty.
// Step wins over Action when both are set.
type Input struct {
	DraftID string                 `json:"draftId"`
	Company *assessment.Company    `json:"company,omitempty"`
	Answers map[string]interface{} `json:"answers,omitempty"`
	Clear   []string               `json:"clear,omitempty"`
	Step    *int                   `json:"step,omitempty"`
	Action  string                 `json:"action,omitempty"`
}

type Output struct {
	DraftID         string                   `json:"draftId"`
	Step            int                      `json:"step"`
	TotalSteps      int                      `json:"totalSteps"`
	CurrentCategory string                   `json:"currentCategory,omitempty"`
	Progress        assessment.Progress      `json:"progress"`
	CanSubmit       bool                     `json:"canSubmit"`
	RejectedAnswers []scoring.RejectedAnswer `json:"rejectedAnswers"`
}
