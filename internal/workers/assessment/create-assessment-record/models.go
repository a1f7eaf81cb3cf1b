// internal/workers/assessment/create-assessment-record/models.go
package createassessmentrecord

import "readiness-workers/internal/assessment"

// Input carries either a draft id, explicit company and answers, or both.
// Explicit values override the draft.
type Input struct {
	DraftID string                 `json:"draftId"`
	Company *assessment.Company    `json:"company,omitempty"`
	Answers map[string]interface{} `json:"answers,omitempty"`
	Scores  *SubmittedScores       `json:"scores,omitempty"`
}

// SubmittedScores is what the caller computed earlier in the process. The
// stored scores are always recomputed; these are only compared.
type SubmittedScores struct {
	ReadinessScore int            `json:"readinessScore"`
	CategoryScores map[string]int `json:"categoryScores,omitempty"`
}

type Output struct {
	AssessmentID   string `json:"assessmentId"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"` // ISO 8601
	ReadinessScore int    `json:"readinessScore"`
	MaturityLevel  string `json:"maturityLevel"`
	Indexed        bool   `json:"indexed"`
}
