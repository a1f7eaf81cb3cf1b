// internal/workers/assessment/compute-readiness-score/models.go
package computereadinessscore

import "readiness-workers/internal/scoring"

type Input struct {
	AssessmentID string                 `json:"assessmentId"`
	Answers      map[string]interface{} `json:"answers"`
}

type Output struct {
	AssessmentID      string                   `json:"assessmentId,omitempty"`
	ReadinessScore    int                      `json:"readinessScore"`
	CategoryScores    map[string]int           `json:"categoryScores"`
	MaturityLevel     string                   `json:"maturityLevel"`
	AnsweredCount     int                      `json:"answeredCount"`
	TotalQuestions    int                      `json:"totalQuestions"`
	WeakestCategories []string                 `json:"weakestCategories"`
	IgnoredAnswers    []scoring.RejectedAnswer `json:"ignoredAnswers"`
}
