// internal/assessment/model.go
package assessment

import (
	"errors"
	"strings"
	"time"

	"readiness-workers/internal/scoring"
)

var (
	ErrDraftNotFound       = errors.New("DRAFT_NOT_FOUND")
	ErrAssessmentNotFound  = errors.New("ASSESSMENT_NOT_FOUND")
	ErrDuplicateAssessment = errors.New("DUPLICATE_ASSESSMENT")
	ErrInsertFailed        = errors.New("DATABASE_INSERT_FAILED")
	ErrQueryFailed         = errors.New("QUERY_EXECUTION_FAILED")
	ErrInvalidAnswer       = errors.New("ANSWERS_INVALID")
	ErrIncomplete          = errors.New("ASSESSMENT_INCOMPLETE")
)

// Company is the respondent business. Country is an ISO 3166-1 alpha-2 code.
type Company struct {
	Name    string `json:"name"`
	Sector  string `json:"sector,omitempty"`
	Country string `json:"country"`
	Size    string `json:"size,omitempty"`
}

// Normalized trims every field and upper-cases the country code.
func (c Company) Normalized() Company {
	return Company{
		Name:    strings.TrimSpace(c.Name),
		Sector:  strings.TrimSpace(c.Sector),
		Country: strings.ToUpper(strings.TrimSpace(c.Country)),
		Size:    strings.TrimSpace(c.Size),
	}
}

// Complete reports whether the fields required for submission are set.
func (c Company) Complete() bool {
	n := c.Normalized()
	return n.Name != "" && n.Country != ""
}

// Assessment is a submitted questionnaire together with its computed scores.
type Assessment struct {
	ID        string                `json:"id"`
	DraftID   string                `json:"draftId,omitempty"`
	Company   Company               `json:"company"`
	Answers   scoring.AnswerSet     `json:"answers"`
	Result    scoring.ScoreResult   `json:"result"`
	Maturity  scoring.MaturityLevel `json:"maturityLevel"`
	CreatedAt time.Time             `json:"createdAt"`
}

// New scores answers against catalog and returns an unsaved Assessment.
func New(draftID string, company Company, answers scoring.AnswerSet, catalog *scoring.Catalog) *Assessment {
	result := scoring.Score(answers, catalog)
	return &Assessment{
		DraftID:  draftID,
		Company:  company.Normalized(),
		Answers:  answers.Clone(),
		Result:   result,
		Maturity: scoring.ClassifyMaturity(result.OverallScore),
	}
}
