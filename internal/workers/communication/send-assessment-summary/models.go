// internal/workers/communication/send-assessment-summary/models.go
package sendassessmentsummary

const EventAssessmentCompleted = "assessment.completed"

type Input struct {
	AssessmentID      string         `json:"assessmentId"`
	RecipientEmail    string         `json:"recipientEmail"`
	CompanyName       string         `json:"companyName"`
	Country           string         `json:"country"`
	ReadinessScore    int            `json:"readinessScore"`
	MaturityLevel     string         `json:"maturityLevel"`
	CategoryScores    map[string]int `json:"categoryScores"`
	WeakestCategories []string       `json:"weakestCategories,omitempty"`
}

type Output struct {
	EmailSent      bool     `json:"emailSent"`
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	EventPublished bool     `json:"eventPublished"`
	EventMessageID string   `json:"eventMessageId,omitempty"`
	Skipped        []string `json:"skipped"`
}

// CompletedEvent is the SNS payload for downstream dashboard consumers.
type CompletedEvent struct {
	EventType      string         `json:"eventType"`
	AssessmentID   string         `json:"assessmentId"`
	Country        string         `json:"country"`
	ReadinessScore int            `json:"readinessScore"`
	MaturityLevel  string         `json:"maturityLevel"`
	CategoryScores map[string]int `json:"categoryScores"`
	OccurredAt     string         `json:"occurredAt"`
}
