// internal/assessment/indexer.go
package assessment

import (
	"context"
	"time"

	"readiness-workers/internal/common/database"
	"readiness-workers/internal/scoring"
)

// Document is the flat shape the dashboard charts aggregate on.
type Document struct {
	AssessmentID   string         `json:"assessmentId"`
	Company        string         `json:"company"`
	Country        string         `json:"country"`
	Sector         string         `json:"sector,omitempty"`
	Size           string         `json:"size,omitempty"`
	OverallScore   int            `json:"overallScore"`
	CategoryScores map[string]int `json:"categoryScores"`
	MaturityLevel  string         `json:"maturityLevel"`
	AnsweredCount  int            `json:"answeredCount"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func NewDocument(a *Assessment) Document {
	scores := make(map[string]int, len(a.Result.CategoryScores))
	for cat, s := range a.Result.CategoryScores {
		scores[string(cat)] = s
	}
	return Document{
		AssessmentID:   a.ID,
		Company:        a.Company.Name,
		Country:        a.Company.Country,
		Sector:         a.Company.Sector,
		Size:           a.Company.Size,
		OverallScore:   a.Result.OverallScore,
		CategoryScores: scores,
		MaturityLevel:  string(a.Maturity),
		AnsweredCount:  len(a.Answers),
		CreatedAt:      a.CreatedAt,
	}
}

func indexMapping() map[string]interface{} {
	categoryProps := make(map[string]interface{})
	for _, cat := range scoring.Categories() {
		categoryProps[string(cat)] = map[string]string{"type": "integer"}
	}
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"assessmentId":   map[string]string{"type": "keyword"},
				"company":        map[string]string{"type": "text"},
				"country":        map[string]string{"type": "keyword"},
				"sector":         map[string]string{"type": "keyword"},
				"size":           map[string]string{"type": "keyword"},
				"overallScore":   map[string]string{"type": "integer"},
				"categoryScores": map[string]interface{}{"properties": categoryProps},
				"maturityLevel":  map[string]string{"type": "keyword"},
				"answeredCount":  map[string]string{"type": "integer"},
				"createdAt":      map[string]string{"type": "date"},
			},
		},
	}
}

// Indexer mirrors assessments into Elasticsearch.
type Indexer struct {
	es    *database.ElasticsearchClient
	index string
}

func NewIndexer(es *database.ElasticsearchClient, index string) *Indexer {
	if index == "" {
		index = "assessments"
	}
	return &Indexer{es: es, index: index}
}

func (i *Indexer) IndexName() string {
	return i.index
}

func (i *Indexer) EnsureIndex(ctx context.Context) error {
	return i.es.EnsureIndex(ctx, i.index, indexMapping())
}

func (i *Indexer) Index(ctx context.Context, a *Assessment) error {
	return i.es.IndexDocument(ctx, i.index, a.ID, NewDocument(a))
}
