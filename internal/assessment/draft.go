// internal/assessment/draft.go
package assessment

import (
	"fmt"
	"time"

	"readiness-workers/internal/scoring"

	"github.com/google/uuid"
)

// Draft is the server-side state of the multi-step assessment wizard.
// Step 0 collects company details; steps 1..N walk the catalog categories in
// display order.
type Draft struct {
	ID        string            `json:"id"`
	Company   Company           `json:"company"`
	Answers   scoring.AnswerSet `json:"answers"`
	Step      int               `json:"step"`
	UpdatedAt time.Time         `json:"updatedAt"`

	catalog *scoring.Catalog
}

type CategoryProgress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type Progress struct {
	Answered   int                                  `json:"answered"`
	Total      int                                  `json:"total"`
	Percent    int                                  `json:"percent"`
	ByCategory map[scoring.Category]CategoryProgress `json:"byCategory"`
}

func NewDraft(catalog *scoring.Catalog) *Draft {
	return &Draft{
		ID:        uuid.New().String(),
		Answers:   make(scoring.AnswerSet),
		UpdatedAt: time.Now().UTC(),
		catalog:   catalog,
	}
}

// attach binds a decoded draft to the catalog and drops answers the catalog
// no longer accepts.
func (d *Draft) attach(catalog *scoring.Catalog) {
	d.catalog = catalog
	if d.Answers == nil {
		d.Answers = make(scoring.AnswerSet)
	}
	raw := make(map[string]interface{}, len(d.Answers))
	for id, v := range d.Answers {
		raw[string(id)] = v
	}
	d.Answers, _ = scoring.ParseAnswers(raw, catalog)
	d.clampStep()
}

// TotalSteps counts the company step plus one step per catalog category.
func (d *Draft) TotalSteps() int {
	return len(d.catalog.Categories()) + 1
}

// CurrentCategory returns the category shown at the current step. The
// company step has none.
func (d *Draft) CurrentCategory() (scoring.Category, bool) {
	if d.Step == 0 {
		return "", false
	}
	cats := d.catalog.Categories()
	if d.Step > len(cats) {
		return "", false
	}
	return cats[d.Step-1], true
}

// Answer records a value for a question after validating it against the
// catalog.
func (d *Draft) Answer(id scoring.QuestionID, value interface{}) error {
	parsed, rejected := scoring.ParseAnswers(map[string]interface{}{string(id): value}, d.catalog)
	if len(rejected) > 0 {
		return fmt.Errorf("%w: question %s: %s", ErrInvalidAnswer, id, rejected[0].Reason)
	}
	d.Answers[id] = parsed[id]
	d.touch()
	return nil
}

// Clear removes an answer. Clearing an unanswered question is a no-op.
func (d *Draft) Clear(id scoring.QuestionID) {
	if _, ok := d.Answers[id]; ok {
		delete(d.Answers, id)
		d.touch()
	}
}

func (d *Draft) Next() int {
	d.Step++
	d.clampStep()
	d.touch()
	return d.Step
}

func (d *Draft) Prev() int {
	d.Step--
	d.clampStep()
	d.touch()
	return d.Step
}

// GoTo moves to an arbitrary step, clamped to the valid range.
func (d *Draft) GoTo(step int) int {
	d.Step = step
	d.clampStep()
	d.touch()
	return d.Step
}

func (d *Draft) Progress() Progress {
	p := Progress{ByCategory: make(map[scoring.Category]CategoryProgress)}
	for _, cat := range d.catalog.Categories() {
		cp := CategoryProgress{}
		for _, q := range d.catalog.QuestionsIn(cat) {
			cp.Total++
			if _, ok := d.Answers[q.ID]; ok {
				cp.Answered++
			}
		}
		p.ByCategory[cat] = cp
		p.Answered += cp.Answered
		p.Total += cp.Total
	}
	if p.Total > 0 {
		p.Percent = p.Answered * 100 / p.Total
	}
	return p
}

// CanSubmit requires the company name and country and at least one answer.
func (d *Draft) CanSubmit() bool {
	return d.Company.Complete() && len(d.Answers) > 0
}

// Submit scores the draft into an unsaved Assessment.
func (d *Draft) Submit() (*Assessment, error) {
	if !d.CanSubmit() {
		return nil, fmt.Errorf("%w: draft %s needs company name, country and one answer", ErrIncomplete, d.ID)
	}
	return New(d.ID, d.Company, d.Answers, d.catalog), nil
}

func (d *Draft) clampStep() {
	if d.Step < 0 {
		d.Step = 0
	}
	if last := d.TotalSteps() - 1; d.Step > last {
		d.Step = last
	}
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}
