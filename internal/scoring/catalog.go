// internal/scoring/catalog.go
package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	MinOptionValue = 1
	MaxOptionValue = 5
)

var ErrInvalidCatalog = errors.New("CATALOG_INVALID")

type QuestionID string

type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID       QuestionID `json:"id"`
	Category Category   `json:"category"`
	Text     string     `json:"text"`
	Options  []Option   `json:"options"`
	Weight   float64    `json:"weight"`
}

func (q Question) hasOption(value int) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Catalog is the immutable question set. It is built once at start-up and
// handed to everything that scores or validates answers.
type Catalog struct {
	questions  []Question
	index      map[QuestionID]int
	categories []Category
}

// NewCatalog validates the questions and freezes them into a Catalog. An
// empty question list is accepted and scores to zero everywhere.
func NewCatalog(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[QuestionID]int, len(questions)),
	}

	present := make(map[Category]bool)
	for i, q := range questions {
		if err := validateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if _, dup := c.index[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
		}

		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		sort.SliceStable(opts, func(a, b int) bool { return opts[a].Value < opts[b].Value })
		q.Options = opts

		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
		present[q.Category] = true
	}

	for _, cat := range allCategories {
		if present[cat] {
			c.categories = append(c.categories, cat)
		}
	}

	return c, nil
}

func validateQuestion(q Question) error {
	if strings.TrimSpace(string(q.ID)) == "" {
		return fmt.Errorf("%w: empty question id", ErrInvalidCatalog)
	}
	if !q.Category.valid() {
		return fmt.Errorf("%w: question %q has unknown category %q", ErrInvalidCatalog, q.ID, q.Category)
	}
	if q.Weight <= 0 {
		return fmt.Errorf("%w: question %q weight must be positive", ErrInvalidCatalog, q.ID)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: question %q has no options", ErrInvalidCatalog, q.ID)
	}

	seen := make(map[int]bool, len(q.Options))
	for _, o := range q.Options {
		if o.Value < MinOptionValue || o.Value > MaxOptionValue {
			return fmt.Errorf("%w: question %q option value %d outside [%d,%d]",
				ErrInvalidCatalog, q.ID, o.Value, MinOptionValue, MaxOptionValue)
		}
		if seen[o.Value] {
			return fmt.Errorf("%w: question %q repeats option value %d", ErrInvalidCatalog, q.ID, o.Value)
		}
		seen[o.Value] = true
	}
	return nil
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.questions)
}

// Questions returns a copy of the questions in catalog order.
func (c *Catalog) Questions() []Question {
	if c == nil {
		return nil
	}
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Question looks a question up by id.
func (c *Catalog) Question(id QuestionID) (Question, bool) {
	if c == nil {
		return Question{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Categories returns the categories that have at least one question, in
// display order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// QuestionsIn returns the questions of one category in catalog order.
func (c *Catalog) QuestionsIn(category Category) []Question {
	if c == nil {
		return nil
	}
	var out []Question
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}
