// internal/scoring/loader.go
package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const catalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["questions"],
  "properties": {
    "version": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "category", "weight", "options"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "category": {"type": "string", "minLength": 1},
          "text": {"type": "string"},
          "weight": {"type": "number", "exclusiveMinimum": 0},
          "options": {
            "type": "array",
            "minItems": 1,
            "maxItems": 5,
            "items": {
              "type": "object",
              "required": ["value", "label"],
              "properties": {
                "value": {"type": "integer", "minimum": 1, "maximum": 5},
                "label": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

type catalogDocument struct {
	Version   string             `json:"version"`
	Questions []questionDocument `json:"questions"`
}

type questionDocument struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Weight   float64  `json:"weight"`
	Options  []Option `json:"options"`
}

// LoadCatalog reads a JSON catalog from disk. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog validates a JSON catalog document against the catalog schema
// and builds the Catalog from it.
func ParseCatalog(data []byte) (*Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}

	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	questions := make([]Question, 0, len(doc.Questions))
	for _, qd := range doc.Questions {
		cat, err := ParseCategory(qd.Category)
		if err != nil {
			return nil, fmt.Errorf("question %q: %w", qd.ID, err)
		}
		questions = append(questions, Question{
			ID:       QuestionID(strings.TrimSpace(qd.ID)),
			Category: cat,
			Text:     qd.Text,
			Options:  qd.Options,
			Weight:   qd.Weight,
		})
	}
	return NewCatalog(questions)
}
