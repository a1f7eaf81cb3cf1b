// internal/scoring/category.go
package scoring

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category is one of the five fixed questionnaire sections.
type Category string

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategoryData           Category = "Données"
	CategorySkills         Category = "Compétences"
	CategoryProcess        Category = "Processus"
	CategoryStrategy       Category = "Stratégie"
)

var allCategories = []Category{
	CategoryInfrastructure,
	CategoryData,
	CategorySkills,
	CategoryProcess,
	CategoryStrategy,
}

var categoryAliases = map[string]Category{
	"infrastructure": CategoryInfrastructure,
	"data":           CategoryData,
	"skills":         CategorySkills,
	"process":        CategoryProcess,
	"strategy":       CategoryStrategy,
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory resolves a category name regardless of Unicode normalization
// form or letter case. English aliases are accepted as well.
func ParseCategory(raw string) (Category, error) {
	name := norm.NFC.String(strings.TrimSpace(raw))
	if name == "" {
		return "", fmt.Errorf("%w: empty category", ErrInvalidCatalog)
	}
	for _, c := range allCategories {
		if strings.EqualFold(name, string(c)) {
			return c, nil
		}
	}
	if c, ok := categoryAliases[strings.ToLower(name)]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidCatalog, raw)
}

func (c Category) valid() bool {
	return c.rank() >= 0
}

func (c Category) rank() int {
	for i, known := range allCategories {
		if c == known {
			return i
		}
	}
	return -1
}
