// internal/scoring/engine_test.go
package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func fullScale() []Option {
	return levelOptions("1", "2", "3", "4", "5")
}

func twoQuestionCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog([]Question{
		{ID: "Q1", Category: CategoryInfrastructure, Options: fullScale(), Weight: 3},
		{ID: "Q2", Category: CategoryData, Options: fullScale(), Weight: 2},
	})
	require.NoError(t, err)
	return c
}

func uniformAnswers(c *Catalog, value int) AnswerSet {
	answers := make(AnswerSet)
	for _, q := range c.Questions() {
		answers[q.ID] = value
	}
	return answers
}

// ==========================
// Core Functionality Tests
// ==========================

func TestComputeOverallScore_Scenarios(t *testing.T) {
	c := twoQuestionCatalog(t)

	tests := []struct {
		name     string
		answers  AnswerSet
		expected int
	}{
		{"both answered", AnswerSet{"Q1": 4, "Q2": 2}, 64},
		{"partial answers exclude Q2", AnswerSet{"Q1": 4}, 80},
		{"only Q2", AnswerSet{"Q2": 2}, 40},
		{"all max", AnswerSet{"Q1": 5, "Q2": 5}, 100},
		{"all min", AnswerSet{"Q1": 1, "Q2": 1}, 20},
		{"empty", AnswerSet{}, 0},
		{"nil answers", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeOverallScore(tt.answers, c))
		})
	}
}

func TestComputeCategoryScores_Scenarios(t *testing.T) {
	c := twoQuestionCatalog(t)

	t.Run("both answered", func(t *testing.T) {
		scores := ComputeCategoryScores(AnswerSet{"Q1": 4, "Q2": 2}, c)
		assert.Equal(t, map[Category]int{
			CategoryInfrastructure: 80,
			CategoryData:           40,
		}, scores)
	})

	t.Run("partial answers", func(t *testing.T) {
		scores := ComputeCategoryScores(AnswerSet{"Q1": 4}, c)
		assert.Equal(t, 80, scores[CategoryInfrastructure])
		v, ok := scores[CategoryData]
		assert.True(t, ok, "unanswered category must still be present")
		assert.Equal(t, 0, v)
	})

	t.Run("only catalog categories are reported", func(t *testing.T) {
		scores := ComputeCategoryScores(AnswerSet{}, c)
		assert.Len(t, scores, 2)
		assert.NotContains(t, scores, CategorySkills)
	})
}

func TestDefaultCatalog_UniformAnswers(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name     string
		value    int
		expected int
	}{
		{"all five", 5, 100},
		{"all one", 1, 20},
		{"all three", 3, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := uniformAnswers(c, tt.value)
			assert.Equal(t, tt.expected, ComputeOverallScore(answers, c))
			for cat, s := range ComputeCategoryScores(answers, c) {
				assert.Equal(t, tt.expected, s, "category %s", cat)
			}
		})
	}
}

func TestEmptyAnswers_ZeroEverywhere(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 0, ComputeOverallScore(AnswerSet{}, c))

	scores := ComputeCategoryScores(AnswerSet{}, c)
	assert.Len(t, scores, len(Categories()))
	for _, cat := range Categories() {
		v, ok := scores[cat]
		assert.True(t, ok)
		assert.Equal(t, 0, v)
	}
}

func TestScore_MatchesSeparateComputations(t *testing.T) {
	c := DefaultCatalog()
	answers := AnswerSet{
		"infra_connectivity": 4,
		"infra_cloud":        2,
		"data_quality":       5,
		"skills_ai":          1,
		"process_payments":   3,
		"strategy_vision":    4,
		"strategy_budget":    2,
	}

	result := Score(answers, c)

	assert.Equal(t, ComputeOverallScore(answers, c), result.OverallScore)
	assert.Equal(t, ComputeCategoryScores(answers, c), result.CategoryScores)
}

func TestComputeOverallScore_RoundsHalfAwayFromZero(t *testing.T) {
	c, err := NewCatalog([]Question{
		{ID: "heavy", Category: CategoryStrategy, Options: fullScale(), Weight: 7},
		{ID: "light", Category: CategoryStrategy, Options: fullScale(), Weight: 1},
	})
	require.NoError(t, err)

	// (1*7 + 2*1) / (8*5) * 100 = 22.5
	assert.Equal(t, 23, ComputeOverallScore(AnswerSet{"heavy": 1, "light": 2}, c))
}

func TestScores_ExactHalfTiesRoundUp(t *testing.T) {
	tests := []struct {
		name     string
		weights  [2]float64
		answers  AnswerSet
		expected int
	}{
		// (1*3 + 4*5) / (8*5) * 100 = 57.5
		{"23 of 40", [2]float64{3, 5}, AnswerSet{"Q1": 1, "Q2": 4}, 58},
		// (1*23 + 2*17) / (40*5) * 100 = 28.5
		{"57 of 200", [2]float64{23, 17}, AnswerSet{"Q1": 1, "Q2": 2}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog([]Question{
				{ID: "Q1", Category: CategoryInfrastructure, Options: fullScale(), Weight: tt.weights[0]},
				{ID: "Q2", Category: CategoryInfrastructure, Options: fullScale(), Weight: tt.weights[1]},
			})
			require.NoError(t, err)

			assert.Equal(t, tt.expected, ComputeOverallScore(tt.answers, c))
			assert.Equal(t, tt.expected, ComputeCategoryScores(tt.answers, c)[CategoryInfrastructure])
		})
	}
}

// ==========================
// Property Tests
// ==========================

func TestComputeOverallScore_Monotonic(t *testing.T) {
	c := DefaultCatalog()

	for _, q := range c.Questions() {
		base := uniformAnswers(c, 3)
		delete(base, "skills_ai") // keep one question unanswered
		prev := -1
		for v := MinOptionValue; v <= MaxOptionValue; v++ {
			answers := base.Clone()
			answers[q.ID] = v
			got := ComputeOverallScore(answers, c)
			assert.GreaterOrEqual(t, got, prev, "raising %s to %d lowered the score", q.ID, v)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
			prev = got
		}
	}
}

func TestComputeScores_OmissionInvariance(t *testing.T) {
	small := twoQuestionCatalog(t)
	extended, err := NewCatalog(append(small.Questions(),
		Question{ID: "Q3", Category: CategoryData, Options: fullScale(), Weight: 4},
		Question{ID: "Q4", Category: CategorySkills, Options: fullScale(), Weight: 1},
	))
	require.NoError(t, err)

	answers := AnswerSet{"Q1": 4, "Q2": 2}

	assert.Equal(t, ComputeOverallScore(answers, small), ComputeOverallScore(answers, extended))

	before := ComputeCategoryScores(answers, small)
	after := ComputeCategoryScores(answers, extended)
	for cat, s := range before {
		assert.Equal(t, s, after[cat], "category %s changed", cat)
	}
	assert.Equal(t, 0, after[CategorySkills])
}

func TestComputeCategoryScores_Independence(t *testing.T) {
	c := DefaultCatalog()
	answers := uniformAnswers(c, 2)
	before := ComputeCategoryScores(answers, c)

	for _, q := range c.QuestionsIn(CategoryInfrastructure) {
		answers[q.ID] = 5
	}
	after := ComputeCategoryScores(answers, c)

	assert.Equal(t, 100, after[CategoryInfrastructure])
	for _, cat := range Categories() {
		if cat == CategoryInfrastructure {
			continue
		}
		assert.Equal(t, before[cat], after[cat], "category %s changed", cat)
	}
}

// ==========================
// Edge Cases
// ==========================

func TestEngine_EdgeCases(t *testing.T) {
	t.Run("nil catalog", func(t *testing.T) {
		assert.Equal(t, 0, ComputeOverallScore(AnswerSet{"Q1": 3}, nil))
		assert.Empty(t, ComputeCategoryScores(AnswerSet{"Q1": 3}, nil))
		result := Score(AnswerSet{"Q1": 3}, nil)
		assert.Equal(t, 0, result.OverallScore)
		assert.NotNil(t, result.CategoryScores)
	})

	t.Run("empty catalog", func(t *testing.T) {
		c, err := NewCatalog(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, ComputeOverallScore(AnswerSet{"Q1": 3}, c))
		assert.Empty(t, ComputeCategoryScores(AnswerSet{"Q1": 3}, c))
	})

	t.Run("out of range values in a hand-built set are ignored", func(t *testing.T) {
		c := twoQuestionCatalog(t)
		answers := AnswerSet{"Q1": 9, "Q2": 2}
		assert.Equal(t, 40, ComputeOverallScore(answers, c))
		assert.Equal(t, 0, ComputeCategoryScores(answers, c)[CategoryInfrastructure])
		assert.Equal(t, 1, AnsweredCount(answers, c))
	})

	t.Run("unknown question ids are ignored", func(t *testing.T) {
		c := twoQuestionCatalog(t)
		assert.Equal(t, 64, ComputeOverallScore(AnswerSet{"Q1": 4, "Q2": 2, "Q9": 1}, c))
	})
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkScore(b *testing.B) {
	c := DefaultCatalog()
	answers := uniformAnswers(c, 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Score(answers, c)
	}
}
