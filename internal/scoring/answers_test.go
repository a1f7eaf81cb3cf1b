// internal/scoring/answers_test.go
package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswers(t *testing.T) {
	c, err := NewCatalog([]Question{
		{ID: "Q1", Category: CategoryInfrastructure, Options: fullScale(), Weight: 3},
		{ID: "Q2", Category: CategoryData, Options: fullScale(), Weight: 2},
		{ID: "odd", Category: CategorySkills, Options: []Option{{Value: 1, Label: "a"}, {Value: 3, Label: "b"}, {Value: 5, Label: "c"}}, Weight: 1},
	})
	require.NoError(t, err)

	tests := []struct {
		name             string
		raw              map[string]interface{}
		expected         AnswerSet
		expectedRejected []string
	}{
		{
			name:     "json numbers",
			raw:      map[string]interface{}{"Q1": 4.0, "Q2": 2.0},
			expected: AnswerSet{"Q1": 4, "Q2": 2},
		},
		{
			name:     "ints and strings",
			raw:      map[string]interface{}{"Q1": 4, "Q2": " 2 "},
			expected: AnswerSet{"Q1": 4, "Q2": 2},
		},
		{
			name:     "json.Number",
			raw:      map[string]interface{}{"Q1": json.Number("5")},
			expected: AnswerSet{"Q1": 5},
		},
		{
			name:             "unknown id ignored",
			raw:              map[string]interface{}{"Q1": 3.0, "Q9": 3.0},
			expected:         AnswerSet{"Q1": 3},
			expectedRejected: []string{RejectUnknownQuestion},
		},
		{
			name:             "out of range ignored, not clamped",
			raw:              map[string]interface{}{"Q1": 7.0, "Q2": 0.0},
			expected:         AnswerSet{},
			expectedRejected: []string{RejectOutOfRange, RejectOutOfRange},
		},
		{
			name:             "fractional ignored",
			raw:              map[string]interface{}{"Q1": 2.5},
			expected:         AnswerSet{},
			expectedRejected: []string{RejectNotInteger},
		},
		{
			name:             "wrong types ignored",
			raw:              map[string]interface{}{"Q1": true, "Q2": "four"},
			expected:         AnswerSet{},
			expectedRejected: []string{RejectNotInteger, RejectNotInteger},
		},
		{
			name:             "undeclared option ignored",
			raw:              map[string]interface{}{"odd": 2.0},
			expected:         AnswerSet{},
			expectedRejected: []string{RejectUndeclared},
		},
		{
			name:     "nil map",
			raw:      nil,
			expected: AnswerSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers, rejected := ParseAnswers(tt.raw, c)
			assert.Equal(t, tt.expected, answers)

			reasons := make([]string, 0, len(rejected))
			for _, r := range rejected {
				reasons = append(reasons, r.Reason)
			}
			if len(tt.expectedRejected) == 0 {
				assert.Empty(t, reasons)
			} else {
				assert.ElementsMatch(t, tt.expectedRejected, reasons)
			}
		})
	}
}

func TestParseAnswers_RejectedSortedByKey(t *testing.T) {
	_, rejected := ParseAnswers(map[string]interface{}{"zz": 1.0, "aa": 1.0, "mm": 1.0}, DefaultCatalog())
	require.Len(t, rejected, 3)
	assert.Equal(t, "aa", rejected[0].QuestionID)
	assert.Equal(t, "mm", rejected[1].QuestionID)
	assert.Equal(t, "zz", rejected[2].QuestionID)
}

func TestParseAnswers_PaddedKeyCollisions(t *testing.T) {
	catalog := DefaultCatalog()

	for i := 0; i < 20; i++ {
		answers, rejected := ParseAnswers(map[string]interface{}{
			"infra_connectivity":   4,
			" infra_connectivity":  1,
			"infra_connectivity  ": 2,
		}, catalog)

		assert.Equal(t, AnswerSet{"infra_connectivity": 4}, answers, "exact key wins")
		require.Len(t, rejected, 2)
		for _, r := range rejected {
			assert.Equal(t, RejectDuplicate, r.Reason)
		}
	}

	answers, rejected := ParseAnswers(map[string]interface{}{
		" data_quality":  3,
		"data_quality\t": 5,
	}, catalog)
	assert.Equal(t, AnswerSet{"data_quality": 3}, answers, "padded keys resolve in key order")
	require.Len(t, rejected, 1)
	assert.Equal(t, "data_quality\t", rejected[0].QuestionID)
}

func TestAnswerSet_CloneAndToMap(t *testing.T) {
	a := AnswerSet{"Q1": 4}
	b := a.Clone()
	b["Q1"] = 1

	assert.Equal(t, 4, a["Q1"])
	assert.Equal(t, map[string]int{"Q1": 4}, a.ToMap())
}

func TestClassifyMaturity(t *testing.T) {
	tests := []struct {
		score    int
		expected MaturityLevel
	}{
		{100, MaturityLeader},
		{81, MaturityLeader},
		{80, MaturityAdvanced},
		{61, MaturityAdvanced},
		{60, MaturityEmerging},
		{41, MaturityEmerging},
		{40, MaturityBeginner},
		{0, MaturityBeginner},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ClassifyMaturity(tt.score), "score %d", tt.score)
	}
}

func TestWeakestCategories(t *testing.T) {
	result := ScoreResult{CategoryScores: map[Category]int{
		CategoryInfrastructure: 70,
		CategoryData:           40,
		CategorySkills:         40,
		CategoryProcess:        90,
		CategoryStrategy:       20,
	}}

	got := WeakestCategories(result, 3)
	assert.Equal(t, []CategoryScore{
		{Category: CategoryStrategy, Score: 20},
		{Category: CategoryData, Score: 40},
		{Category: CategorySkills, Score: 40},
	}, got)

	assert.Len(t, WeakestCategories(result, 10), 5)
	assert.Len(t, WeakestCategories(result, -1), 5)
	assert.Empty(t, WeakestCategories(ScoreResult{}, 2))
}
