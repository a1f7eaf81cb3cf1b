// internal/scoring/maturity.go
package scoring

import "sort"

type MaturityLevel string

const (
	MaturityBeginner MaturityLevel = "beginner"
	MaturityEmerging MaturityLevel = "emerging"
	MaturityAdvanced MaturityLevel = "advanced"
	MaturityLeader   MaturityLevel = "leader"
)

func ClassifyMaturity(score int) MaturityLevel {
	switch {
	case score >= 81:
		return MaturityLeader
	case score >= 61:
		return MaturityAdvanced
	case score >= 41:
		return MaturityEmerging
	default:
		return MaturityBeginner
	}
}

type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

// WeakestCategories returns up to n categories ordered from lowest to highest
// score. Ties keep display order.
func WeakestCategories(result ScoreResult, n int) []CategoryScore {
	out := make([]CategoryScore, 0, len(result.CategoryScores))
	for cat, s := range result.CategoryScores {
		out = append(out, CategoryScore{Category: cat, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].Category.rank() < out[j].Category.rank()
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
