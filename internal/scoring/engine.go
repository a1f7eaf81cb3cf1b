// internal/scoring/engine.go
package scoring

import "math"

// ScoreResult is the derived outcome of one questionnaire submission.
type ScoreResult struct {
	OverallScore   int              `json:"overallScore"`
	CategoryScores map[Category]int `json:"categoryScores"`
}

// ComputeOverallScore is the weighted average of the answered questions,
// normalised from [1,5] onto [0,100]. Unanswered questions are excluded from
// both the numerator and the denominator.
func ComputeOverallScore(answers AnswerSet, catalog *Catalog) int {
	if catalog == nil {
		return 0
	}
	var acc accumulator
	for _, q := range catalog.questions {
		acc.add(answers, q)
	}
	return acc.score()
}

// ComputeCategoryScores applies the same computation per category. Every
// category present in the catalog gets an entry, zero when nothing in it was
// answered.
func ComputeCategoryScores(answers AnswerSet, catalog *Catalog) map[Category]int {
	out := make(map[Category]int)
	if catalog == nil {
		return out
	}
	for _, cat := range catalog.categories {
		var acc accumulator
		for _, q := range catalog.questions {
			if q.Category == cat {
				acc.add(answers, q)
			}
		}
		out[cat] = acc.score()
	}
	return out
}

// Score computes the overall and per-category scores in a single pass.
func Score(answers AnswerSet, catalog *Catalog) ScoreResult {
	result := ScoreResult{CategoryScores: make(map[Category]int)}
	if catalog == nil {
		return result
	}

	var overall accumulator
	perCategory := make(map[Category]*accumulator, len(catalog.categories))
	for _, cat := range catalog.categories {
		perCategory[cat] = &accumulator{}
	}

	for _, q := range catalog.questions {
		overall.add(answers, q)
		perCategory[q.Category].add(answers, q)
	}

	result.OverallScore = overall.score()
	for cat, acc := range perCategory {
		result.CategoryScores[cat] = acc.score()
	}
	return result
}

// AnsweredCount counts answers that the engine would actually use.
func AnsweredCount(answers AnswerSet, catalog *Catalog) int {
	if catalog == nil {
		return 0
	}
	n := 0
	for _, q := range catalog.questions {
		if v, ok := answers[q.ID]; ok && validValue(v) {
			n++
		}
	}
	return n
}

type accumulator struct {
	weightedSum float64
	weightSum   float64
}

// add ignores values outside [1,5] so a hand-built AnswerSet can never push
// the result out of range.
func (a *accumulator) add(answers AnswerSet, q Question) {
	v, ok := answers[q.ID]
	if !ok || !validValue(v) {
		return
	}
	a.weightedSum += float64(v) * q.Weight
	a.weightSum += q.Weight
}

func (a *accumulator) score() int {
	if a.weightSum == 0 {
		return 0
	}
	// scale before dividing so exact .5 ties survive the division
	return int(math.Round(a.weightedSum * (100 / MaxOptionValue) / a.weightSum))
}
