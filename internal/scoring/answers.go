// internal/scoring/answers.go
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AnswerSet maps question ids to the chosen option value.
type AnswerSet map[QuestionID]int

const (
	RejectUnknownQuestion = "UNKNOWN_QUESTION"
	RejectNotInteger      = "NOT_AN_INTEGER"
	RejectOutOfRange      = "VALUE_OUT_OF_RANGE"
	RejectUndeclared      = "UNDECLARED_OPTION"
	RejectDuplicate       = "DUPLICATE_QUESTION"
)

// RejectedAnswer describes a raw answer entry that ParseAnswers dropped.
type RejectedAnswer struct {
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
	Reason     string      `json:"reason"`
}

// ParseAnswers turns loosely typed answers (decoded JSON, form values) into an
// AnswerSet. Entries for unknown questions, non-integral values, values
// outside [1,5] and values that are not one of the question's options are
// left out and reported, never clamped. Keys are trimmed; when two keys name
// the same question the exact one is kept and the other reported as a duplicate.
func ParseAnswers(raw map[string]interface{}, catalog *Catalog) (AnswerSet, []RejectedAnswer) {
	answers := make(AnswerSet, len(raw))
	var rejected []RejectedAnswer

	seen := make(map[QuestionID]bool, len(raw))
	for _, key := range answerKeys(raw) {
		value := raw[key]
		id := QuestionID(strings.TrimSpace(key))
		if seen[id] {
			rejected = append(rejected, RejectedAnswer{QuestionID: key, Value: value, Reason: RejectDuplicate})
			continue
		}
		seen[id] = true

		q, ok := catalog.Question(id)
		if !ok {
			rejected = append(rejected, RejectedAnswer{QuestionID: key, Value: value, Reason: RejectUnknownQuestion})
			continue
		}

		n, err := toInt(value)
		if err != nil {
			rejected = append(rejected, RejectedAnswer{QuestionID: key, Value: value, Reason: RejectNotInteger})
			continue
		}
		if n < MinOptionValue || n > MaxOptionValue {
			rejected = append(rejected, RejectedAnswer{QuestionID: key, Value: value, Reason: RejectOutOfRange})
			continue
		}
		if !q.hasOption(n) {
			rejected = append(rejected, RejectedAnswer{QuestionID: key, Value: value, Reason: RejectUndeclared})
			continue
		}
		answers[id] = n
	}

	sort.Slice(rejected, func(i, j int) bool { return rejected[i].QuestionID < rejected[j].QuestionID })
	return answers, rejected
}

// answerKeys orders keys so that an exact question id comes before padded
// variants of it, which then count as duplicates.
func answerKeys(raw map[string]interface{}) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ei, ej := keys[i] == strings.TrimSpace(keys[i]), keys[j] == strings.TrimSpace(keys[j])
		if ei != ej {
			return ei
		}
		return keys[i] < keys[j]
	})
	return keys
}

func toInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("not a number: %T", raw)
	}
}

// Clone returns an independent copy.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ToMap converts the set back into plain string keys for JSON payloads.
func (a AnswerSet) ToMap() map[string]int {
	out := make(map[string]int, len(a))
	for k, v := range a {
		out[string(k)] = v
	}
	return out
}

func validValue(v int) bool {
	return v >= MinOptionValue && v <= MaxOptionValue
}
