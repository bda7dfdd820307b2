package scoring

import (
	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

// UserAnswer is one answered condition.
type UserAnswer struct {
	ConditionID    int64 `json:"condition_id"`
	AnswerOptionID int64 `json:"answer_option_id"`
}

// ConditionDetail itemises the deduction taken for one answered condition.
type ConditionDetail struct {
	ConditionID    int64   `json:"conditionId"`
	AnswerOptionID int64   `json:"answerOptionId"`
	ConditionName  string  `json:"conditionName"`
	ImpactWeight   float64 `json:"impactWeight"`
	MaxPoints      float64 `json:"maxPoints"`
	Severity       float64 `json:"severity"`
	Deduction      float64 `json:"deduction"`
}

type CategoryResult struct {
	Category store.Category    `json:"category"`
	Score    float64           `json:"score"`
	Details  []ConditionDetail `json:"details"`
}

// CategoryInput bundles what ScoreCategory needs for one category. Conditions
// outside Category are ignored, so a full catalog may be passed.
type CategoryInput struct {
	Category   store.Category
	Conditions []store.Condition
	Options    []store.AnswerOption
	Answers    []UserAnswer
	// Strict turns unresolvable option references into a DanglingReferenceError
	// instead of skipping them.
	Strict bool
}

type weightedCondition struct {
	store.Condition
	maxPoints float64
}

// ScoreCategory computes the deductive 0-100 score of one category. Each
// condition's share of the 100 points is proportional to its impact weight;
// an answer deducts that share scaled by the chosen option's severity.
//
// Answers for conditions outside the category are skipped. Answers whose
// option is unknown are skipped unless Strict is set.
func ScoreCategory(in CategoryInput) (CategoryResult, error) {
	result := CategoryResult{Category: in.Category, Score: 100, Details: []ConditionDetail{}}

	var totalWeight float64
	conditions := make(map[int64]*weightedCondition)
	for _, c := range in.Conditions {
		if c.Category != in.Category {
			continue
		}
		totalWeight += c.ImpactWeight
		conditions[c.ID] = &weightedCondition{Condition: c}
	}
	if len(conditions) == 0 || totalWeight == 0 {
		return result, nil
	}
	for _, c := range conditions {
		c.maxPoints = c.ImpactWeight / totalWeight * 100
	}

	options := make(map[int64]store.AnswerOption, len(in.Options))
	for _, o := range in.Options {
		options[o.ID] = o
	}

	var totalDeduction float64
	for _, a := range in.Answers {
		cond, ok := conditions[a.ConditionID]
		if !ok {
			continue
		}
		opt, ok := options[a.AnswerOptionID]
		if !ok {
			if in.Strict {
				return CategoryResult{}, &DanglingReferenceError{
					ConditionID:    a.ConditionID,
					AnswerOptionID: a.AnswerOptionID,
					Reason:         "answer option not found",
				}
			}
			continue
		}
		if in.Strict && cond.AnswerGroupID != 0 && opt.GroupID != cond.AnswerGroupID {
			return CategoryResult{}, &DanglingReferenceError{
				ConditionID:    a.ConditionID,
				AnswerOptionID: a.AnswerOptionID,
				Reason:         "answer option belongs to another answer group",
			}
		}

		severity := opt.DefaultRatio
		deduction := cond.maxPoints * severity
		totalDeduction += deduction
		result.Details = append(result.Details, ConditionDetail{
			ConditionID:    cond.ID,
			AnswerOptionID: opt.ID,
			ConditionName:  cond.Name,
			ImpactWeight:   cond.ImpactWeight,
			MaxPoints:      cond.maxPoints,
			Severity:       severity,
			Deduction:      deduction,
		})
	}

	result.Score = clamp(100-totalDeduction, 0, 100)
	return result, nil
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
