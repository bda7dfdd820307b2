package scoring

import (
	"math"
	"sort"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

// PathResult is one decision path's standing for an assessment.
type PathResult struct {
	DecisionPathID  int64   `json:"decisionPathId"`
	PathName        string  `json:"pathName"`
	ScorePhysical   float64 `json:"scorePhysical"`
	ScoreFunctional float64 `json:"scoreFunctional"`
	ScoreAge        float64 `json:"scoreAge"`
	TotalScore      float64 `json:"totalScore"`
	Rank            int     `json:"rank"`
	IsRecommended   bool    `json:"isRecommended"`
}

// RoundScore rounds to two decimals, halves away from zero.
func RoundScore(v float64) float64 {
	return math.Round(v*100) / 100
}

// RankPaths scores every decision path as the weighted sum of the three
// criterion scores and orders them best first. Equal totals are ordered by
// decision path ID ascending, so ranks never depend on input order. Ranks run
// 1..N and only rank 1 is recommended.
func RankPaths(physical, functional float64, age int, paths []store.DecisionPath) ([]PathResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoDecisionPaths
	}

	ageF := float64(age)
	results := make([]PathResult, 0, len(paths))
	for _, p := range paths {
		total := physical*p.WeightPhysical + functional*p.WeightFunctional + ageF*p.WeightAge
		results = append(results, PathResult{
			DecisionPathID:  p.ID,
			PathName:        p.Name,
			ScorePhysical:   physical,
			ScoreFunctional: functional,
			ScoreAge:        ageF,
			TotalScore:      RoundScore(total),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].DecisionPathID < results[j].DecisionPathID
	})
	for i := range results {
		results[i].Rank = i + 1
		results[i].IsRecommended = i == 0
	}
	return results, nil
}
