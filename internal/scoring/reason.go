package scoring

import (
	"math"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type Factor string

const (
	FactorBalanced   Factor = "balanced"
	FactorPhysical   Factor = "physical"
	FactorFunctional Factor = "functional"
	FactorAge        Factor = "age"
)

type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

// RecommendationReason explains why the winning path won: which criterion its
// weights favour and how the device did on that criterion.
type RecommendationReason struct {
	DecisionPathID int64     `json:"decisionPathId"`
	DominantFactor Factor    `json:"dominantFactor"`
	Band           ScoreBand `json:"band"`
}

// DominantFactor reports the criterion a path weights most. Paths whose
// largest weight is at most 0.5, or whose weights are within 0.1 of each
// other, are balanced. Ties go to physical, then functional.
func DominantFactor(p store.DecisionPath) Factor {
	maxW := math.Max(p.WeightPhysical, math.Max(p.WeightFunctional, p.WeightAge))
	minW := math.Min(p.WeightPhysical, math.Min(p.WeightFunctional, p.WeightAge))
	if maxW <= 0.5 || maxW-minW < 0.1 {
		return FactorBalanced
	}
	switch {
	case p.WeightPhysical >= p.WeightFunctional && p.WeightPhysical >= p.WeightAge:
		return FactorPhysical
	case p.WeightFunctional >= p.WeightAge:
		return FactorFunctional
	default:
		return FactorAge
	}
}

// bandFor grades score on factor f. Physical and balanced reasons use three
// bands. A functional-led win is either high or medium, since the path still
// won on working hardware. An age-led win is either high (a recent model) or
// low (an old one).
func bandFor(f Factor, score float64) ScoreBand {
	switch f {
	case FactorFunctional:
		if score > 75 {
			return BandHigh
		}
		return BandMedium
	case FactorAge:
		if score > 75 {
			return BandHigh
		}
		return BandLow
	}
	switch {
	case score > 75:
		return BandHigh
	case score >= 40:
		return BandMedium
	default:
		return BandLow
	}
}

// Explain builds the reason for the recommended path. For balanced paths the
// band reflects the mean of the three criterion scores.
func Explain(winner store.DecisionPath, physical, functional float64, age int) RecommendationReason {
	f := DominantFactor(winner)
	var score float64
	switch f {
	case FactorPhysical:
		score = physical
	case FactorFunctional:
		score = functional
	case FactorAge:
		score = float64(age)
	default:
		score = (physical + functional + float64(age)) / 3
	}
	return RecommendationReason{DecisionPathID: winner.ID, DominantFactor: f, Band: bandFor(f, score)}
}
