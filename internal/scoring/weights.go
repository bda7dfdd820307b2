package scoring

import (
	"fmt"
	"math"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

// weightTolerance is how far a weight set may drift from summing to 1.0.
const weightTolerance = 0.001

// PriorityWeights is the relative importance of each criterion, either
// derived from a comparison matrix or set directly on a decision path.
type PriorityWeights struct {
	Physical   float64 `json:"physical"`
	Functional float64 `json:"functional"`
	Age        float64 `json:"age"`
}

// Sum returns the total of all weights.
func (w PriorityWeights) Sum() float64 {
	return w.Physical + w.Functional + w.Age
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w PriorityWeights) Validate() error {
	for _, v := range w.asList() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid weight: %f", v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	return nil
}

// Apply copies the weights onto a decision path.
func (w PriorityWeights) Apply(p *store.DecisionPath) {
	p.WeightPhysical = w.Physical
	p.WeightFunctional = w.Functional
	p.WeightAge = w.Age
}

// WeightsOf reads a decision path's weights.
func WeightsOf(p store.DecisionPath) PriorityWeights {
	return PriorityWeights{Physical: p.WeightPhysical, Functional: p.WeightFunctional, Age: p.WeightAge}
}

func (w PriorityWeights) asList() []float64 {
	return []float64{w.Physical, w.Functional, w.Age}
}
