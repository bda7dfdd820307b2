package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

func TestDominantFactor(t *testing.T) {
	tests := []struct {
		name    string
		p, f, a float64
		want    Factor
	}{
		{"physical heavy", 0.6, 0.3, 0.1, FactorPhysical},
		{"functional heavy", 0.2, 0.7, 0.1, FactorFunctional},
		{"age heavy", 0.1, 0.2, 0.7, FactorAge},
		{"no weight above half", 0.5, 0.3, 0.2, FactorBalanced},
		{"equal thirds", 1.0 / 3, 1.0 / 3, 1.0 / 3, FactorBalanced},
		{"tie goes to physical", 0.55, 0.55, 0.0, FactorPhysical},
		{"tie goes to functional over age", 0.0, 0.55, 0.55, FactorFunctional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := store.DecisionPath{WeightPhysical: tt.p, WeightFunctional: tt.f, WeightAge: tt.a}
			assert.Equal(t, tt.want, DominantFactor(p))
		})
	}
}

func TestExplainBands(t *testing.T) {
	functionalPath := store.DecisionPath{ID: 4, WeightPhysical: 0.2, WeightFunctional: 0.7, WeightAge: 0.1}

	assert.Equal(t, RecommendationReason{DecisionPathID: 4, DominantFactor: FactorFunctional, Band: BandHigh},
		Explain(functionalPath, 10, 90, 20))
	assert.Equal(t, BandMedium, Explain(functionalPath, 100, 75, 100).Band)
	assert.Equal(t, BandMedium, Explain(functionalPath, 100, 40, 100).Band)
	assert.Equal(t, BandMedium, Explain(functionalPath, 100, 5, 100).Band, "functional wins are never low")

	physicalPath := store.DecisionPath{ID: 6, WeightPhysical: 0.7, WeightFunctional: 0.2, WeightAge: 0.1}
	assert.Equal(t, BandHigh, Explain(physicalPath, 75.01, 0, 0).Band)
	assert.Equal(t, BandMedium, Explain(physicalPath, 40, 0, 0).Band)
	assert.Equal(t, BandLow, Explain(physicalPath, 39.99, 100, 100).Band)

	agePath := store.DecisionPath{ID: 5, WeightPhysical: 0.1, WeightFunctional: 0.1, WeightAge: 0.8}
	assert.Equal(t, BandHigh, Explain(agePath, 0, 0, 100).Band)
	assert.Equal(t, BandLow, Explain(agePath, 100, 100, 50).Band, "age wins are high or low")
	assert.Equal(t, BandLow, Explain(agePath, 100, 100, 20).Band)
}

func TestExplainBalancedUsesMean(t *testing.T) {
	balanced := store.DecisionPath{ID: 1, WeightPhysical: 0.4, WeightFunctional: 0.3, WeightAge: 0.3}
	r := Explain(balanced, 90, 90, 50)
	assert.Equal(t, FactorBalanced, r.DominantFactor)
	// (90 + 90 + 50) / 3 = 76.67
	assert.Equal(t, BandHigh, r.Band)

	r = Explain(balanced, 30, 30, 20)
	assert.Equal(t, BandLow, r.Band)
}
