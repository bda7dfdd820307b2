package scoring

import (
	"math"
	"testing"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

func TestPriorityWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		w       PriorityWeights
		wantErr bool
	}{
		{"thirds", PriorityWeights{1.0 / 3, 1.0 / 3, 1.0 / 3}, false},
		{"within tolerance", PriorityWeights{0.4, 0.4, 0.2005}, false},
		{"sum too high", PriorityWeights{0.5, 0.5, 0.1}, true},
		{"sum too low", PriorityWeights{0.2, 0.2, 0.2}, true},
		{"negative", PriorityWeights{1.2, -0.1, -0.1}, true},
		{"nan", PriorityWeights{math.NaN(), 0.5, 0.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSolvedWeightsValidate(t *testing.T) {
	res, err := SolveAHP(ReciprocalMatrix(3, 5, 3))
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Weights.Validate(); err != nil {
		t.Errorf("solved weights should validate: %v", err)
	}
}

func TestApplyAndWeightsOf(t *testing.T) {
	w := PriorityWeights{Physical: 0.5, Functional: 0.3, Age: 0.2}
	var p store.DecisionPath
	w.Apply(&p)
	if got := WeightsOf(p); got != w {
		t.Errorf("WeightsOf = %+v, want %+v", got, w)
	}
}
