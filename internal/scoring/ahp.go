package scoring

import (
	"fmt"
	"math"
)

// criteriaCount is the number of criteria the solver handles: physical,
// functional, age, in that row/column order.
const criteriaCount = 3

// ConsistencyThreshold is the largest consistency ratio still accepted.
const ConsistencyThreshold = 0.1

// randomIndex holds Saaty's random consistency index by matrix size.
var randomIndex = map[int]float64{
	1:  0.0,
	2:  0.0,
	3:  0.58,
	4:  0.90,
	5:  1.12,
	6:  1.24,
	7:  1.32,
	8:  1.41,
	9:  1.45,
	10: 1.49,
}

// RandomIndex returns RI(n). Sizes outside the table are an error rather than
// a silent fallback.
func RandomIndex(n int) (float64, error) {
	ri, ok := randomIndex[n]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedMatrixSize, n)
	}
	return ri, nil
}

type ConsistencyGrade string

const (
	GradeAcceptable ConsistencyGrade = "acceptable"
	GradeFair       ConsistencyGrade = "fair"
	GradePoor       ConsistencyGrade = "poor"
)

type ConsistencyReport struct {
	LambdaMax    float64          `json:"lambdaMax"`
	CI           float64          `json:"ci"`
	CR           float64          `json:"cr"`
	IsConsistent bool             `json:"isConsistent"`
	Grade        ConsistencyGrade `json:"grade"`
}

type AHPResult struct {
	Weights     PriorityWeights   `json:"weights"`
	Consistency ConsistencyReport `json:"consistency"`
}

// GradeConsistency buckets a consistency ratio: up to 0.1 is acceptable, up
// to 0.2 deserves a second look, anything above should be re-judged.
func GradeConsistency(cr float64) ConsistencyGrade {
	switch {
	case cr <= ConsistencyThreshold:
		return GradeAcceptable
	case cr <= 0.2:
		return GradeFair
	default:
		return GradePoor
	}
}

// ReciprocalMatrix builds a full 3x3 pairwise matrix from the three upper
// triangle judgments: physical vs functional, physical vs age, functional vs age.
func ReciprocalMatrix(physFunc, physAge, funcAge float64) [][]float64 {
	return [][]float64{
		{1, physFunc, physAge},
		{1 / physFunc, 1, funcAge},
		{1 / physAge, 1 / funcAge, 1},
	}
}

// SolveAHP derives the priority vector of a 3x3 pairwise comparison matrix
// using the column-normalisation / row-average approximation, and reports how
// consistent the judgments are.
func SolveAHP(matrix [][]float64) (AHPResult, error) {
	n := len(matrix)
	if n != criteriaCount {
		return AHPResult{}, fmt.Errorf("%w: got %d rows", ErrInvalidMatrixSize, n)
	}
	for i, row := range matrix {
		if len(row) != n {
			return AHPResult{}, fmt.Errorf("%w: row %d has %d columns", ErrInvalidMatrixSize, i, len(row))
		}
		for j, v := range row {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return AHPResult{}, fmt.Errorf("%w: [%d][%d]=%v", ErrInvalidMatrixEntry, i, j, v)
			}
		}
	}

	ri, err := RandomIndex(n)
	if err != nil {
		return AHPResult{}, err
	}

	colSums := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			colSums[j] += matrix[i][j]
		}
	}

	w := make([]float64, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			rowSum += matrix[i][j] / colSums[j]
		}
		w[i] = rowSum / float64(n)
	}

	var lambdaMax float64
	for j := 0; j < n; j++ {
		lambdaMax += colSums[j] * w[j]
	}

	ci := (lambdaMax - float64(n)) / float64(n-1)
	var cr float64
	if ri != 0 {
		cr = ci / ri
	}

	return AHPResult{
		Weights: PriorityWeights{Physical: w[0], Functional: w[1], Age: w[2]},
		Consistency: ConsistencyReport{
			LambdaMax:    lambdaMax,
			CI:           ci,
			CR:           cr,
			IsConsistent: cr <= ConsistencyThreshold,
			Grade:        GradeConsistency(cr),
		},
	}, nil
}
