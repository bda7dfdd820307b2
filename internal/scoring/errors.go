package scoring

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMatrixSize     = errors.New("invalid matrix size: expected 3x3")
	ErrInvalidMatrixEntry    = errors.New("invalid matrix entry: values must be finite and positive")
	ErrUnsupportedMatrixSize = errors.New("no random index for matrix size")
	ErrModelNotFound         = errors.New("model not found")
	ErrNoDecisionPaths       = errors.New("no decision paths configured")
)

// DanglingReferenceError is returned in strict mode when an answer points at
// a condition or answer option that cannot be resolved.
type DanglingReferenceError struct {
	ConditionID    int64
	AnswerOptionID int64
	Reason         string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: condition %d, answer option %d: %s",
		e.ConditionID, e.AnswerOptionID, e.Reason)
}
