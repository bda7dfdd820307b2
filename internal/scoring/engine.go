package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type AssessmentInput struct {
	ModelID int64        `json:"model_id"`
	Answers []UserAnswer `json:"answers"`
}

// AssessmentResult is the complete output of one assessment.
type AssessmentResult struct {
	ModelID          int64                 `json:"modelId"`
	ReferenceYear    int                   `json:"referenceYear"`
	AgeScore         int                   `json:"ageScore"`
	PhysicalResult   CategoryResult        `json:"physicalResult"`
	FunctionalResult CategoryResult        `json:"functionalResult"`
	PathResults      []PathResult          `json:"pathResults"`
	Reason           *RecommendationReason `json:"reason,omitempty"`
}

// Engine runs assessments against a catalog. It holds no per-assessment
// state and is safe for concurrent use.
type Engine struct {
	catalog store.Catalog
	strict  bool
	clock   func() time.Time
	logger  *slog.Logger
}

type EngineOption func(*Engine)

// WithStrictReferences makes unresolvable answer references fail the
// assessment with a DanglingReferenceError.
func WithStrictReferences(strict bool) EngineOption {
	return func(e *Engine) { e.strict = strict }
}

// WithClock sets the source of the reference year used for age scoring.
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

func NewEngine(catalog store.Catalog, logger *slog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		clock:   time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess scores a device: age from the model's release year, one deductive
// score per category, then every decision path ranked on those three scores.
func (e *Engine) Assess(ctx context.Context, in AssessmentInput) (*AssessmentResult, error) {
	model, err := e.catalog.GetModel(ctx, in.ModelID)
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("%w: %d", ErrModelNotFound, in.ModelID)
	}

	var (
		physicalConds   []store.Condition
		functionalConds []store.Condition
		options         []store.AnswerOption
		paths           []store.DecisionPath
	)
	optionIDs := make([]int64, 0, len(in.Answers))
	for _, a := range in.Answers {
		optionIDs = append(optionIDs, a.AnswerOptionID)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		physicalConds, err = e.catalog.ConditionsByCategory(gctx, store.CategoryPhysical)
		return err
	})
	g.Go(func() error {
		var err error
		functionalConds, err = e.catalog.ConditionsByCategory(gctx, store.CategoryFunctional)
		return err
	})
	g.Go(func() error {
		var err error
		options, err = e.catalog.AnswerOptionsByIDs(gctx, optionIDs)
		return err
	})
	g.Go(func() error {
		var err error
		paths, err = e.catalog.ListDecisionPaths(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if e.strict {
		if err := checkAnswersResolve(in.Answers, physicalConds, functionalConds); err != nil {
			return nil, err
		}
	}

	physical, err := ScoreCategory(CategoryInput{
		Category:   store.CategoryPhysical,
		Conditions: physicalConds,
		Options:    options,
		Answers:    in.Answers,
		Strict:     e.strict,
	})
	if err != nil {
		return nil, err
	}
	functional, err := ScoreCategory(CategoryInput{
		Category:   store.CategoryFunctional,
		Conditions: functionalConds,
		Options:    options,
		Answers:    in.Answers,
		Strict:     e.strict,
	})
	if err != nil {
		return nil, err
	}

	year := e.clock().Year()
	age := AgeScore(model.ReleaseYear, year)

	ranked, err := RankPaths(physical.Score, functional.Score, age, paths)
	if err != nil {
		return nil, err
	}

	result := &AssessmentResult{
		ModelID:          model.ID,
		ReferenceYear:    year,
		AgeScore:         age,
		PhysicalResult:   physical,
		FunctionalResult: functional,
		PathResults:      ranked,
	}
	for _, p := range paths {
		if p.ID == ranked[0].DecisionPathID {
			reason := Explain(p, physical.Score, functional.Score, age)
			result.Reason = &reason
			break
		}
	}

	e.logger.Debug("assessment scored",
		"model_id", model.ID,
		"age_score", age,
		"physical", physical.Score,
		"functional", functional.Score,
		"recommended", ranked[0].PathName,
	)
	return result, nil
}

// checkAnswersResolve rejects answers whose condition belongs to no category.
func checkAnswersResolve(answers []UserAnswer, condSets ...[]store.Condition) error {
	known := make(map[int64]bool)
	for _, set := range condSets {
		for _, c := range set {
			known[c.ID] = true
		}
	}
	for _, a := range answers {
		if !known[a.ConditionID] {
			return &DanglingReferenceError{
				ConditionID:    a.ConditionID,
				AnswerOptionID: a.AnswerOptionID,
				Reason:         "condition not found",
			}
		}
	}
	return nil
}
