package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nakkasenp65/device-assessment-dss/internal/store"
)

type fakeCatalog struct {
	mu         sync.Mutex
	models     map[int64]*store.DeviceModel
	conditions []store.Condition
	options    []store.AnswerOption
	paths      []store.DecisionPath

	conditionsErr error
	calls         []string
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) ConditionsByCategory(_ context.Context, cat store.Category) ([]store.Condition, error) {
	f.record("conditions:" + string(cat))
	if f.conditionsErr != nil {
		return nil, f.conditionsErr
	}
	var out []store.Condition
	for _, c := range f.conditions {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalog) AnswerOptionsByIDs(_ context.Context, ids []int64) ([]store.AnswerOption, error) {
	f.record("options")
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []store.AnswerOption
	for _, o := range f.options {
		if want[o.ID] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeCatalog) AnswerOptionsByGroups(_ context.Context, _ []int64) ([]store.AnswerOption, error) {
	f.record("groups")
	return nil, nil
}

func (f *fakeCatalog) ListModels(_ context.Context) ([]store.DeviceModel, error) {
	f.record("models")
	return nil, nil
}

func (f *fakeCatalog) GetModel(_ context.Context, id int64) (*store.DeviceModel, error) {
	f.record("model")
	return f.models[id], nil
}

func (f *fakeCatalog) ListDecisionPaths(_ context.Context) ([]store.DecisionPath, error) {
	f.record("paths")
	return f.paths, nil
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		models: map[int64]*store.DeviceModel{
			1: {ID: 1, BrandName: "Acme", Name: "Phone 12", ReleaseYear: 2024},
			2: {ID: 2, BrandName: "Acme", Name: "Phone 8", ReleaseYear: 2018},
		},
		conditions: []store.Condition{
			{ID: 10, Category: store.CategoryPhysical, Name: "Screen scratches", ImpactWeight: 3, AnswerGroupID: 1},
			{ID: 11, Category: store.CategoryPhysical, Name: "Body dents", ImpactWeight: 1, AnswerGroupID: 1},
			{ID: 20, Category: store.CategoryFunctional, Name: "Battery health", ImpactWeight: 10, AnswerGroupID: 2},
		},
		options: []store.AnswerOption{
			{ID: 100, GroupID: 1, Label: "None", DefaultRatio: 0},
			{ID: 101, GroupID: 1, Label: "Heavy", DefaultRatio: 1},
			{ID: 200, GroupID: 2, Label: "Good", DefaultRatio: 0},
			{ID: 201, GroupID: 2, Label: "Degraded", DefaultRatio: 0.5},
		},
		paths: []store.DecisionPath{
			{ID: 1, Name: "Resell", WeightPhysical: 0.6, WeightFunctional: 0.3, WeightAge: 0.1},
			{ID: 2, Name: "Repair", WeightPhysical: 0.1, WeightFunctional: 0.7, WeightAge: 0.2},
		},
	}
}

func testEngine(cat store.Catalog, opts ...EngineOption) *Engine {
	clock := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	opts = append([]EngineOption{WithClock(clock)}, opts...)
	return NewEngine(cat, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
}

func TestEngineAssess(t *testing.T) {
	e := testEngine(newFakeCatalog())

	res, err := e.Assess(context.Background(), AssessmentInput{
		ModelID: 1,
		Answers: []UserAnswer{
			{ConditionID: 10, AnswerOptionID: 101},
			{ConditionID: 11, AnswerOptionID: 100},
			{ConditionID: 20, AnswerOptionID: 201},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2026, res.ReferenceYear)
	assert.Equal(t, 80, res.AgeScore)
	// Scratches carry 75 of the 100 physical points.
	assert.InDelta(t, 25, res.PhysicalResult.Score, 1e-9)
	assert.InDelta(t, 50, res.FunctionalResult.Score, 1e-9)

	require.Len(t, res.PathResults, 2)
	// Resell: 25*0.6 + 50*0.3 + 80*0.1 = 38; Repair: 2.5 + 35 + 16 = 53.5
	assert.Equal(t, int64(2), res.PathResults[0].DecisionPathID)
	assert.Equal(t, 53.5, res.PathResults[0].TotalScore)
	assert.Equal(t, 38.0, res.PathResults[1].TotalScore)

	require.NotNil(t, res.Reason)
	assert.Equal(t, int64(2), res.Reason.DecisionPathID)
	assert.Equal(t, FactorFunctional, res.Reason.DominantFactor)
	assert.Equal(t, BandMedium, res.Reason.Band)
}

func TestEngineAssessNoAnswers(t *testing.T) {
	e := testEngine(newFakeCatalog())

	res, err := e.Assess(context.Background(), AssessmentInput{ModelID: 2})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.PhysicalResult.Score)
	assert.Equal(t, 100.0, res.FunctionalResult.Score)
	assert.Equal(t, 20, res.AgeScore)
	assert.Equal(t, 1, res.PathResults[0].Rank)
}

func TestEngineModelNotFound(t *testing.T) {
	cat := newFakeCatalog()
	e := testEngine(cat)

	_, err := e.Assess(context.Background(), AssessmentInput{ModelID: 99})
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Equal(t, []string{"model"}, cat.calls, "no catalog reads after a missing model")
}

func TestEngineNoDecisionPaths(t *testing.T) {
	cat := newFakeCatalog()
	cat.paths = nil
	e := testEngine(cat)

	_, err := e.Assess(context.Background(), AssessmentInput{ModelID: 1})
	assert.ErrorIs(t, err, ErrNoDecisionPaths)
}

func TestEngineCatalogErrorPropagates(t *testing.T) {
	cat := newFakeCatalog()
	boom := errors.New("connection reset")
	cat.conditionsErr = boom
	e := testEngine(cat)

	_, err := e.Assess(context.Background(), AssessmentInput{ModelID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestEngineStrictReferences(t *testing.T) {
	answers := []UserAnswer{
		{ConditionID: 10, AnswerOptionID: 101},
		{ConditionID: 999, AnswerOptionID: 100},
	}

	t.Run("tolerant skips unknown condition", func(t *testing.T) {
		res, err := testEngine(newFakeCatalog()).Assess(context.Background(), AssessmentInput{ModelID: 1, Answers: answers})
		require.NoError(t, err)
		assert.Len(t, res.PhysicalResult.Details, 1)
	})

	t.Run("strict rejects unknown condition", func(t *testing.T) {
		e := testEngine(newFakeCatalog(), WithStrictReferences(true))
		_, err := e.Assess(context.Background(), AssessmentInput{ModelID: 1, Answers: answers})
		var dre *DanglingReferenceError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, int64(999), dre.ConditionID)
	})

	t.Run("strict rejects unknown option", func(t *testing.T) {
		e := testEngine(newFakeCatalog(), WithStrictReferences(true))
		_, err := e.Assess(context.Background(), AssessmentInput{
			ModelID: 1,
			Answers: []UserAnswer{{ConditionID: 20, AnswerOptionID: 12345}},
		})
		var dre *DanglingReferenceError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, int64(12345), dre.AnswerOptionID)
	})
}

func TestEngineDeterministic(t *testing.T) {
	e := testEngine(newFakeCatalog())
	in := AssessmentInput{ModelID: 1, Answers: []UserAnswer{{ConditionID: 10, AnswerOptionID: 101}}}

	first, err := e.Assess(context.Background(), in)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Assess(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
