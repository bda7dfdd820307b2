package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrAssessmentNotFound is returned by writes that reference an unknown
// assessment.
var ErrAssessmentNotFound = errors.New("assessment not found")

type Category string

const (
	CategoryPhysical   Category = "physical"
	CategoryFunctional Category = "functional"
)

// Categories lists every category in scoring order.
func Categories() []Category {
	return []Category{CategoryPhysical, CategoryFunctional}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPhysical, CategoryFunctional:
		return true
	}
	return false
}

// ParseCategory maps a slug to a Category, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

type Condition struct {
	ID            int64    `json:"id" yaml:"id"`
	Category      Category `json:"category" yaml:"category"`
	Name          string   `json:"name" yaml:"name"`
	AnswerType    string   `json:"answer_type,omitempty" yaml:"answer_type"`
	ImpactWeight  float64  `json:"impact_weight" yaml:"impact_weight"`
	AnswerGroupID int64    `json:"answer_group_id" yaml:"answer_group_id"`
}

type AnswerOption struct {
	ID           int64   `json:"id" yaml:"id"`
	GroupID      int64   `json:"group_id" yaml:"group_id"`
	Label        string  `json:"label" yaml:"label"`
	DefaultRatio float64 `json:"default_ratio" yaml:"default_ratio"`
	OrderIndex   int     `json:"order_index" yaml:"order_index"`
}

// SortAnswerOptions orders options by group, then order index, then ID.
func SortAnswerOptions(opts []AnswerOption) {
	sort.Slice(opts, func(i, j int) bool {
		a, b := opts[i], opts[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		return a.ID < b.ID
	})
}

type DeviceModel struct {
	ID          int64  `json:"id" yaml:"id"`
	BrandName   string `json:"brand_name,omitempty" yaml:"brand"`
	Name        string `json:"name" yaml:"name"`
	ReleaseYear int    `json:"release_year" yaml:"release_year"`
}

type DecisionPath struct {
	ID                  int64   `json:"id" yaml:"id"`
	Name                string  `json:"name" yaml:"name"`
	DescriptionTemplate string  `json:"description_template,omitempty" yaml:"description_template"`
	WeightPhysical      float64 `json:"weight_physical" yaml:"weight_physical"`
	WeightFunctional    float64 `json:"weight_functional" yaml:"weight_functional"`
	WeightAge           float64 `json:"weight_age" yaml:"weight_age"`
}

type AssessmentStatus string

const (
	AssessmentCompleted AssessmentStatus = "completed"
)

// AssessmentCondition records one answered condition and what it cost.
type AssessmentCondition struct {
	ConditionID    int64   `json:"condition_id"`
	AnswerOptionID int64   `json:"answer_option_id"`
	MaxPoints      float64 `json:"max_points"`
	Severity       float64 `json:"severity"`
	Deduction      float64 `json:"deduction"`
}

type PathScore struct {
	DecisionPathID  int64   `json:"decision_path_id"`
	PathName        string  `json:"path_name"`
	TotalScore      float64 `json:"total_score"`
	ScorePhysical   float64 `json:"score_physical"`
	ScoreFunctional float64 `json:"score_functional"`
	ScoreAge        float64 `json:"score_age"`
	Rank            int     `json:"rank"`
	IsRecommended   bool    `json:"is_recommended"`
}

type Assessment struct {
	ID              uuid.UUID             `json:"id"`
	ModelID         int64                 `json:"model_id"`
	StorageGB       int                   `json:"storage_gb"`
	Status          AssessmentStatus      `json:"status"`
	AgeScore        int                   `json:"age_score"`
	PhysicalScore   float64               `json:"physical_score"`
	FunctionalScore float64               `json:"functional_score"`
	Conditions      []AssessmentCondition `json:"conditions"`
	PathScores      []PathScore           `json:"path_scores"`
	CreatedAt       time.Time             `json:"created_at"`
}

// Feedback is a user's 1-5 rating of an assessment's recommendation.
type Feedback struct {
	ID           int64     `json:"id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	Rate         int       `json:"rate"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// Catalog is the read side consumed by the scoring engine. Implementations
// must be safe for concurrent use.
type Catalog interface {
	ConditionsByCategory(ctx context.Context, category Category) ([]Condition, error)
	AnswerOptionsByIDs(ctx context.Context, ids []int64) ([]AnswerOption, error)
	// AnswerOptionsByGroups returns the options of the given answer groups
	// ordered by group, then order index, then ID.
	AnswerOptionsByGroups(ctx context.Context, groupIDs []int64) ([]AnswerOption, error)
	// GetModel returns nil, nil when the model does not exist.
	GetModel(ctx context.Context, id int64) (*DeviceModel, error)
	ListModels(ctx context.Context) ([]DeviceModel, error)
	ListDecisionPaths(ctx context.Context) ([]DecisionPath, error)
}

type Store interface {
	Catalog

	CreateDecisionPath(ctx context.Context, p *DecisionPath) error

	CreateAssessment(ctx context.Context, a *Assessment) error
	// GetAssessment returns nil, nil when the assessment does not exist.
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)

	CreateFeedback(ctx context.Context, f *Feedback) error

	Close() error
}
