package store

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the YAML layout accepted by LoadCatalogFile.
type CatalogFile struct {
	Models        []DeviceModel  `yaml:"models"`
	Conditions    []Condition    `yaml:"conditions"`
	AnswerOptions []AnswerOption `yaml:"answer_options"`
	DecisionPaths []DecisionPath `yaml:"decision_paths"`
}

// MemoryStore keeps the catalog and assessments in process memory. It backs
// the CLI, local runs without Postgres, and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	models      map[int64]DeviceModel
	conditions  []Condition
	options     map[int64]AnswerOption
	paths       []DecisionPath
	nextPathID  int64
	assessments map[uuid.UUID]*Assessment
	feedback    []Feedback
	now         func() time.Time
}

func NewMemoryStore(cf CatalogFile) (*MemoryStore, error) {
	s := &MemoryStore{
		models:      make(map[int64]DeviceModel),
		options:     make(map[int64]AnswerOption),
		assessments: make(map[uuid.UUID]*Assessment),
		now:         time.Now,
	}
	for _, m := range cf.Models {
		s.models[m.ID] = m
	}
	for _, c := range cf.Conditions {
		if !c.Category.Valid() {
			return nil, fmt.Errorf("condition %d: unknown category %q", c.ID, c.Category)
		}
		if c.ImpactWeight < 0 {
			return nil, fmt.Errorf("condition %d: negative impact weight", c.ID)
		}
		s.conditions = append(s.conditions, c)
	}
	for _, o := range cf.AnswerOptions {
		if o.DefaultRatio < 0 || o.DefaultRatio > 1 {
			return nil, fmt.Errorf("answer option %d: default ratio %.2f outside [0,1]", o.ID, o.DefaultRatio)
		}
		s.options[o.ID] = o
	}
	s.paths = append(s.paths, cf.DecisionPaths...)
	sort.Slice(s.paths, func(i, j int) bool { return s.paths[i].ID < s.paths[j].ID })
	for _, p := range s.paths {
		if p.ID > s.nextPathID {
			s.nextPathID = p.ID
		}
	}
	return s, nil
}

// LoadCatalogFile reads a YAML catalog from disk into a MemoryStore.
func LoadCatalogFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewMemoryStore(cf)
}

func (s *MemoryStore) ConditionsByCategory(_ context.Context, category Category) ([]Condition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Condition
	for _, c := range s.conditions {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) AnswerOptionsByIDs(_ context.Context, ids []int64) ([]AnswerOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]bool, len(ids))
	var out []AnswerOption
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if o, ok := s.options[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *MemoryStore) AnswerOptionsByGroups(_ context.Context, groupIDs []int64) ([]AnswerOption, error) {
	want := make(map[int64]bool, len(groupIDs))
	for _, id := range groupIDs {
		want[id] = true
	}
	s.mu.RLock()
	var out []AnswerOption
	for _, o := range s.options {
		if want[o.GroupID] {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()
	SortAnswerOptions(out)
	return out, nil
}

func (s *MemoryStore) GetModel(_ context.Context, id int64) (*DeviceModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemoryStore) ListModels(_ context.Context) ([]DeviceModel, error) {
	s.mu.RLock()
	out := make([]DeviceModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListDecisionPaths(_ context.Context) ([]DecisionPath, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DecisionPath, len(s.paths))
	copy(out, s.paths)
	return out, nil
}

func (s *MemoryStore) CreateDecisionPath(_ context.Context, p *DecisionPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPathID++
	p.ID = s.nextPathID
	s.paths = append(s.paths, *p)
	return nil
}

func (s *MemoryStore) CreateAssessment(_ context.Context, a *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AssessmentCompleted
	}
	a.CreatedAt = s.now()
	cp := *a
	cp.Conditions = append([]AssessmentCondition(nil), a.Conditions...)
	cp.PathScores = append([]PathScore(nil), a.PathScores...)
	s.assessments[a.ID] = &cp
	return nil
}

func (s *MemoryStore) GetAssessment(_ context.Context, id uuid.UUID) (*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Conditions = append([]AssessmentCondition(nil), a.Conditions...)
	cp.PathScores = append([]PathScore(nil), a.PathScores...)
	return &cp, nil
}

func (s *MemoryStore) CreateFeedback(_ context.Context, f *Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assessments[f.AssessmentID]; !ok {
		return fmt.Errorf("feedback for assessment %s: %w", f.AssessmentID, ErrAssessmentNotFound)
	}
	f.ID = int64(len(s.feedback) + 1)
	f.CreatedAt = s.now()
	s.feedback = append(s.feedback, *f)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
