package hermes

import "time"

// RankedPath is the compact form of one path result carried in events.
type RankedPath struct {
	DecisionPathID int64   `json:"decision_path_id"`
	Name           string  `json:"name"`
	TotalScore     float64 `json:"total_score"`
	Rank           int     `json:"rank"`
}

type AssessmentCompletedEvent struct {
	AssessmentID    string       `json:"assessment_id"`
	ModelID         int64        `json:"model_id"`
	AgeScore        int          `json:"age_score"`
	PhysicalScore   float64      `json:"physical_score"`
	FunctionalScore float64      `json:"functional_score"`
	Recommended     RankedPath   `json:"recommended"`
	Paths           []RankedPath `json:"paths"`
	Timestamp       time.Time    `json:"timestamp"`
}

type PathCreatedEvent struct {
	DecisionPathID   int64     `json:"decision_path_id"`
	Name             string    `json:"name"`
	WeightPhysical   float64   `json:"weight_physical"`
	WeightFunctional float64   `json:"weight_functional"`
	WeightAge        float64   `json:"weight_age"`
	ConsistencyRatio *float64  `json:"consistency_ratio,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
