package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	AssessmentsTotal   *prometheus.CounterVec
	AssessmentDuration prometheus.Histogram
	AHPCalculations    *prometheus.CounterVec
	Recommendations    *prometheus.CounterVec
	CacheRequests      *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AssessmentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dss_assessments_total",
				Help: "Assessments processed, by outcome",
			},
			[]string{"outcome"},
		),
		AssessmentDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dss_assessment_duration_seconds",
				Help:    "Time to score and persist one assessment",
				Buckets: prometheus.DefBuckets,
			},
		),
		AHPCalculations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dss_ahp_calculations_total",
				Help: "Pairwise matrices solved, by whether the judgments were consistent",
			},
			[]string{"consistent"},
		),
		Recommendations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dss_recommendations_total",
				Help: "Recommended decision path per assessment",
			},
			[]string{"path"},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dss_cache_requests_total",
				Help: "Catalog cache lookups, by result",
			},
			[]string{"result"},
		),
	}
}

// Outcome labels for AssessmentsTotal.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeModelNotFound = "model_not_found"
	OutcomeDangling      = "dangling_reference"
	OutcomeNotConfigured = "no_paths"
	OutcomeError         = "error"
)

// Cache result labels for CacheRequests.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func (m *Metrics) ObserveAHP(consistent bool) {
	m.AHPCalculations.WithLabelValues(strconv.FormatBool(consistent)).Inc()
}

func (m *Metrics) ObserveCache(result string) {
	m.CacheRequests.WithLabelValues(result).Inc()
}
