package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the extraction pipeline.
type Metrics struct {
	ExtractionsTotal *prometheus.CounterVec
	Confidence       prometheus.Histogram
}

// New creates and registers extraction metrics.
func New() *Metrics {
	return &Metrics{
		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipgate_extractions_total",
			Help: "Extractions by the strategy that produced the field map",
		}, []string{"strategy"}),
		Confidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shipgate_extraction_confidence",
			Help:    "Distribution of extraction confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95},
		}),
	}
}

// ObserveExtraction records which strategy won the cascade.
func (m *Metrics) ObserveExtraction(strategy string) {
	if m == nil {
		return
	}
	if strategy == "" {
		strategy = "none"
	}
	m.ExtractionsTotal.WithLabelValues(strategy).Inc()
}

// ObserveConfidence records a confidence score.
func (m *Metrics) ObserveConfidence(score float64) {
	if m == nil {
		return
	}
	m.Confidence.Observe(score)
}
