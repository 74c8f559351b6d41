package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-level Prometheus metrics for the engine.
type Metrics struct {
	ShipmentsProcessed *prometheus.CounterVec
	RuleRefreshes      *prometheus.CounterVec
}

// New creates and registers all process-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ShipmentsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipgate_shipments_processed_total",
			Help: "Total number of raw inputs run through the full pipeline",
		}, []string{"source"}),
		RuleRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipgate_rule_refreshes_total",
			Help: "Total number of rule catalog refresh attempts",
		}, []string{"outcome"}),
	}
}

// IncShipmentsProcessed increments the processed counter for a source.
func (m *Metrics) IncShipmentsProcessed(source string) {
	if m == nil {
		return
	}
	m.ShipmentsProcessed.WithLabelValues(source).Inc()
}

// IncRuleRefreshes increments the refresh counter with an outcome label.
func (m *Metrics) IncRuleRefreshes(outcome string) {
	if m == nil {
		return
	}
	m.RuleRefreshes.WithLabelValues(outcome).Inc()
}
