package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the compliance validation counters. A nil *Metrics is valid
// and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	Verdicts *prometheus.CounterVec
}

// New creates and registers the compliance counters.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipgate_compliance_verdicts_total",
			Help: "Compliance result rows by status.",
		}, []string{"status"}),
	}
}

func (m *Metrics) IncVerdicts(status string) {
	if m == nil || m.Verdicts == nil {
		return
	}
	m.Verdicts.WithLabelValues(status).Inc()
}
