package extraction

import (
	"strings"

	"shipgate/internal/extraction/metrics"
	"shipgate/internal/rules"
	"shipgate/pkg/domain"
)

// criticalFields are the six shipping fields whose presence most strongly
// signals a usable extraction.
var criticalFields = []string{
	"trackingNumber",
	"shipperName",
	"shipperAddress",
	"recipientName",
	"recipientAddress",
	"weight",
}

// identifierFields hold short-by-nature values; a short value there is not
// suspicious.
var identifierFields = map[string]bool{
	"trackingNumber": true,
	"orderNumber":    true,
	"postalCode":     true,
	"harmonizedCode": true,
	"weight":         true,
}

const (
	confidenceFloor   = 0.10
	confidenceCeiling = 0.95
)

// Scorer computes a heuristic [0,1] confidence estimate for an extraction.
// The score is never reported as absolute certainty or absolute failure.
type Scorer struct {
	catalog *rules.Catalog
	metrics *metrics.Metrics
}

// NewScorer constructs a confidence scorer over the shared catalog. metrics
// may be nil in tests.
func NewScorer(catalog *rules.Catalog, m *metrics.Metrics) *Scorer {
	return &Scorer{catalog: catalog, metrics: m}
}

// Score starts from a source-dependent base and adjusts for field count,
// critical-field coverage, fill rate (CSV only), missing required fields and
// suspiciously short values. The result is clamped to [0.10, 0.95]; a fully
// empty extraction scores the floor.
func (s *Scorer) Score(fields map[string]string, rawText string, source domain.Source) float64 {
	nonEmpty := 0
	for _, v := range fields {
		if strings.TrimSpace(v) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		s.metrics.ObserveConfidence(confidenceFloor)
		return confidenceFloor
	}

	var score float64
	switch source {
	case domain.SourceManual:
		score = 0.85
	case domain.SourceCSV:
		score = 0.70
	case domain.SourceVision:
		score = 0.75
	default:
		score = 0.75
	}

	switch {
	case len(fields) >= 10:
		score += 0.10
	case len(fields) < 5:
		score -= 0.10
	}

	present := 0
	for _, key := range criticalFields {
		if strings.TrimSpace(fields[key]) != "" {
			present++
		}
	}
	score += (float64(present)/float64(len(criticalFields)) - 0.5) * 0.2

	if source == domain.SourceCSV && len(fields) > 0 {
		fillRate := float64(nonEmpty) / float64(len(fields))
		score += (fillRate - 0.5) * 0.3
	}

	if s.catalog != nil {
		missing := 0
		for _, r := range s.catalog.AllRules() {
			if r.IsRequired && strings.TrimSpace(fields[r.FieldKey]) == "" {
				missing++
			}
		}
		switch {
		case missing >= 2:
			score -= 0.20
		case missing == 1:
			score -= 0.10
		}
	}

	short := 0
	for key, v := range fields {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" && len(trimmed) < 3 && !identifierFields[key] {
			short++
		}
	}
	score -= min(0.10, 0.02*float64(short))

	final := clampConfidence(score)
	s.metrics.ObserveConfidence(final)
	return final
}

func clampConfidence(score float64) float64 {
	if score < confidenceFloor {
		return confidenceFloor
	}
	if score > confidenceCeiling {
		return confidenceCeiling
	}
	return score
}
