package extraction

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"shipgate/internal/extraction/metrics"
	"shipgate/internal/rules"
	"shipgate/internal/rules/store/memory"
	"shipgate/pkg/domain"
)

type ConfidenceSuite struct {
	suite.Suite
	scorer *Scorer
}

func (s *ConfidenceSuite) SetupTest() {
	catalog := rules.NewCatalog(memory.New(), nil)
	s.Require().NoError(catalog.Initialize(context.Background()))
	s.scorer = NewScorer(catalog, nil)
}

func TestConfidenceSuite(t *testing.T) {
	suite.Run(t, new(ConfidenceSuite))
}

// captureHistogram records observations so histogram wiring can be asserted
// without a registry.
type captureHistogram struct {
	prometheus.Histogram
	samples []float64
}

func (c *captureHistogram) Observe(v float64) { c.samples = append(c.samples, v) }

func fullFieldSet() map[string]string {
	return map[string]string{
		"trackingNumber":   "AB1234567890",
		"shipperName":      "Acme Corp",
		"shipperAddress":   "1 Main St, Springfield",
		"recipientName":    "Jane Doe",
		"recipientAddress": "2 Oak Ave, Columbus",
		"weight":           "3.2 kg",
		"packageContents":  "books",
	}
}

// TestBounds verifies the score never leaves its clamped range.
func (s *ConfidenceSuite) TestBounds() {
	s.Run("empty extraction scores the floor", func() {
		s.InDelta(0.10, s.scorer.Score(map[string]string{}, "some raw text", domain.SourceVision), 1e-9)
		s.InDelta(0.10, s.scorer.Score(map[string]string{"weight": "  "}, "", domain.SourceManual), 1e-9)
	})

	s.Run("rich manual input hits the ceiling", func() {
		fields := fullFieldSet()
		fields["carrier"] = "FedEx"
		fields["serviceType"] = "International Priority"
		fields["orderNumber"] = "ORD-2024-0042"
		s.InDelta(0.95, s.scorer.Score(fields, "", domain.SourceManual), 1e-9)
	})

	s.Run("always within range", func() {
		inputs := []map[string]string{
			{},
			{"x": "1"},
			fullFieldSet(),
		}
		sources := []domain.Source{domain.SourceManual, domain.SourceCSV, domain.SourceVision, domain.Source("unknown")}
		for _, fields := range inputs {
			for _, source := range sources {
				got := s.scorer.Score(fields, "raw", source)
				s.GreaterOrEqual(got, 0.10)
				s.LessOrEqual(got, 0.95)
			}
		}
	})
}

// TestAdjustments verifies the directional heuristics.
func (s *ConfidenceSuite) TestAdjustments() {
	s.Run("manual scores above csv when a cell is empty", func() {
		fields := fullFieldSet()
		fields["dimensions"] = ""
		manual := s.scorer.Score(fields, "", domain.SourceManual)
		csv := s.scorer.Score(fields, "", domain.SourceCSV)
		s.Greater(manual, csv)
	})

	s.Run("more critical fields never lowers the score", func() {
		few := map[string]string{"trackingNumber": "AB1234567890", "carrier": "FedEx", "orderNumber": "ORD-1", "email": "a@b.co", "phoneNumber": "1234567"}
		more := map[string]string{}
		for k, v := range few {
			more[k] = v
		}
		more["recipientName"] = "Jane Doe"
		more["recipientAddress"] = "2 Oak Ave"

		s.GreaterOrEqual(s.scorer.Score(more, "", domain.SourceVision), s.scorer.Score(few, "", domain.SourceVision))
	})

	s.Run("csv fill rate penalizes sparse rows", func() {
		full := map[string]string{"trackingNumber": "AB1234567890", "recipientName": "Mary", "weight": "1 kg", "carrier": "DHL", "orderNumber": "ORD-1"}
		sparse := map[string]string{"trackingNumber": "AB1234567890", "recipientName": "", "weight": "", "carrier": "", "orderNumber": ""}
		s.Greater(s.scorer.Score(full, "", domain.SourceCSV), s.scorer.Score(sparse, "", domain.SourceCSV))
	})

	s.Run("missing required fields lower the score", func() {
		store := memory.New()
		memory.Seed(store) // trackingNumber is required
		catalog := rules.NewCatalog(store, nil)
		s.Require().NoError(catalog.Initialize(context.Background()))
		scorer := NewScorer(catalog, nil)

		withTracking := map[string]string{"trackingNumber": "AB1234567890", "weight": "1 kg", "carrier": "DHL", "orderNumber": "O-1", "email": "a@b.co"}
		withoutTracking := map[string]string{"weight": "1 kg", "carrier": "DHL", "orderNumber": "O-1", "email": "a@b.co", "phoneNumber": "1234567"}
		s.Greater(scorer.Score(withTracking, "", domain.SourceVision), scorer.Score(withoutTracking, "", domain.SourceVision))
	})

	s.Run("suspiciously short values are penalized", func() {
		normal := map[string]string{"recipientName": "Mary Smith", "shipperName": "Acme Corp", "carrier": "DHL Express", "packageContents": "books", "serviceType": "Ground"}
		short := map[string]string{"recipientName": "M", "shipperName": "A", "carrier": "D", "packageContents": "b", "serviceType": "G"}
		s.Greater(s.scorer.Score(normal, "", domain.SourceVision), s.scorer.Score(short, "", domain.SourceVision))
	})

	s.Run("every score lands in the confidence histogram", func() {
		catalog := rules.NewCatalog(memory.New(), nil)
		s.Require().NoError(catalog.Initialize(context.Background()))
		h := &captureHistogram{}
		scorer := NewScorer(catalog, &metrics.Metrics{Confidence: h})

		got := scorer.Score(fullFieldSet(), "", domain.SourceManual)
		s.Require().Len(h.samples, 1)
		s.InDelta(got, h.samples[0], 1e-9)

		scorer.Score(map[string]string{}, "", domain.SourceVision)
		s.Require().Len(h.samples, 2)
		s.InDelta(0.10, h.samples[1], 1e-9)
	})

	s.Run("identifier fields are exempt from the short-value penalty", func() {
		base := map[string]string{"recipientName": "Mary Smith", "shipperName": "Acme Corp", "carrier": "DHL Express", "packageContents": "books"}
		withShortID := map[string]string{}
		baseline := map[string]string{}
		for k, v := range base {
			withShortID[k] = v
			baseline[k] = v
		}
		withShortID["weight"] = "1"
		baseline["weight"] = "1.25 kg"

		s.InDelta(s.scorer.Score(baseline, "", domain.SourceVision), s.scorer.Score(withShortID, "", domain.SourceVision), 1e-9)
	})
}
