package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"shipgate/internal/audit"
	auditmemory "shipgate/internal/audit/store/memory"
	"shipgate/internal/compliance"
	"shipgate/internal/extraction"
	"shipgate/internal/rules"
	rulesmemory "shipgate/internal/rules/store/memory"
	"shipgate/pkg/domain"
)

type ServiceSuite struct {
	suite.Suite
	svc        *Service
	auditStore *auditmemory.Store
	ctx        context.Context
}

func (s *ServiceSuite) SetupTest() {
	store := rulesmemory.New()
	rulesmemory.Seed(store)
	catalog := rules.NewCatalog(store, nil)
	s.ctx = context.Background()
	s.Require().NoError(catalog.Initialize(s.ctx))

	s.auditStore = auditmemory.New()
	s.svc = NewService(
		catalog,
		extraction.New(catalog, nil, nil, nil),
		extraction.NewCSV(catalog, nil),
		extraction.NewScorer(catalog, nil),
		compliance.NewValidator(catalog, nil, nil),
		audit.NewPublisher(s.auditStore, nil),
		nil,
		nil,
		nil,
	)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func statusOf(results []compliance.Result, field string) (compliance.Status, bool) {
	for _, r := range results {
		if r.Field == field {
			return r.Status, true
		}
	}
	return "", false
}

// TestFreeTextRoundTrip covers labeled free text through the full pipeline.
func (s *ServiceSuite) TestFreeTextRoundTrip() {
	text := "From: Acme Corp, 1 Main St, Springfield\n" +
		"To: Jane Doe, 2 Oak Ave, Columbus\n" +
		"Tracking: AB1234567890\n" +
		"Weight: 3.2 kg\n" +
		"Contents: lithium batteries"

	fd, results := s.svc.ProcessInputToCompliance(s.ctx, RawInputData{
		Source: domain.SourceManual,
		Text:   text,
	})

	s.NotEmpty(fd.ID)
	s.Equal("Acme Corp", fd.Fields["shipperName"])
	s.Equal("1 Main St, Springfield", fd.Fields["shipperAddress"])
	s.Equal("Jane Doe", fd.Fields["recipientName"])
	s.Equal("2 Oak Ave, Columbus", fd.Fields["recipientAddress"])
	s.Equal("AB1234567890", fd.Fields["trackingNumber"])
	s.GreaterOrEqual(fd.Metadata.Confidence, 0.7)

	// lithium batteries: restricted-but-shippable, so warnings, not blocks.
	warned := false
	for _, r := range results {
		if r.Field == "Restricted Item" && r.Status == compliance.StatusWarning {
			warned = true
		}
		s.NotEqual(compliance.StatusNonCompliant, r.Status)
	}
	s.True(warned)
}

// TestMalformedCSVRecovery covers the quoted-first-cell repair path.
func (s *ServiceSuite) TestMalformedCSVRecovery() {
	text := "Tracking Number,Shipper Name,Recipient Name,Package Contents\n" +
		`"X1,John,123, Main St",Mary,Guns`

	fd, results := s.svc.ProcessInputToCompliance(s.ctx, RawInputData{
		Source: domain.SourceCSV,
		Text:   text,
	})

	s.Equal("Mary", fd.Fields["recipientName"])
	s.Equal("Guns", fd.Fields["packageContents"])
	s.NotContains(fd.Fields["recipientName"], "Main St")

	blocked := false
	for _, r := range results {
		if r.Field == "Restricted Item" && r.Status == compliance.StatusNonCompliant {
			blocked = true
		}
	}
	s.True(blocked)
}

// TestEmptyInput covers unusable input: empty fields, floor confidence, and a
// low-confidence verdict, but never an error.
func (s *ServiceSuite) TestEmptyInput() {
	fd, results := s.svc.ProcessInputToCompliance(s.ctx, RawInputData{
		Source: domain.SourceVision,
		Text:   "",
	})

	s.Empty(fd.Fields)
	s.LessOrEqual(fd.Metadata.Confidence, 0.3)

	status, ok := statusOf(results, "Extraction Confidence")
	s.Require().True(ok)
	s.Equal(compliance.StatusNonCompliant, status)

	for _, name := range []string{"Tracking Number", "Shipper Name", "Recipient Name", "Recipient Address"} {
		status, ok := statusOf(results, name)
		s.Require().True(ok, "expected a result for %s", name)
		s.Equal(compliance.StatusNonCompliant, status, name)
	}
}

// TestStructuredInput verifies fields win over text.
func (s *ServiceSuite) TestStructuredInput() {
	fd := s.svc.ConvertToStandardFormat(s.ctx, RawInputData{
		Source: domain.SourceManual,
		Text:   "ignored raw text",
		Fields: map[string]string{"Tracking Number": "AB1234567890", "deliveryAddress": "2 Oak Ave"},
	})

	s.Equal("AB1234567890", fd.Fields["trackingNumber"])
	s.Equal("2 Oak Ave", fd.Fields["recipientAddress"])
	s.Equal("ignored raw text", fd.RawText)
}

// TestUnknownFieldWarning verifies rule-less keys are kept and flagged.
func (s *ServiceSuite) TestUnknownFieldWarning() {
	fd := s.svc.ConvertToStandardFormat(s.ctx, RawInputData{
		Source: domain.SourceManual,
		Fields: map[string]string{"trackingNumber": "AB1234567890", "giftMessage": "happy birthday"},
	})

	s.Equal("happy birthday", fd.Fields["giftMessage"])
	s.Contains(strings.Join(fd.Metadata.Warnings, "; "), `"giftMessage"`)
}

// TestCSVFallback verifies non-CSV text under a csv source falls back to
// free-text extraction with a warning.
func (s *ServiceSuite) TestCSVFallback() {
	fd := s.svc.ConvertToStandardFormat(s.ctx, RawInputData{
		Source: domain.SourceCSV,
		Text:   "Tracking: AB1234567890\nWeight: 3.2 kg",
	})

	s.Equal("AB1234567890", fd.Fields["trackingNumber"])
	s.Require().NotEmpty(fd.Metadata.Warnings)
	s.Contains(fd.Metadata.Warnings[0], "fell back to free-text")
}

// TestExternalConfidenceBlend verifies upstream confidence hints are averaged
// in.
func (s *ServiceSuite) TestExternalConfidenceBlend() {
	base := s.svc.ConvertToStandardFormat(s.ctx, RawInputData{
		Source: domain.SourceVision,
		Text:   "Tracking: AB1234567890\nWeight: 3.2 kg\nTo: Jane Doe",
	})
	blended := s.svc.ConvertToStandardFormat(s.ctx, RawInputData{
		Source:   domain.SourceVision,
		Text:     "Tracking: AB1234567890\nWeight: 3.2 kg\nTo: Jane Doe",
		Metadata: map[string]string{"confidence": "0.2"},
	})

	s.Less(blended.Metadata.Confidence, base.Metadata.Confidence)
	s.InDelta((base.Metadata.Confidence+0.2)/2, blended.Metadata.Confidence, 1e-9)
}

// TestAuditTrail verifies every processed shipment leaves one envelope.
func (s *ServiceSuite) TestAuditTrail() {
	_, results := s.svc.ProcessInputToCompliance(s.ctx, RawInputData{
		Source: domain.SourceManual,
		Text:   "Tracking: AB1234567890\nTo: Jane Doe, 2 Oak Ave, Columbus",
	})

	events, err := s.auditStore.ListRecent(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(domain.SourceManual, events[0].Source)
	s.Equal(len(results), events[0].Compliant+events[0].Warnings+events[0].NonCompliant)
}

// TestRefreshRules verifies new store rules become visible after refresh.
func (s *ServiceSuite) TestRefreshRules() {
	store := rulesmemory.New()
	catalog := rules.NewCatalog(store, nil)
	s.Require().NoError(catalog.Initialize(s.ctx))
	svc := NewService(catalog, extraction.New(catalog, nil, nil, nil), extraction.NewCSV(catalog, nil),
		extraction.NewScorer(catalog, nil), compliance.NewValidator(catalog, nil, nil), nil, nil, nil, nil)

	s.Equal(0, catalog.Len())
	rulesmemory.Seed(store)
	s.Require().NoError(svc.RefreshRules(s.ctx))
	s.Equal(3, catalog.Len())
}
