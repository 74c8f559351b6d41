package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shipgate/internal/audit"
	"shipgate/internal/compliance"
	"shipgate/internal/extraction"
	"shipgate/internal/platform/metrics"
	"shipgate/internal/rules"
	"shipgate/pkg/domain"
)

// RuleCacheInvalidator drops cached rule data so the next catalog load reads
// from the backing store.
type RuleCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Service is the processing facade: raw input in, formatted data and
// compliance results out. All collaborators are stateless or snapshot-based,
// so the service is safe for concurrent use.
type Service struct {
	catalog   *rules.Catalog
	extractor *extraction.Extractor
	csv       *extraction.CSVExtractor
	scorer    *extraction.Scorer
	validator *compliance.Validator
	publisher *audit.Publisher
	cache     RuleCacheInvalidator // nil when rule caching is disabled
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewService(
	catalog *rules.Catalog,
	extractor *extraction.Extractor,
	csv *extraction.CSVExtractor,
	scorer *extraction.Scorer,
	validator *compliance.Validator,
	publisher *audit.Publisher,
	cache RuleCacheInvalidator,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		catalog:   catalog,
		extractor: extractor,
		csv:       csv,
		scorer:    scorer,
		validator: validator,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		metrics:   m,
	}
}

// ConvertToStandardFormat turns raw input into a FormattedData. Structured
// fields win over text; CSV input falls back to free-text extraction when it
// does not parse. Conversion never fails: unusable input yields an empty
// field map with floor confidence.
func (s *Service) ConvertToStandardFormat(ctx context.Context, input RawInputData) compliance.FormattedData {
	s.catalog.EnsureCommonFieldRules()

	source := input.Source
	if !source.IsValid() {
		source = domain.SourceVision
	}

	var res extraction.Result
	switch {
	case len(input.Fields) > 0:
		res = s.extractor.NormalizeStructured(input.Fields)
	case source == domain.SourceCSV:
		fields := s.csv.ParseCSV(input.Text)
		if len(fields) == 0 {
			res = s.extractor.ExtractStructuredData(ctx, input.Text)
			res.Warnings = append(res.Warnings, "input did not parse as CSV; fell back to free-text extraction")
		} else {
			res = extraction.Result{Fields: fields, Strategy: "csv"}
		}
	default:
		res = s.extractor.ExtractStructuredData(ctx, input.Text)
	}

	// Unknown keys are kept, but the caller should hear about them before
	// validation synthesizes temporary rules.
	for _, key := range sortedKeys(res.Fields) {
		if _, ok := s.catalog.RuleByFieldKey(key); !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("no validation rule defined for field %q; a temporary rule will be applied", key))
		}
	}

	confidence := s.scorer.Score(res.Fields, input.Text, source)
	confidence = blendExternalConfidence(confidence, input.Metadata)

	fd := compliance.FormattedData{
		ID:      uuid.NewString(),
		Fields:  res.Fields,
		RawText: input.Text,
		Metadata: compliance.ProcessingMetadata{
			Confidence: confidence,
			Source:     source,
			Timestamp:  time.Now().UTC(),
			Warnings:   res.Warnings,
		},
	}
	s.metrics.IncShipmentsProcessed(source.String())
	if s.logger != nil {
		s.logger.InfoContext(ctx, "input converted",
			"id", fd.ID,
			"source", source.String(),
			"strategy", res.Strategy,
			"fields", len(res.Fields),
			"confidence", confidence,
		)
	}
	return fd
}

// ValidateCompliance runs the full rule and shipment-level validation over
// already-formatted data.
func (s *Service) ValidateCompliance(ctx context.Context, fd compliance.FormattedData) []compliance.Result {
	s.catalog.EnsureCommonFieldRules()
	return s.validator.ValidateCompliance(ctx, fd)
}

// ProcessInputToCompliance is the one-shot path: convert, validate, audit.
func (s *Service) ProcessInputToCompliance(ctx context.Context, input RawInputData) (compliance.FormattedData, []compliance.Result) {
	fd := s.ConvertToStandardFormat(ctx, input)
	results := s.validator.ValidateCompliance(ctx, fd)
	s.emitAudit(ctx, fd, results)
	return fd, results
}

// RefreshRules re-pulls the rule catalog from its store and invalidates any
// rule cache layer. On failure the previous catalog stays in effect.
func (s *Service) RefreshRules(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "rule cache invalidation failed", "error", err)
		}
	}
	if err := s.catalog.Refresh(ctx); err != nil {
		s.metrics.IncRuleRefreshes("error")
		return err
	}
	s.metrics.IncRuleRefreshes("ok")
	return nil
}

func (s *Service) emitAudit(ctx context.Context, fd compliance.FormattedData, results []compliance.Result) {
	if s.publisher == nil {
		return
	}
	event := audit.Event{
		ID:         fd.ID,
		Timestamp:  fd.Metadata.Timestamp,
		Source:     fd.Metadata.Source,
		FieldCount: len(fd.Fields),
		Confidence: fd.Metadata.Confidence,
	}
	for _, r := range results {
		switch r.Status {
		case compliance.StatusCompliant:
			event.Compliant++
		case compliance.StatusWarning:
			event.Warnings++
		case compliance.StatusNonCompliant:
			event.NonCompliant++
		}
	}
	s.publisher.Emit(ctx, event)
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// blendExternalConfidence averages in a caller-supplied confidence hint (for
// example from an upstream OCR stage) when it parses to a value in [0,1].
func blendExternalConfidence(confidence float64, metadata map[string]string) float64 {
	raw, ok := metadata["confidence"]
	if !ok {
		return confidence
	}
	external, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || external < 0 || external > 1 {
		return confidence
	}
	return (confidence + external) / 2
}
