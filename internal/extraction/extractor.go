package extraction

import (
	"context"
	"log/slog"
	"strings"

	"shipgate/internal/extraction/metrics"
	"shipgate/internal/rules"
)

// Result is one extraction outcome: the canonical field map, the strategy
// that produced it, and any warnings accumulated on the way.
type Result struct {
	Fields   map[string]string
	Strategy string
	Warnings []string
}

// Extractor turns raw free text into a canonical field map through a
// prioritized strategy cascade. It is stateless across calls; the shared rule
// catalog is read through immutable snapshots.
type Extractor struct {
	catalog *rules.Catalog
	llm     TextTransformer // nil disables the LLM tier
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs an extractor. llm may be nil; logger and metrics may be nil
// in tests.
func New(catalog *rules.Catalog, llm TextTransformer, logger *slog.Logger, m *metrics.Metrics) *Extractor {
	return &Extractor{catalog: catalog, llm: llm, logger: logger, metrics: m}
}

// ExtractStructuredData runs the full cascade over raw text. Strategies run
// in strict order and the first non-empty result wins; address-block and
// unlabeled-value sweeps then run as additive post-processors, and the
// name/address split plus synonym normalization always close the pass.
// Extraction never fails: unusable input produces an empty field map.
func (e *Extractor) ExtractStructuredData(ctx context.Context, text string) Result {
	strategies := []Strategy{
		{Name: "json", Extract: jsonStrategy},
	}
	if e.llm != nil {
		strategies = append(strategies, e.llmStrategy())
	}
	strategies = append(strategies,
		Strategy{Name: "keyValue", Extract: keyValueLineStrategy},
		Strategy{Name: "regex", Extract: regexSweepStrategy},
	)

	fields, winner, warnings := runCascade(ctx, text, strategies)

	applyAddressBlocks(text, fields)
	applyUnlabeledSweep(text, fields)
	ExtractNameAndAddressComponents(fields)
	NormalizeFieldNames(fields)

	e.metrics.ObserveExtraction(winner)
	if e.logger != nil {
		e.logger.DebugContext(ctx, "extraction complete",
			"strategy", winner,
			"fields", len(fields),
			"warnings", len(warnings),
		)
	}
	return Result{Fields: fields, Strategy: winner, Warnings: warnings}
}

// NormalizeStructured canonicalizes an already-structured key/value map
// (manual entry). Keys are standardized, then the same final pass applies as
// for free text.
func (e *Extractor) NormalizeStructured(raw map[string]string) Result {
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		key := StandardizeFieldKey(k)
		value := strings.TrimSpace(v)
		if key == "" || value == "" {
			continue
		}
		if _, ok := fields[key]; ok {
			continue
		}
		fields[key] = value
	}
	ExtractNameAndAddressComponents(fields)
	NormalizeFieldNames(fields)
	e.metrics.ObserveExtraction("structured")
	return Result{Fields: fields, Strategy: "structured"}
}

// llmStrategy wraps the AI collaborator as a cascade strategy. Every failure
// mode — transport error, timeout, malformed or empty reply — is absorbed
// into a warning so it can never surface as a request failure.
func (e *Extractor) llmStrategy() Strategy {
	return Strategy{
		Name: "llm",
		Extract: func(ctx context.Context, text string) (map[string]string, []string) {
			fields, err := e.llm.TransformText(ctx, text, e.catalog.FieldDescriptions())
			if err != nil {
				if e.logger != nil {
					e.logger.WarnContext(ctx, "llm extraction failed, falling back", "error", err)
				}
				return nil, []string{"llm extraction failed: " + err.Error()}
			}
			return fields, nil
		},
	}
}
