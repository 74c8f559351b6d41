package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"shipgate/internal/platform/config"
)

// TextTransformer is the AI extraction collaborator: it turns raw text into a
// best-effort canonical field map. Implementations may fail in any way —
// transport errors, malformed replies, empty output — and the cascade absorbs
// every failure as a skipped strategy.
type TextTransformer interface {
	TransformText(ctx context.Context, text string, fieldDescriptions []string) (map[string]string, error)
}

// GeminiTransformer implements TextTransformer against the Gemini API.
type GeminiTransformer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiTransformer builds a Gemini-backed transformer. Returns an error
// when no API key is configured; callers treat a nil transformer as "LLM tier
// disabled".
func NewGeminiTransformer(ctx context.Context, cfg config.LLMConfig) (*GeminiTransformer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GeminiTransformer{client: client, model: cfg.Model, timeout: timeout}, nil
}

// TransformText asks the model to map raw shipment text onto known field
// keys. The call is bounded by the configured timeout.
func (g *GeminiTransformer) TransformText(ctx context.Context, text string, fieldDescriptions []string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := buildExtractionPrompt(text, fieldDescriptions)
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	reply := result.Text()
	if strings.TrimSpace(reply) == "" {
		return nil, errors.New("gemini returned an empty reply")
	}
	return parseModelJSON(reply)
}

func buildExtractionPrompt(text string, fieldDescriptions []string) string {
	var b strings.Builder
	b.WriteString("Extract shipment data fields from the text below.\n")
	b.WriteString("Return ONLY a flat JSON object. Use these field keys when the data is present; ")
	b.WriteString("omit keys with no value. Do not invent values.\n\nKnown fields:\n")
	for _, d := range fieldDescriptions {
		b.WriteString("- ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	b.WriteString("\nText:\n")
	b.WriteString(text)
	return b.String()
}

// parseModelJSON extracts a JSON object from a model reply that may be
// fenced in code markers or wrapped in prose.
func parseModelJSON(reply string) (map[string]string, error) {
	cleaned := strings.TrimSpace(reply)
	if idx := strings.Index(cleaned, "```"); idx >= 0 {
		cleaned = cleaned[idx+3:]
		cleaned = strings.TrimPrefix(cleaned, "json")
		if end := strings.Index(cleaned, "```"); end >= 0 {
			cleaned = cleaned[:end]
		}
	}
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in model reply")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("parse model JSON: %w", err)
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		key := StandardizeFieldKey(k)
		if key == "" || v == nil {
			continue
		}
		value := stringifyJSONValue(v)
		if value != "" {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return nil, errors.New("model reply contained no usable fields")
	}
	return fields, nil
}
