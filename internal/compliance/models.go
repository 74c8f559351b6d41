package compliance

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"shipgate/pkg/domain"
)

// Status is the verdict for one compliance result row.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusWarning      Status = "warning"
	StatusNonCompliant Status = "non-compliant"
)

// ProcessingMetadata records how a field map came to be.
type ProcessingMetadata struct {
	Confidence float64       `json:"confidence"`
	Source     domain.Source `json:"source"`
	Timestamp  time.Time     `json:"timestamp"`
	Warnings   []string      `json:"warnings,omitempty"`
}

// FormattedData is one normalized extraction result. It is a value object
// created fresh per request; the engine holds no reference to it afterward.
type FormattedData struct {
	ID       string             `json:"id"`
	Fields   map[string]string  `json:"fields"`
	RawText  string             `json:"rawText,omitempty"`
	Metadata ProcessingMetadata `json:"processingMetadata"`
}

// Result is one compliance verdict: per-field, or a synthetic aggregate row
// for shipment-level findings.
type Result struct {
	ID      string `json:"id"`
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// resultID derives a deterministic identifier from the parent FormattedData
// ID and a field (or synthetic) key, so re-validating the same data yields
// the same row IDs.
func resultID(dataID, key string) string {
	sum := sha256.Sum256([]byte(dataID + ":" + key))
	return hex.EncodeToString(sum[:8])
}
