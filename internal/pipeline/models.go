package pipeline

import "shipgate/pkg/domain"

// RawInputData is the single entry shape for all ingestion paths. Exactly one
// of Text and Fields is normally set; when both are present, Fields wins and
// Text is kept as raw context.
type RawInputData struct {
	Source   domain.Source     `json:"source"`
	Text     string            `json:"text,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
