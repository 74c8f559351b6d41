package domain

import "errors"

// Source is a domain value that identifies where raw shipment input came from.
// Invariant: the value must be one of the supported input sources.
//
// Usage: construct via ParseSource at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type Source string

// Supported input sources.
const (
	SourceVision Source = "vision"
	SourceCSV    Source = "csv"
	SourceManual Source = "manual"
)

// validSources is the single source of truth for valid input sources.
var validSources = map[Source]bool{
	SourceVision: true,
	SourceCSV:    true,
	SourceManual: true,
}

// ParseSource constructs a Source from external input.
func ParseSource(s string) (Source, error) {
	if s == "" {
		return "", errors.New("source cannot be empty")
	}
	src := Source(s)
	if !src.IsValid() {
		return "", errors.New("invalid source")
	}
	return src, nil
}

// IsValid checks if the source is one of the supported enum values.
func (s Source) IsValid() bool {
	return validSources[s]
}

// String returns the string representation of the source.
func (s Source) String() string {
	return string(s)
}
