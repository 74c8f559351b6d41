package audit

import (
	"context"
	"time"

	"shipgate/pkg/domain"
)

// Event is the audit envelope for one processed shipment. It carries counts
// and scores only, never the extracted field values, so the trail can be
// retained without holding shipment PII.
type Event struct {
	ID           string        `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	Source       domain.Source `json:"source"`
	FieldCount   int           `json:"fieldCount"`
	Confidence   float64       `json:"confidence"`
	Compliant    int           `json:"compliant"`
	Warnings     int           `json:"warnings"`
	NonCompliant int           `json:"nonCompliant"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
