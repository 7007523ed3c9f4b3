package source

import (
	"context"
	"time"
)

// Source is one configured calendar source. Immutable for a session.
type Source struct {
	// ID is the unique entity identifier, e.g. "calendar.family" or a
	// Google calendar id.
	ID    string
	Name  string
	Color string
}

// DisplayName is what failure reports and the legend show for the source.
func (s Source) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// RawEvent is one event record exactly as a backend returned it. Field
// shapes vary by backend; only the normalizer looks inside.
type RawEvent map[string]any

// Client fetches raw events for one source over a half-open time range.
// A failed fetch is a partial failure for that source only.
type Client interface {
	Events(ctx context.Context, sourceID string, from, to time.Time) ([]RawEvent, error)
}
