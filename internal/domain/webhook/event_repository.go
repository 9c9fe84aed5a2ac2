package webhook

import "context"

// Stats aggregates the event log by status and topic
type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByTopic  map[string]int64 `json:"by_topic"`
}

// EventRepository defines the persistence contract for the append-only
// webhook event log
type EventRepository interface {
	Append(ctx context.Context, event *Event) error
	// FindRecent returns the newest events first, optionally filtered by
	// topic and/or status (empty string means no filter).
	FindRecent(ctx context.Context, limit int, topic, status string) ([]Event, error)
	Stats(ctx context.Context) (*Stats, error)
}
