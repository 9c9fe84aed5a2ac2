package webhook

import (
	"context"

	"github.com/pos/backend/internal/domain/webhook"
)

// LogQueryService serves read-only views over the delivery log
type LogQueryService struct {
	eventRepo webhook.EventRepository
}

// NewLogQueryService creates a new LogQueryService
func NewLogQueryService(eventRepo webhook.EventRepository) *LogQueryService {
	return &LogQueryService{eventRepo: eventRepo}
}

// Recent returns the newest log rows, optionally filtered by topic and
// status. limit falls back to the repository default when non-positive.
func (s *LogQueryService) Recent(ctx context.Context, limit int, topic, status string) ([]EventResponse, error) {
	events, err := s.eventRepo.FindRecent(ctx, limit, topic, status)
	if err != nil {
		return nil, err
	}
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, EventResponseFromDomain(&events[i]))
	}
	return responses, nil
}

// Stats returns delivery counts grouped by status and topic
func (s *LogQueryService) Stats(ctx context.Context) (*webhook.Stats, error) {
	return s.eventRepo.Stats(ctx)
}
