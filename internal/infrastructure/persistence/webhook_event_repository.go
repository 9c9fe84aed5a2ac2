package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/webhook"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormWebhookEventRepository implements EventRepository using GORM
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewGormWebhookEventRepository creates a new GormWebhookEventRepository
func NewGormWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// Append writes one log row. Rows are never updated after insertion.
func (r *GormWebhookEventRepository) Append(ctx context.Context, event *webhook.Event) error {
	model := models.WebhookEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecent returns the newest events first, optionally filtered by topic
// and/or status.
func (r *GormWebhookEventRepository) FindRecent(ctx context.Context, limit int, topic, status string) ([]webhook.Event, error) {
	if limit <= 0 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&models.WebhookEventModel{})
	if topic != "" {
		q = q.Where("topic = ?", topic)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var eventModels []models.WebhookEventModel
	if err := q.Order("created_at DESC").Limit(limit).Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]webhook.Event, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Stats aggregates the event log by status and by topic
func (r *GormWebhookEventRepository) Stats(ctx context.Context) (*webhook.Stats, error) {
	stats := &webhook.Stats{
		ByStatus: make(map[string]int64),
		ByTopic:  make(map[string]int64),
	}

	if err := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	if err := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byTopic []bucket
	if err := r.db.WithContext(ctx).
		Model(&models.WebhookEventModel{}).
		Select("topic AS key, COUNT(*) AS count").
		Group("topic").
		Scan(&byTopic).Error; err != nil {
		return nil, err
	}
	for _, b := range byTopic {
		stats.ByTopic[b.Key] = b.Count
	}

	return stats, nil
}

// Ensure GormWebhookEventRepository implements EventRepository
var _ webhook.EventRepository = (*GormWebhookEventRepository)(nil)
