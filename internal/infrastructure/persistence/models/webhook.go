package models

import (
	"github.com/pos/backend/internal/domain/webhook"
)

// WebhookEventModel is the persistence model for the append-only webhook
// event log.
type WebhookEventModel struct {
	BaseModel
	Topic              string `gorm:"type:varchar(100);not null;index"`
	ExternalResourceID int64  `gorm:"index"`
	Payload            string `gorm:"type:text"`
	Status             string `gorm:"type:varchar(20);not null;index"`
	ErrorMessage       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WebhookEventModel) TableName() string {
	return "webhook_events"
}

// ToDomain converts the persistence model to a domain Event entity.
func (m *WebhookEventModel) ToDomain() *webhook.Event {
	return &webhook.Event{
		BaseEntity:         m.BaseModel.ToDomain(),
		Topic:              m.Topic,
		ExternalResourceID: m.ExternalResourceID,
		Payload:            m.Payload,
		Status:             webhook.Outcome(m.Status),
		ErrorMessage:       m.ErrorMessage,
	}
}

// FromDomain populates the persistence model from a domain Event entity.
func (m *WebhookEventModel) FromDomain(e *webhook.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Topic = e.Topic
	m.ExternalResourceID = e.ExternalResourceID
	m.Payload = e.Payload
	m.Status = string(e.Status)
	m.ErrorMessage = e.ErrorMessage
}

// WebhookEventModelFromDomain creates a new persistence model from a domain Event entity.
func WebhookEventModelFromDomain(e *webhook.Event) *WebhookEventModel {
	m := &WebhookEventModel{}
	m.FromDomain(e)
	return m
}
