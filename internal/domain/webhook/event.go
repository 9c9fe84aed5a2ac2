package webhook

import (
	"github.com/pos/backend/internal/domain/shared"
)

// Topic identifies the resource/action pair a delivery reports
type Topic string

const (
	TopicProductsCreate   Topic = "products/create"
	TopicProductsUpdate   Topic = "products/update"
	TopicProductsDelete   Topic = "products/delete"
	TopicInventoryUpdate  Topic = "inventory_levels/update"
	TopicCustomersCreate  Topic = "customers/create"
	TopicCustomersUpdate  Topic = "customers/update"
	TopicOrdersCreate     Topic = "orders/create"
	TopicOrdersPaid       Topic = "orders/paid"
	TopicOrdersCancelled  Topic = "orders/cancelled"
)

// Outcome is the terminal state of one delivery. A delivery is never
// retried internally; redelivery by the platform is a fresh event.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Event is one append-only log row. Exactly one row is written per
// received delivery regardless of processing outcome, and a row is never
// updated after insertion.
type Event struct {
	shared.BaseEntity
	Topic              string
	ExternalResourceID int64
	Payload            string
	Status             Outcome
	ErrorMessage       string
}

// NewEvent creates a log row for a received delivery
func NewEvent(topic string, externalResourceID int64, payload string, status Outcome, errorMessage string) *Event {
	return &Event{
		BaseEntity:         shared.NewBaseEntity(),
		Topic:              topic,
		ExternalResourceID: externalResourceID,
		Payload:            payload,
		Status:             status,
		ErrorMessage:       errorMessage,
	}
}
