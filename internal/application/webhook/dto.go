package webhook

import (
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/webhook"
)

// HandleResult reports the terminal outcome of one delivery
type HandleResult struct {
	Topic              string          `json:"topic"`
	ExternalResourceID int64           `json:"external_resource_id"`
	Outcome            webhook.Outcome `json:"outcome"`
	Detail             string          `json:"detail,omitempty"`
}

// EventResponse is one log row in query responses
type EventResponse struct {
	ID                 uuid.UUID `json:"id"`
	Topic              string    `json:"topic"`
	ExternalResourceID int64     `json:"external_resource_id"`
	Status             string    `json:"status"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// EventResponseFromDomain converts a log row to its response form
func EventResponseFromDomain(e *webhook.Event) EventResponse {
	return EventResponse{
		ID:                 e.ID,
		Topic:              e.Topic,
		ExternalResourceID: e.ExternalResourceID,
		Status:             string(e.Status),
		ErrorMessage:       e.ErrorMessage,
		CreatedAt:          e.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Delivery payloads
// ---------------------------------------------------------------------------

// productPayload is the push shape of products/create and products/update
type productPayload struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Image    *imagePayload    `json:"image"`
	Images   []imagePayload   `json:"images"`
	Variants []variantPayload `json:"variants"`
}

type imagePayload struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

type variantPayload struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Barcode           string `json:"barcode"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	ImageID           *int64 `json:"image_id"`
}

// deletePayload is the push shape of products/delete
type deletePayload struct {
	ID int64 `json:"id"`
}

// inventoryPayload is the push shape of inventory_levels/update. The
// inventory item ID maps onto the variant ID in the mirror.
type inventoryPayload struct {
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int   `json:"available"`
}

// customerPayload is the push shape of customers/create and customers/update
type customerPayload struct {
	ID        int64            `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Addresses []addressPayload `json:"addresses"`
}

type addressPayload struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// orderPayload is the push shape of the orders/* topics
type orderPayload struct {
	ID              int64             `json:"id"`
	FinancialStatus string            `json:"financial_status"`
	Tags            string            `json:"tags"`
	Gateway         string            `json:"gateway"`
	Customer        *customerRef      `json:"customer"`
	LineItems       []lineItemPayload `json:"line_items"`
}

type customerRef struct {
	ID int64 `json:"id"`
}

type lineItemPayload struct {
	VariantID *int64 `json:"variant_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}
