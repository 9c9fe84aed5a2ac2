package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/sales"
)

// CartItemInput is one cart entry as submitted by the POS client. An entry
// with a barcode is resolved against the mirrored catalog; an entry without
// one is a custom line and must carry its own title and price.
type CartItemInput struct {
	Barcode  string           `json:"barcode"`
	Title    string           `json:"title"`
	Size     string           `json:"size"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity" binding:"required,gt=0"`
}

// NewCustomerInput is an inline customer to create on the store as part of
// a commit
type NewCustomerInput struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=30"`
}

// CreateCartOrderCommand commits a full cart as one order
type CreateCartOrderCommand struct {
	Items          []CartItemInput   `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	CustomerEmail  string            `json:"customer_email"`
	NewCustomer    *NewCustomerInput `json:"new_customer"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountReason string            `json:"discount_reason"`
}

// CreateManualOrderCommand commits a single off-catalog line as one order
type CreateManualOrderCommand struct {
	Title          string            `json:"title" binding:"required,min=1,max=255"`
	Size           string            `json:"size"`
	Price          decimal.Decimal   `json:"price" binding:"required"`
	Quantity       int               `json:"quantity" binding:"required,gt=0"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	CustomerEmail  string            `json:"customer_email"`
	NewCustomer    *NewCustomerInput `json:"new_customer"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountReason string            `json:"discount_reason"`
}

// CommittedLine is one persisted order line in a commit response
type CommittedLine struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CommitResult is the success payload of a cart or manual commit
type CommitResult struct {
	ExternalOrderID int64           `json:"external_order_id"`
	OrderNumber     string          `json:"order_number"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	FinalAmount     decimal.Decimal `json:"final_amount"`
	PaymentMethod   string          `json:"payment_method"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CommittedAt     time.Time       `json:"committed_at"`
	Lines           []CommittedLine `json:"lines"`
	ReceiptURL      string          `json:"receipt_url,omitempty"`
}

// OrderLineResponse is one order line in query responses
type OrderLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ExternalOrderID int64           `json:"external_order_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	Barcode         string          `json:"barcode,omitempty"`
	Title           string          `json:"title"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderLineResponseFromDomain converts a domain order line to its response form
func OrderLineResponseFromDomain(line *sales.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:              line.ID,
		ExternalOrderID: line.ExternalOrderID,
		CustomerID:      line.CustomerID,
		ProductID:       line.ProductID,
		Barcode:         line.Barcode,
		Title:           line.Title,
		Quantity:        line.Quantity,
		UnitPrice:       line.UnitPrice,
		LineTotal:       line.Total(),
		PaymentMethod:   string(line.PaymentMethod),
		Status:          string(line.Status),
		CreatedAt:       line.CreatedAt,
	}
}
