package sales

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was settled at the counter
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodPOS  PaymentMethod = "pos"
)

// ParsePaymentMethod validates a raw payment method value
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(raw) {
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	case PaymentMethodPOS:
		return PaymentMethodPOS, nil
	default:
		return "", shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be 'cash' or 'pos'")
	}
}

// LineStatus is the settlement state of an order line
type LineStatus string

const (
	LineStatusCompleted LineStatus = "completed"
	LineStatusPaid      LineStatus = "paid"
	LineStatusCancelled LineStatus = "cancelled"
)

// ParseLineStatus validates a raw line status value
func ParseLineStatus(raw string) (LineStatus, error) {
	switch LineStatus(raw) {
	case LineStatusCompleted, LineStatusPaid, LineStatusCancelled:
		return LineStatus(raw), nil
	default:
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown order line status: "+raw)
	}
}

// OrderLine is one priced item of a committed transaction. Every line of
// one transaction shares the same external order ID; the set of lines sums
// to the order's pre-discount subtotal. UnitPrice is the price captured at
// commit time and is never re-read from the catalog.
type OrderLine struct {
	shared.BaseEntity
	ExternalOrderID int64
	CustomerID      *uuid.UUID
	ProductID       *uuid.UUID
	Barcode         string
	Title           string
	Quantity        int
	UnitPrice       decimal.Decimal
	PaymentMethod   PaymentMethod
	Status          LineStatus
}

// NewOrderLine creates a committed order line
func NewOrderLine(externalOrderID int64, title string, quantity int, unitPrice decimal.Decimal, paymentMethod PaymentMethod) (*OrderLine, error) {
	if externalOrderID <= 0 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External order ID must be positive")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Order line title cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderLine{
		BaseEntity:      shared.NewBaseEntity(),
		ExternalOrderID: externalOrderID,
		Title:           title,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		PaymentMethod:   paymentMethod,
		Status:          LineStatusCompleted,
	}, nil
}

// Total returns quantity times the captured unit price
func (l *OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AttachProduct links the line to the resolved catalog variant
func (l *OrderLine) AttachProduct(productID uuid.UUID, barcode string) {
	id := productID
	l.ProductID = &id
	l.Barcode = barcode
}

// AttachCustomer links the line to the resolved customer
func (l *OrderLine) AttachCustomer(customerID uuid.UUID) {
	id := customerID
	l.CustomerID = &id
}
