package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentBucket aggregates orders and revenue settled by one payment method
type PaymentBucket struct {
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct is one title's aggregate in the sales ranking
type TopProduct struct {
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesReport aggregates the order lines of one date range
type SalesReport struct {
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	TotalOrders     int                      `json:"total_orders"`
	TotalLines      int                      `json:"total_lines"`
	TotalItems      int                      `json:"total_items"`
	CancelledLines  int                      `json:"cancelled_lines"`
	Revenue         decimal.Decimal          `json:"revenue"`
	ByPaymentMethod map[string]PaymentBucket `json:"by_payment_method"`
	TopProducts     []TopProduct             `json:"top_products"`
}
