package integration

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// StorePlatform Errors
// ---------------------------------------------------------------------------

var (
	// ErrPlatformNotConfigured indicates the store credentials are missing
	ErrPlatformNotConfigured = errors.New("integration: platform not configured")
	// ErrPlatformUnavailable indicates the store could not be reached
	ErrPlatformUnavailable = errors.New("integration: platform temporarily unavailable")
	// ErrPlatformRequestFailed indicates the store rejected the request
	ErrPlatformRequestFailed = errors.New("integration: platform request failed")
	// ErrPlatformInvalidResponse indicates the store returned an unparseable body
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	// ErrPlatformAuthFailed indicates the access token was rejected
	ErrPlatformAuthFailed = errors.New("integration: platform authentication failed")
	// ErrPlatformRateLimited indicates the store throttled the request
	ErrPlatformRateLimited = errors.New("integration: platform rate limited")
)

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// RemoteVariant represents a single sellable variant as the store reports it.
// VariantID is the unit of identity for the local mirror; ProductID groups
// variants belonging to the same product.
type RemoteVariant struct {
	// VariantID is the variant's ID on the store
	VariantID int64
	// ProductID is the parent product's ID on the store
	ProductID int64
	// Title is the parent product's title
	Title string
	// SKU is the merchant-assigned stock keeping unit
	SKU string
	// Barcode is the scannable code, empty when the merchant never set one
	Barcode string
	// Price is the current selling price
	Price decimal.Decimal
	// InventoryQuantity is the store's available quantity
	InventoryQuantity int
	// VariantLabel is the variant option label (e.g. size), empty for the default variant
	VariantLabel string
	// ImageURL is the parent product's primary image, if any
	ImageURL string
}

// RemoteCustomer represents a customer record as the store reports it.
type RemoteCustomer struct {
	// CustomerID is the customer's ID on the store
	CustomerID int64
	// FirstName is the customer's first name
	FirstName string
	// LastName is the customer's last name
	LastName string
	// Email is the customer's email address
	Email string
	// Phone is the customer's phone number
	Phone string
	// Address is the street line of the default address
	Address string
	// City is the city of the default address
	City string
	// Country is the country of the default address
	Country string
}

// NewCustomer carries the fields needed to create a customer on the store.
type NewCustomer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// OrderLineRequest is one line of an order to be committed upstream.
// VariantID is nil for custom (non-catalog) lines, which are sent as
// free-form line items priced at Price.
type OrderLineRequest struct {
	VariantID *int64
	Title     string
	Price     decimal.Decimal
	Quantity  int
}

// OrderRequest describes an in-store sale to be committed on the store.
type OrderRequest struct {
	// Lines are the priced order lines, in cart order
	Lines []OrderLineRequest
	// Email is the buyer email attached to the order, if any
	Email string
	// CustomerID links the order to a store customer, if known
	CustomerID *int64
	// FinalAmount is the amount actually collected, after discount
	FinalAmount decimal.Decimal
	// Discount is the amount subtracted from the line subtotal, zero when none
	Discount decimal.Decimal
	// DiscountReason is the free-text reason recorded with a discount
	DiscountReason string
	// Gateway is the payment gateway recorded on the sale transaction
	Gateway string
	// Tags are the order tags, joined comma-separated on the wire
	Tags []string
	// Note is the free-text order note, if any
	Note string
}

// OrderResult identifies the order the store created.
type OrderResult struct {
	// OrderID is the order's ID on the store
	OrderID int64
	// OrderNumber is the human-facing order number
	OrderNumber string
}

// ---------------------------------------------------------------------------
// Port
// ---------------------------------------------------------------------------

// StorePlatform is the port to the upstream e-commerce store. Implementations
// live in the infrastructure layer and are expected to wrap transport
// failures in the sentinel errors above.
type StorePlatform interface {
	// ListProducts fetches one page of variants. pageURL is empty for the
	// first page; the returned next URL is empty on the last page.
	ListProducts(ctx context.Context, pageURL string) ([]RemoteVariant, string, error)

	// ListCustomers fetches one page of customers, paginated like ListProducts.
	ListCustomers(ctx context.Context, pageURL string) ([]RemoteCustomer, string, error)

	// FindCustomerByEmail looks a customer up by exact email.
	// Returns (nil, nil) when no customer matches.
	FindCustomerByEmail(ctx context.Context, email string) (*RemoteCustomer, error)

	// CreateCustomer creates a customer on the store and returns the created record.
	CreateCustomer(ctx context.Context, c NewCustomer) (*RemoteCustomer, error)

	// CreateOrder commits a paid in-store sale on the store.
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}
