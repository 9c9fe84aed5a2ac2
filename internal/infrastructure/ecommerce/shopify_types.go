package ecommerce

import (
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Product Related Types
// ---------------------------------------------------------------------------

// ShopifyProductsResponse is the response for GET /products.json
type ShopifyProductsResponse struct {
	Products []ShopifyProduct `json:"products"`
}

// ShopifyProduct represents a product with its variants
type ShopifyProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Variants []ShopifyVariant `json:"variants"`
	Images   []ShopifyImage   `json:"images,omitempty"`
	Image    *ShopifyImage    `json:"image,omitempty"`
}

// ShopifyVariant represents a sellable variant of a product
type ShopifyVariant struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Title             string `json:"title"` // option label, "Default Title" for single-variant products
	SKU               string `json:"sku,omitempty"`
	Barcode           string `json:"barcode,omitempty"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// ShopifyImage represents a product image
type ShopifyImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// ---------------------------------------------------------------------------
// Customer Related Types
// ---------------------------------------------------------------------------

// ShopifyCustomersResponse is the response for GET /customers.json and
// GET /customers/search.json
type ShopifyCustomersResponse struct {
	Customers []ShopifyCustomer `json:"customers"`
}

// ShopifyCustomerResponse is the response for POST /customers.json
type ShopifyCustomerResponse struct {
	Customer *ShopifyCustomer `json:"customer"`
}

// ShopifyCustomer represents a customer record
type ShopifyCustomer struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	DefaultAddress *ShopifyAddress `json:"default_address,omitempty"`
}

// ShopifyAddress represents a customer address
type ShopifyAddress struct {
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
}

// ShopifyCustomerRequest is the request body for POST /customers.json
type ShopifyCustomerRequest struct {
	Customer ShopifyNewCustomer `json:"customer"`
}

// ShopifyNewCustomer carries the fields sent when creating a customer
type ShopifyNewCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// ---------------------------------------------------------------------------
// Order Related Types
// ---------------------------------------------------------------------------

// ShopifyOrderRequest is the request body for POST /orders.json
type ShopifyOrderRequest struct {
	Order ShopifyNewOrder `json:"order"`
}

// ShopifyNewOrder is the order payload for an in-store sale
type ShopifyNewOrder struct {
	LineItems       []ShopifyLineItem    `json:"line_items"`
	Tags            string               `json:"tags,omitempty"`
	FinancialStatus string               `json:"financial_status"`
	Transactions    []ShopifyTransaction `json:"transactions"`
	Email           string               `json:"email,omitempty"`
	Customer        *ShopifyCustomerRef  `json:"customer,omitempty"`
	Note            string               `json:"note,omitempty"`
}

// ShopifyLineItem is one line of an order payload. VariantID is omitted for
// custom (non-catalog) lines.
type ShopifyLineItem struct {
	VariantID *int64 `json:"variant_id,omitempty"`
	Title     string `json:"title,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price,omitempty"`
}

// ShopifyTransaction records the payment captured at the counter
type ShopifyTransaction struct {
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Amount  string `json:"amount"`
	Gateway string `json:"gateway"`
}

// ShopifyCustomerRef links an order to an existing customer
type ShopifyCustomerRef struct {
	ID int64 `json:"id"`
}

// ShopifyOrderResponse is the response for POST /orders.json
type ShopifyOrderResponse struct {
	Order *ShopifyOrder `json:"order"`
}

// ShopifyOrder represents a created order
type ShopifyOrder struct {
	ID          int64  `json:"id"`
	OrderNumber int64  `json:"order_number"`
	Name        string `json:"name,omitempty"`
}

// ---------------------------------------------------------------------------
// Error Types
// ---------------------------------------------------------------------------

// ShopifyErrorResponse represents an error body from the Admin API.
// Shopify returns "errors" as a string, a list, or an object depending on
// the endpoint, so it is captured raw.
type ShopifyErrorResponse struct {
	Errors any `json:"errors,omitempty"`
}

// ParseDecimal safely parses a string to decimal
func ParseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
