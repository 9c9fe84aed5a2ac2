package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pos/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// pageLimit is the per-page size requested from list endpoints, the Admin
// API maximum.
const pageLimit = 250

// ShopifyAdapter implements the StorePlatform interface against the Shopify
// REST Admin API.
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig) (*ShopifyAdapter, error) {
	if config == nil {
		return nil, integration.ErrPlatformNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// ListProducts fetches one page of products and flattens them to variants.
// An empty pageURL starts from the first page; the returned URL comes from
// the Link response header and is empty on the last page.
func (a *ShopifyAdapter) ListProducts(ctx context.Context, pageURL string) ([]integration.RemoteVariant, string, error) {
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/products.json?limit=%d", a.config.BaseURL(), pageLimit)
	}

	body, next, err := a.doGet(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}

	var resp ShopifyProductsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	variants := make([]integration.RemoteVariant, 0, len(resp.Products))
	for _, product := range resp.Products {
		for _, v := range product.Variants {
			variants = append(variants, convertShopifyVariant(&product, &v))
		}
	}

	return variants, next, nil
}

// convertShopifyVariant maps a product/variant pair to a RemoteVariant
func convertShopifyVariant(product *ShopifyProduct, v *ShopifyVariant) integration.RemoteVariant {
	rv := integration.RemoteVariant{
		VariantID:         v.ID,
		ProductID:         product.ID,
		Title:             product.Title,
		SKU:               v.SKU,
		Barcode:           v.Barcode,
		Price:             ParseDecimal(v.Price),
		InventoryQuantity: v.InventoryQuantity,
	}

	// "Default Title" is Shopify's placeholder for single-variant products
	if v.Title != "" && v.Title != "Default Title" {
		rv.VariantLabel = v.Title
	}

	if product.Image != nil {
		rv.ImageURL = product.Image.Src
	} else if len(product.Images) > 0 {
		rv.ImageURL = product.Images[0].Src
	}

	return rv
}

// ---------------------------------------------------------------------------
// Customer Operations
// ---------------------------------------------------------------------------

// ListCustomers fetches one page of customers, paginated like ListProducts.
func (a *ShopifyAdapter) ListCustomers(ctx context.Context, pageURL string) ([]integration.RemoteCustomer, string, error) {
	if pageURL == "" {
		pageURL = fmt.Sprintf("%s/customers.json?limit=%d", a.config.BaseURL(), pageLimit)
	}

	body, next, err := a.doGet(ctx, pageURL)
	if err != nil {
		return nil, "", err
	}

	var resp ShopifyCustomersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	customers := make([]integration.RemoteCustomer, 0, len(resp.Customers))
	for _, c := range resp.Customers {
		customers = append(customers, convertShopifyCustomer(&c))
	}

	return customers, next, nil
}

// FindCustomerByEmail looks a customer up via the customer search endpoint.
// Returns (nil, nil) when no customer has that exact email.
func (a *ShopifyAdapter) FindCustomerByEmail(ctx context.Context, email string) (*integration.RemoteCustomer, error) {
	query := url.Values{}
	query.Set("query", "email:"+email)
	searchURL := fmt.Sprintf("%s/customers/search.json?%s", a.config.BaseURL(), query.Encode())

	body, _, err := a.doGet(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var resp ShopifyCustomersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	// Search matches loosely; require an exact email match
	for _, c := range resp.Customers {
		if strings.EqualFold(c.Email, email) {
			rc := convertShopifyCustomer(&c)
			return &rc, nil
		}
	}
	return nil, nil
}

// CreateCustomer creates a customer on the store and returns the created record
func (a *ShopifyAdapter) CreateCustomer(ctx context.Context, c integration.NewCustomer) (*integration.RemoteCustomer, error) {
	payload := ShopifyCustomerRequest{
		Customer: ShopifyNewCustomer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
		},
	}

	body, err := a.doRequest(ctx, http.MethodPost, a.config.BaseURL()+"/customers.json", payload)
	if err != nil {
		return nil, err
	}

	var resp ShopifyCustomerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if resp.Customer == nil {
		return nil, fmt.Errorf("%w: missing customer in response", integration.ErrPlatformInvalidResponse)
	}

	rc := convertShopifyCustomer(resp.Customer)
	return &rc, nil
}

// convertShopifyCustomer maps a wire customer to a RemoteCustomer
func convertShopifyCustomer(c *ShopifyCustomer) integration.RemoteCustomer {
	rc := integration.RemoteCustomer{
		CustomerID: c.ID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      c.Email,
		Phone:      c.Phone,
	}
	if c.DefaultAddress != nil {
		rc.Address = c.DefaultAddress.Address1
		rc.City = c.DefaultAddress.City
		rc.Country = c.DefaultAddress.Country
	}
	return rc
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// CreateOrder commits a paid in-store sale on the store. The discount, when
// present, is carried as a negative "Discount" line so the order total
// matches the amount collected at the counter.
func (a *ShopifyAdapter) CreateOrder(ctx context.Context, req integration.OrderRequest) (*integration.OrderResult, error) {
	lines := make([]ShopifyLineItem, 0, len(req.Lines)+1)
	for _, line := range req.Lines {
		lines = append(lines, ShopifyLineItem{
			VariantID: line.VariantID,
			Title:     line.Title,
			Quantity:  line.Quantity,
			Price:     line.Price.StringFixed(2),
		})
	}

	order := ShopifyNewOrder{
		LineItems:       lines,
		Tags:            strings.Join(req.Tags, ", "),
		FinancialStatus: "paid",
		Transactions: []ShopifyTransaction{{
			Kind:    "sale",
			Status:  "success",
			Amount:  req.FinalAmount.StringFixed(2),
			Gateway: req.Gateway,
		}},
		Note: req.Note,
	}

	if req.Email != "" {
		order.Email = req.Email
	}
	if req.CustomerID != nil {
		order.Customer = &ShopifyCustomerRef{ID: *req.CustomerID}
	}

	if req.Discount.IsPositive() {
		order.LineItems = append(order.LineItems, ShopifyLineItem{
			Title:    "Discount",
			Quantity: 1,
			Price:    req.Discount.Neg().StringFixed(2),
		})
	}

	body, err := a.doRequest(ctx, http.MethodPost, a.config.BaseURL()+"/orders.json", ShopifyOrderRequest{Order: order})
	if err != nil {
		return nil, err
	}

	var resp ShopifyOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if resp.Order == nil {
		return nil, fmt.Errorf("%w: missing order in response", integration.ErrPlatformInvalidResponse)
	}

	return &integration.OrderResult{
		OrderID:     resp.Order.ID,
		OrderNumber: strconv.FormatInt(resp.Order.OrderNumber, 10),
	}, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// doGet performs a GET request and also returns the next-page URL parsed
// from the Link response header, empty when there is no next page.
func (a *ShopifyAdapter) doGet(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, "", fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, "", err
	}

	return body, parseNextPageURL(resp.Header.Get("Link")), nil
}

// doRequest performs a request with a JSON body
func (a *ShopifyAdapter) doRequest(ctx context.Context, method, rawURL string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}

// checkStatus maps HTTP error statuses to platform sentinel errors
func checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformAuthFailed, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformUnavailable, status)
	case status >= 400:
		var errResp ShopifyErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Errors != nil {
			return fmt.Errorf("%w: HTTP %d: %v", integration.ErrPlatformRequestFailed, status, errResp.Errors)
		}
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, status)
	}
	return nil
}

// parseNextPageURL extracts the rel="next" URL from a Link response header.
// The header carries comma-separated entries like <url>; rel="next".
func parseNextPageURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		segment := strings.SplitN(part, ";", 2)[0]
		return strings.Trim(strings.TrimSpace(segment), "<>")
	}
	return ""
}

// Ensure ShopifyAdapter implements StorePlatform interface
var _ integration.StorePlatform = (*ShopifyAdapter)(nil)
