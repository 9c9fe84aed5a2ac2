package ecommerce

import (
	"errors"
	"fmt"
	"strings"
)

// ShopifyConfig holds configuration for the Shopify REST Admin API
type ShopifyConfig struct {
	// ShopURL is the myshopify domain, e.g. "my-store.myshopify.com"
	ShopURL string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version to pin requests to
	APIVersion string
	// APIBaseURL overrides the derived Admin API base URL when set.
	// Used for testing against a local server.
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// ShopifyDefaultAPIVersion is the Admin API version used when none is configured
const ShopifyDefaultAPIVersion = "2024-10"

// Errors for Shopify configuration
var (
	ErrShopifyConfigMissingShopURL = errors.New("shopify: shop URL is required")
	ErrShopifyConfigMissingToken   = errors.New("shopify: access token is required")
)

// NewShopifyConfig creates a new Shopify configuration with defaults
func NewShopifyConfig(shopURL, accessToken string) *ShopifyConfig {
	return &ShopifyConfig{
		ShopURL:        shopURL,
		AccessToken:    accessToken,
		APIVersion:     ShopifyDefaultAPIVersion,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Shopify configuration and fills defaults
func (c *ShopifyConfig) Validate() error {
	if c.ShopURL == "" {
		return ErrShopifyConfigMissingShopURL
	}
	if c.AccessToken == "" {
		return ErrShopifyConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = ShopifyDefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// BaseURL returns the versioned Admin API base URL, without a trailing slash.
func (c *ShopifyConfig) BaseURL() string {
	if c.APIBaseURL != "" {
		return strings.TrimSuffix(c.APIBaseURL, "/")
	}
	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(c.ShopURL, "https://"), "http://"), "/")
	return fmt.Sprintf("https://%s/admin/api/%s", host, c.APIVersion)
}
