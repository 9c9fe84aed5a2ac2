package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
)

// ProductResponse is a mirrored variant in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	ExternalVariantID int64           `json:"external_variant_id"`
	ExternalProductID int64           `json:"external_product_id"`
	Title             string          `json:"title"`
	SKU               string          `json:"sku,omitempty"`
	Barcode           string          `json:"barcode"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	InStock           bool            `json:"in_stock"`
	VariantLabel      string          `json:"variant_label,omitempty"`
	ImageURL          string          `json:"image_url,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductResponseFromDomain converts a domain product to its response form
func ProductResponseFromDomain(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		ExternalVariantID: p.ExternalVariantID,
		ExternalProductID: p.ExternalProductID,
		Title:             p.Title,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		Price:             p.Price,
		InventoryQuantity: p.InventoryQuantity,
		InStock:           p.InStock(),
		VariantLabel:      p.VariantLabel,
		ImageURL:          p.ImageURL,
		UpdatedAt:         p.UpdatedAt,
	}
}
