package catalog

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents one purchasable variant of a remote catalog product,
// mirrored locally for barcode lookup at the point of sale.
// The remote platform is authoritative; local rows are created and updated
// only by synchronization and webhook reconciliation.
type Product struct {
	shared.BaseEntity
	ExternalVariantID int64
	ExternalProductID int64
	Title             string
	SKU               string
	Barcode           string
	Price             decimal.Decimal
	InventoryQuantity int
	VariantLabel      string
	ImageURL          string
}

// NewProduct creates a local mirror row for a remote variant
func NewProduct(externalVariantID, externalProductID int64, title, barcode string) (*Product, error) {
	if externalVariantID <= 0 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External variant ID must be positive")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Product barcode cannot be empty")
	}

	return &Product{
		BaseEntity:        shared.NewBaseEntity(),
		ExternalVariantID: externalVariantID,
		ExternalProductID: externalProductID,
		Title:             title,
		Barcode:           barcode,
		Price:             decimal.Zero,
	}, nil
}

// ApplyRemote overwrites the mutable mirrored fields from a remote record
// while preserving local identity. Applying the same record twice is a
// no-op beyond the timestamp refresh.
func (p *Product) ApplyRemote(title, sku, barcode, variantLabel, imageURL string, price decimal.Decimal, inventoryQuantity int) {
	p.Title = title
	p.SKU = sku
	p.Barcode = barcode
	p.VariantLabel = variantLabel
	p.ImageURL = imageURL
	p.Price = price
	p.InventoryQuantity = inventoryQuantity
	p.Touch()
}

// SetInventory updates the mirrored stock level
func (p *Product) SetInventory(quantity int) {
	p.InventoryQuantity = quantity
	p.Touch()
}

// InStock returns true if the mirrored stock level is positive.
// The mirror is not authoritative for reservation; this is a display hint
// and a variant-selection preference only.
func (p *Product) InStock() bool {
	return p.InventoryQuantity > 0
}
