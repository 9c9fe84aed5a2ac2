package models

import (
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the mirrored Product entity.
type ProductModel struct {
	BaseModel
	ExternalVariantID int64           `gorm:"not null;uniqueIndex:idx_product_external_variant"`
	ExternalProductID int64           `gorm:"not null;index"`
	Title             string          `gorm:"type:varchar(255);not null"`
	SKU               string          `gorm:"type:varchar(100)"`
	Barcode           string          `gorm:"type:varchar(100);index"`
	Price             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	InventoryQuantity int             `gorm:"not null;default:0"`
	VariantLabel      string          `gorm:"type:varchar(100)"`
	ImageURL          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity:        m.BaseModel.ToDomain(),
		ExternalVariantID: m.ExternalVariantID,
		ExternalProductID: m.ExternalProductID,
		Title:             m.Title,
		SKU:               m.SKU,
		Barcode:           m.Barcode,
		Price:             m.Price,
		InventoryQuantity: m.InventoryQuantity,
		VariantLabel:      m.VariantLabel,
		ImageURL:          m.ImageURL,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ExternalVariantID = p.ExternalVariantID
	m.ExternalProductID = p.ExternalProductID
	m.Title = p.Title
	m.SKU = p.SKU
	m.Barcode = p.Barcode
	m.Price = p.Price
	m.InventoryQuantity = p.InventoryQuantity
	m.VariantLabel = p.VariantLabel
	m.ImageURL = p.ImageURL
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
