package models

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// OrderLineModel is the persistence model for the OrderLine entity.
type OrderLineModel struct {
	BaseModel
	ExternalOrderID int64           `gorm:"not null;index"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid;index"`
	Barcode         string          `gorm:"type:varchar(100)"`
	Title           string          `gorm:"type:varchar(255);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod   string          `gorm:"type:varchar(20);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'completed';index"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine entity.
func (m *OrderLineModel) ToDomain() *sales.OrderLine {
	return &sales.OrderLine{
		BaseEntity:      m.BaseModel.ToDomain(),
		ExternalOrderID: m.ExternalOrderID,
		CustomerID:      m.CustomerID,
		ProductID:       m.ProductID,
		Barcode:         m.Barcode,
		Title:           m.Title,
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		PaymentMethod:   sales.PaymentMethod(m.PaymentMethod),
		Status:          sales.LineStatus(m.Status),
	}
}

// FromDomain populates the persistence model from a domain OrderLine entity.
func (m *OrderLineModel) FromDomain(l *sales.OrderLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.ExternalOrderID = l.ExternalOrderID
	m.CustomerID = l.CustomerID
	m.ProductID = l.ProductID
	m.Barcode = l.Barcode
	m.Title = l.Title
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.PaymentMethod = string(l.PaymentMethod)
	m.Status = string(l.Status)
}

// OrderLineModelFromDomain creates a new persistence model from a domain OrderLine entity.
func OrderLineModelFromDomain(l *sales.OrderLine) *OrderLineModel {
	m := &OrderLineModel{}
	m.FromDomain(l)
	return m
}
