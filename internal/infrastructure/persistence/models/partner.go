package models

import (
	"github.com/pos/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the mirrored Customer entity.
type CustomerModel struct {
	BaseModel
	ExternalCustomerID *int64 `gorm:"uniqueIndex:idx_customer_external_id"`
	FirstName          string `gorm:"type:varchar(100)"`
	LastName           string `gorm:"type:varchar(100)"`
	Email              string `gorm:"type:varchar(255);index"`
	Phone              string `gorm:"type:varchar(50)"`
	Address            string `gorm:"type:varchar(255)"`
	City               string `gorm:"type:varchar(100)"`
	Country            string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:         m.BaseModel.ToDomain(),
		ExternalCustomerID: m.ExternalCustomerID,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		City:               m.City,
		Country:            m.Country,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.ExternalCustomerID = c.ExternalCustomerID
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.City = c.City
	m.Country = c.Country
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
