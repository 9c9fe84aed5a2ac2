package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/partner"
)

// CreateCustomerCommand creates a customer on the store and mirrors it
type CreateCustomerCommand struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"max=30"`
}

// CustomerResponse is a customer in API responses
type CustomerResponse struct {
	ID                 uuid.UUID `json:"id"`
	ExternalCustomerID *int64    `json:"external_customer_id,omitempty"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Address            string    `json:"address,omitempty"`
	City               string    `json:"city,omitempty"`
	Country            string    `json:"country,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// CustomerResponseFromDomain converts a domain customer to its response form
func CustomerResponseFromDomain(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                 c.ID,
		ExternalCustomerID: c.ExternalCustomerID,
		FirstName:          c.FirstName,
		LastName:           c.LastName,
		FullName:           c.FullName(),
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		City:               c.City,
		Country:            c.Country,
		CreatedAt:          c.CreatedAt,
	}
}
