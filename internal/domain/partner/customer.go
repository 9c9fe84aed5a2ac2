package partner

import (
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// Customer represents a payable party mirrored from the remote platform.
// ExternalCustomerID is the sole identity key across systems; it is nil
// only for rows that predate their first successful remote creation.
type Customer struct {
	shared.BaseEntity
	ExternalCustomerID *int64
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	Address            string
	City               string
	Country            string
}

// NewCustomer creates a local mirror row for a remote customer
func NewCustomer(externalCustomerID int64, firstName, lastName, email string) (*Customer, error) {
	if externalCustomerID <= 0 {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External customer ID must be positive")
	}

	id := externalCustomerID
	return &Customer{
		BaseEntity:         shared.NewBaseEntity(),
		ExternalCustomerID: &id,
		FirstName:          firstName,
		LastName:           lastName,
		Email:              strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// ApplyRemote overwrites the mirrored fields from a remote record while
// preserving local identity
func (c *Customer) ApplyRemote(firstName, lastName, email, phone, address, city, country string) {
	c.FirstName = firstName
	c.LastName = lastName
	c.Email = strings.ToLower(strings.TrimSpace(email))
	c.Phone = phone
	c.Address = address
	c.City = city
	c.Country = country
	c.Touch()
}

// FullName returns the display name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
