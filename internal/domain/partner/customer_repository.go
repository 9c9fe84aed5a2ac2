package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence contract for mirrored customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByExternalID(ctx context.Context, externalCustomerID int64) (*Customer, error)
	// FindByEmail performs an exact, case-insensitive lookup.
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)
	// Search matches name, email or phone by substring.
	Search(ctx context.Context, query string, filter shared.Filter) ([]Customer, int64, error)
	// Upsert inserts the customer or overwrites the mutable fields of the
	// row sharing its external customer ID, preserving local identity.
	Upsert(ctx context.Context, customer *Customer) error
}
