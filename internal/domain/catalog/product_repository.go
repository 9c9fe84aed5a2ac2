package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for mirrored products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByExternalVariantID(ctx context.Context, externalVariantID int64) (*Product, error)
	// FindByBarcode returns all variants sharing a barcode, ordered by
	// ascending local identity so callers get a stable tie-break.
	FindByBarcode(ctx context.Context, barcode string) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	Search(ctx context.Context, query string, filter shared.Filter) ([]Product, int64, error)
	// Upsert inserts the product or, when a row with the same
	// external variant ID exists, overwrites its mutable fields while
	// preserving the existing local identity.
	Upsert(ctx context.Context, product *Product) error
	// UpdateInventory sets the stock level of the variant matching the
	// external variant ID. Returns false when no row matches.
	UpdateInventory(ctx context.Context, externalVariantID int64, quantity int) (bool, error)
	// DeleteByExternalProductID removes every variant of a remote product.
	// Returns the number of rows removed; zero is not an error.
	DeleteByExternalProductID(ctx context.Context, externalProductID int64) (int64, error)
}
