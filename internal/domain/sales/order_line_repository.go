package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// OrderLineRepository defines the persistence contract for order lines.
// Lines are inserted as a batch once per committed transaction and are
// only ever updated through status propagation.
type OrderLineRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderLine, error)
	FindByExternalOrderID(ctx context.Context, externalOrderID int64) ([]OrderLine, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderLine, int64, error)
	// FindBetween returns all lines created in [from, to), oldest first.
	FindBetween(ctx context.Context, from, to time.Time) ([]OrderLine, error)
	// InsertBatch writes all lines of one committed transaction.
	InsertBatch(ctx context.Context, lines []*OrderLine) error
	// UpdateStatusByExternalOrderID sets the status on every line sharing
	// the external order ID and returns the number of rows touched.
	UpdateStatusByExternalOrderID(ctx context.Context, externalOrderID int64, status LineStatus) (int64, error)
}
