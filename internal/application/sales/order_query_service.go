package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
)

// OrderQueryService serves read-only order line lookups
type OrderQueryService struct {
	lineRepo sales.OrderLineRepository
}

// NewOrderQueryService creates a new OrderQueryService
func NewOrderQueryService(lineRepo sales.OrderLineRepository) *OrderQueryService {
	return &OrderQueryService{lineRepo: lineRepo}
}

// List returns order lines, newest first, paginated
func (s *OrderQueryService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderLineResponse], error) {
	lines, total, err := s.lineRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, OrderLineResponseFromDomain(&lines[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.Limit())
	return &page, nil
}

// Get returns a single order line by local ID
func (s *OrderQueryService) Get(ctx context.Context, id uuid.UUID) (*OrderLineResponse, error) {
	line, err := s.lineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := OrderLineResponseFromDomain(line)
	return &resp, nil
}

// GetByExternalOrderID returns every line of one committed transaction,
// oldest first
func (s *OrderQueryService) GetByExternalOrderID(ctx context.Context, externalOrderID int64) ([]OrderLineResponse, error) {
	lines, err := s.lineRepo.FindByExternalOrderID(ctx, externalOrderID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, shared.ErrNotFound
	}
	responses := make([]OrderLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, OrderLineResponseFromDomain(&lines[i]))
	}
	return responses, nil
}
