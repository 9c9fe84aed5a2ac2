package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// ProductQueryService serves read-only lookups over the mirrored catalog.
// The mirror is populated by sync and webhooks only, so there are no
// write operations here.
type ProductQueryService struct {
	productRepo catalog.ProductRepository
}

// NewProductQueryService creates a new ProductQueryService
func NewProductQueryService(productRepo catalog.ProductRepository) *ProductQueryService {
	return &ProductQueryService{productRepo: productRepo}
}

// GetByBarcode returns every variant sharing a barcode, in-stock variants
// first, in stable order within each group. An unknown barcode is an
// error, never a silent empty result.
func (s *ProductQueryService) GetByBarcode(ctx context.Context, barcode string) ([]ProductResponse, error) {
	products, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "No product found for barcode "+barcode)
	}

	inStock := make([]ProductResponse, 0, len(products))
	outOfStock := make([]ProductResponse, 0)
	for i := range products {
		resp := ProductResponseFromDomain(&products[i])
		if products[i].InStock() {
			inStock = append(inStock, resp)
		} else {
			outOfStock = append(outOfStock, resp)
		}
	}
	return append(inStock, outOfStock...), nil
}

// Get returns a single variant by local ID
func (s *ProductQueryService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ProductResponseFromDomain(product)
	return &resp, nil
}

// List returns mirrored variants, paginated
func (s *ProductQueryService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toResponses(products), total, filter.Page, filter.Limit())
	return &page, nil
}

// Search matches title, SKU or barcode by substring
func (s *ProductQueryService) Search(ctx context.Context, query string, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toResponses(products), total, filter.Page, filter.Limit())
	return &page, nil
}

func toResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ProductResponseFromDomain(&products[i]))
	}
	return responses
}
