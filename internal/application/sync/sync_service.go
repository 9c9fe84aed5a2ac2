package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
)

// Lock guards a full pull against overlapping with itself. Acquire
// returns false without error when another run holds the lock.
type Lock interface {
	Acquire(ctx context.Context, name string) (bool, error)
	Release(ctx context.Context, name string) error
}

const (
	lockProducts  = "products"
	lockCustomers = "customers"
)

// Service pulls the full remote catalog and customer book into the local
// mirror. Each run owns its own counters; page upserts are independently
// durable, so a failure partway through keeps what was already written.
type Service struct {
	platform     integration.StorePlatform
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	lock         Lock
	logger       *zap.Logger
}

// NewService creates a new sync Service
func NewService(
	platform integration.StorePlatform,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	lock Lock,
	logger *zap.Logger,
) *Service {
	return &Service{
		platform:     platform,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		lock:         lock,
		logger:       logger,
	}
}

// SyncProducts pages through the remote catalog and upserts every variant
// carrying a barcode. Variants without a barcode cannot be looked up at
// the counter and are counted, not stored. Duplicate external variant IDs
// within one pass are skipped; the dedup set is pass-local.
func (s *Service) SyncProducts(ctx context.Context) (*ProductSyncResult, error) {
	acquired, err := s.lock.Acquire(ctx, lockProducts)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.NewDomainError("SYNC_IN_PROGRESS", "A product sync is already running")
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockProducts); err != nil {
			s.logger.Warn("Failed to release product sync lock", zap.Error(err))
		}
	}()

	result := &ProductSyncResult{}
	seen := make(map[int64]struct{})
	pageURL := ""

	for {
		variants, next, err := s.platform.ListProducts(ctx, pageURL)
		if err != nil {
			s.logger.Error("Product sync aborted",
				zap.Int("total_synced", result.TotalSynced),
				zap.Error(err))
			return nil, remoteUnavailable(err)
		}

		for _, v := range variants {
			if v.Barcode == "" {
				result.SkippedNoBarcode++
				continue
			}
			if _, dup := seen[v.VariantID]; dup {
				result.SkippedDuplicate++
				continue
			}
			seen[v.VariantID] = struct{}{}

			product, err := catalog.NewProduct(v.VariantID, v.ProductID, v.Title, v.Barcode)
			if err != nil {
				result.SkippedInvalid++
				continue
			}
			product.ApplyRemote(v.Title, v.SKU, v.Barcode, v.VariantLabel, v.ImageURL, v.Price, v.InventoryQuantity)
			if err := s.productRepo.Upsert(ctx, product); err != nil {
				return nil, err
			}
			result.TotalSynced++
		}

		if next == "" {
			break
		}
		pageURL = next
	}

	s.logger.Info("Product sync completed",
		zap.Int("total_synced", result.TotalSynced),
		zap.Int("skipped_no_barcode", result.SkippedNoBarcode),
		zap.Int("skipped_duplicate", result.SkippedDuplicate))
	return result, nil
}

// SyncCustomers pages through the remote customer book and upserts by
// external customer ID. Dedup is pass-local; duplicate emails across
// separate rows are kept as distinct customers.
func (s *Service) SyncCustomers(ctx context.Context) (*CustomerSyncResult, error) {
	acquired, err := s.lock.Acquire(ctx, lockCustomers)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.NewDomainError("SYNC_IN_PROGRESS", "A customer sync is already running")
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockCustomers); err != nil {
			s.logger.Warn("Failed to release customer sync lock", zap.Error(err))
		}
	}()

	result := &CustomerSyncResult{}
	seen := make(map[int64]struct{})
	pageURL := ""

	for {
		customers, next, err := s.platform.ListCustomers(ctx, pageURL)
		if err != nil {
			s.logger.Error("Customer sync aborted",
				zap.Int("total_synced", result.TotalSynced),
				zap.Error(err))
			return nil, remoteUnavailable(err)
		}

		for _, rc := range customers {
			if _, dup := seen[rc.CustomerID]; dup {
				result.SkippedDuplicate++
				continue
			}
			seen[rc.CustomerID] = struct{}{}

			customer, err := partner.NewCustomer(rc.CustomerID, rc.FirstName, rc.LastName, rc.Email)
			if err != nil {
				result.SkippedInvalid++
				continue
			}
			customer.ApplyRemote(rc.FirstName, rc.LastName, rc.Email, rc.Phone, rc.Address, rc.City, rc.Country)
			if err := s.customerRepo.Upsert(ctx, customer); err != nil {
				return nil, err
			}
			result.TotalSynced++
		}

		if next == "" {
			break
		}
		pageURL = next
	}

	s.logger.Info("Customer sync completed",
		zap.Int("total_synced", result.TotalSynced),
		zap.Int("skipped_duplicate", result.SkippedDuplicate))
	return result, nil
}

// remoteUnavailable folds any platform failure partway through a pull
// into a single caller-facing code. The page upserts already written
// stay valid.
func remoteUnavailable(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.NewDomainError("REMOTE_UNAVAILABLE", "Remote platform unavailable: "+err.Error())
}
