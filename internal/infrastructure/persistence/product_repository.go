package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its local ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalVariantID finds a product by its remote variant ID
func (r *GormProductRepository) FindByExternalVariantID(ctx context.Context, externalVariantID int64) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("external_variant_id = ?", externalVariantID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBarcode finds all variants sharing a barcode. Results are ordered
// by ascending local identity so the first match is stable across calls.
func (r *GormProductRepository) FindByBarcode(ctx context.Context, barcode string) ([]catalog.Product, error) {
	if barcode == "" {
		return nil, shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("barcode = ?", barcode).
		Order("created_at ASC, id ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	return r.query(ctx, r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
}

// Search matches title, SKU or barcode by substring
func (r *GormProductRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]catalog.Product, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("title ILIKE ? OR sku ILIKE ? OR barcode ILIKE ?", pattern, pattern, pattern)
	return r.query(ctx, q, filter)
}

func (r *GormProductRepository) query(ctx context.Context, q *gorm.DB, filter shared.Filter) ([]catalog.Product, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []models.ProductModel
	if err := applyFilter(q, filter, "title ASC").Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, total, nil
}

// Upsert inserts the product or overwrites the mutable fields of the row
// sharing its external variant ID, preserving the existing local identity.
func (r *GormProductRepository) Upsert(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"external_product_id", "title", "sku", "barcode", "price",
				"inventory_quantity", "variant_label", "image_url", "updated_at",
			}),
		}).
		Create(model).Error
}

// UpdateInventory sets the stock level of the variant matching the remote
// variant ID. Returns false when no row matches.
func (r *GormProductRepository) UpdateInventory(ctx context.Context, externalVariantID int64, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("external_variant_id = ?", externalVariantID).
		Updates(map[string]any{"inventory_quantity": quantity})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByExternalProductID removes every variant of a remote product and
// returns the number of rows removed.
func (r *GormProductRepository) DeleteByExternalProductID(ctx context.Context, externalProductID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("external_product_id = ?", externalProductID).
		Delete(&models.ProductModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies pagination and ordering shared by all repositories
func applyFilter(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else if defaultOrder != "" {
		query = query.Order(defaultOrder)
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
