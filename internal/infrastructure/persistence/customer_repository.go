package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its local ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a customer by its remote customer ID
func (r *GormCustomerRepository) FindByExternalID(ctx context.Context, externalCustomerID int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("external_customer_id = ?", externalCustomerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by exact email, case-insensitively
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, int64, error) {
	return r.query(ctx, r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)
}

// Search matches name, email or phone by substring
func (r *GormCustomerRepository) Search(ctx context.Context, query string, filter shared.Filter) ([]partner.Customer, int64, error) {
	pattern := "%" + query + "%"
	q := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern)
	return r.query(ctx, q, filter)
}

func (r *GormCustomerRepository) query(ctx context.Context, q *gorm.DB, filter shared.Filter) ([]partner.Customer, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customerModels []models.CustomerModel
	if err := applyFilter(q, filter, "last_name ASC, first_name ASC").Find(&customerModels).Error; err != nil {
		return nil, 0, err
	}

	customers := make([]partner.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers, total, nil
}

// Upsert inserts the customer or overwrites the mutable fields of the row
// sharing its external customer ID, preserving the existing local identity.
func (r *GormCustomerRepository) Upsert(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_customer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "email", "phone",
				"address", "city", "country", "updated_at",
			}),
		}).
		Create(model).Error
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
