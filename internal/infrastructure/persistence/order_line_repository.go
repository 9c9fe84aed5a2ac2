package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormOrderLineRepository implements OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindByID finds an order line by its local ID
func (r *GormOrderLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.OrderLine, error) {
	var model models.OrderLineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalOrderID finds all lines of one committed transaction
func (r *GormOrderLineRepository) FindByExternalOrderID(ctx context.Context, externalOrderID int64) ([]sales.OrderLine, error) {
	var lineModels []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("external_order_id = ?", externalOrderID).
		Order("created_at ASC, id ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainLines(lineModels), nil
}

// FindAll finds all order lines matching the filter
func (r *GormOrderLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.OrderLine, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.OrderLineModel{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lineModels []models.OrderLineModel
	if err := applyFilter(q, filter, "created_at DESC").Find(&lineModels).Error; err != nil {
		return nil, 0, err
	}
	return toDomainLines(lineModels), total, nil
}

// FindBetween returns all lines created in [from, to), oldest first
func (r *GormOrderLineRepository) FindBetween(ctx context.Context, from, to time.Time) ([]sales.OrderLine, error) {
	var lineModels []models.OrderLineModel
	if err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return toDomainLines(lineModels), nil
}

// InsertBatch writes all lines of one committed transaction
func (r *GormOrderLineRepository) InsertBatch(ctx context.Context, lines []*sales.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	lineModels := make([]models.OrderLineModel, len(lines))
	for i, line := range lines {
		lineModels[i].FromDomain(line)
	}
	return r.db.WithContext(ctx).Create(&lineModels).Error
}

// UpdateStatusByExternalOrderID sets the status on every line sharing the
// external order ID and returns the number of rows touched.
func (r *GormOrderLineRepository) UpdateStatusByExternalOrderID(ctx context.Context, externalOrderID int64, status sales.LineStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderLineModel{}).
		Where("external_order_id = ?", externalOrderID).
		Updates(map[string]any{"status": string(status)})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func toDomainLines(lineModels []models.OrderLineModel) []sales.OrderLine {
	lines := make([]sales.OrderLine, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines
}

// Ensure GormOrderLineRepository implements OrderLineRepository
var _ sales.OrderLineRepository = (*GormOrderLineRepository)(nil)
