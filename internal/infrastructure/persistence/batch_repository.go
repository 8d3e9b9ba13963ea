package persistence

import (
	"context"
	"time"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const batchDetailColumns = `batches.*, products.name AS product_name, packages.name AS package_name,
	(SELECT COUNT(*) FROM submissions WHERE submissions.batch_id = batches.id) AS submission_count`

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Batch")
	}
	return model.ToDomain(), nil
}

// FindByCode finds a batch by its normalized code. Returns nil, nil when absent.
func (r *GormBatchRepository) FindByCode(ctx context.Context, code string) (*catalog.Batch, error) {
	var batchModels []models.BatchModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		Limit(1).
		Find(&batchModels).Error; err != nil {
		return nil, err
	}
	if len(batchModels) == 0 {
		return nil, nil
	}
	return batchModels[0].ToDomain(), nil
}

// FindDetailByCode is FindByCode with parent names. Returns nil, nil when absent.
func (r *GormBatchRepository) FindDetailByCode(ctx context.Context, code string) (*catalog.BatchDetail, error) {
	var rows []models.BatchDetailRow
	if err := r.detailQuery(ctx).
		Where("batches.code = ?", code).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	detail := rows[0].ToDomain()
	return &detail, nil
}

// ExistsByCode checks whether any batch uses the code
func (r *GormBatchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormBatchRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("batches").
		Select(batchDetailColumns).
		Joins("JOIN products ON products.id = batches.product_id").
		Joins("JOIN packages ON packages.id = batches.package_id")
}

// ListDetails lists batches with parent names, newest first
func (r *GormBatchRepository) ListDetails(ctx context.Context, filter catalog.BatchFilter) ([]catalog.BatchDetail, error) {
	query := r.detailQuery(ctx)
	if filter.ProductID != nil {
		query = query.Where("batches.product_id = ?", *filter.ProductID)
	}
	if filter.PackageID != nil {
		query = query.Where("batches.package_id = ?", *filter.PackageID)
	}

	var rows []models.BatchDetailRow
	if err := query.Order("batches.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]catalog.BatchDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDomain()
	}
	return details, nil
}

// GetDetail returns one batch with parent names
func (r *GormBatchRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.BatchDetail, error) {
	var rows []models.BatchDetailRow
	if err := r.detailQuery(ctx).
		Where("batches.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound, "Batch")
	}
	detail := rows[0].ToDomain()
	return &detail, nil
}

// Create inserts a new batch. The unique index on code turns a concurrent
// duplicate into a conflict error.
func (r *GormBatchRepository) Create(ctx context.Context, batch *catalog.Batch) error {
	model := &models.BatchModel{}
	model.FromDomain(batch)
	err := r.db.WithContext(ctx).Omit("Product", "Package").Create(model).Error
	return translateError(err, "Batch with code "+batch.Code)
}

// UpdateReportURL replaces the stored report URL
func (r *GormBatchRepository) UpdateReportURL(ctx context.Context, id uuid.UUID, url *string) error {
	result := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"report_url": url,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "Batch")
	}
	return nil
}
