package persistence

import (
	"context"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const packageDetailColumns = `packages.*, products.name AS product_name,
	(SELECT COUNT(*) FROM batches WHERE batches.package_id = packages.id) AS batch_count`

// GormPackageRepository implements PackageRepository using GORM
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// FindByID finds a package by its ID
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	var model models.PackageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Package")
	}
	return model.ToDomain(), nil
}

// ExistsByProductAndName checks for a package name under a product
func (r *GormPackageRepository) ExistsByProductAndName(ctx context.Context, productID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PackageModel{}).
		Where("product_id = ? AND name = ?", productID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormPackageRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("packages").
		Select(packageDetailColumns).
		Joins("JOIN products ON products.id = packages.product_id")
}

// ListDetails lists packages, optionally restricted to one product
func (r *GormPackageRepository) ListDetails(ctx context.Context, productID *uuid.UUID) ([]catalog.PackageDetail, error) {
	query := r.detailQuery(ctx)
	if productID != nil {
		query = query.Where("packages.product_id = ?", *productID)
	}

	var rows []models.PackageDetailRow
	if err := query.Order("packages.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]catalog.PackageDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDomain()
	}
	return details, nil
}

// GetDetail returns one package with its product name and batch count
func (r *GormPackageRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.PackageDetail, error) {
	var rows []models.PackageDetailRow
	if err := r.detailQuery(ctx).
		Where("packages.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound, "Package")
	}
	detail := rows[0].ToDomain()
	return &detail, nil
}

// Create inserts a new package
func (r *GormPackageRepository) Create(ctx context.Context, pkg *catalog.Package) error {
	model := &models.PackageModel{}
	model.FromDomain(pkg)
	return translateError(r.db.WithContext(ctx).Omit("Product").Create(model).Error, "Package")
}

// Update saves changes to an existing package
func (r *GormPackageRepository) Update(ctx context.Context, pkg *catalog.Package) error {
	result := r.db.WithContext(ctx).Model(&models.PackageModel{}).
		Where("id = ?", pkg.ID).
		Updates(map[string]any{
			"name":       pkg.Name,
			"updated_at": pkg.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Package")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "Package")
	}
	return nil
}
