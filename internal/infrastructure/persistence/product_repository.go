package persistence

import (
	"context"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const productDetailColumns = `products.*,
	(SELECT COUNT(*) FROM packages WHERE packages.product_id = products.id) AS package_count,
	(SELECT COUNT(*) FROM batches WHERE batches.product_id = products.id) AS batch_count`

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Product")
	}
	return model.ToDomain(), nil
}

// ExistsByName checks for a product with exactly this name
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListDetails lists all products with package and batch counts, newest first
func (r *GormProductRepository) ListDetails(ctx context.Context) ([]catalog.ProductDetail, error) {
	var rows []models.ProductDetailRow
	if err := r.db.WithContext(ctx).Table("products").
		Select(productDetailColumns).
		Order("products.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]catalog.ProductDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].ToDomain()
	}
	return details, nil
}

// GetDetail returns one product with its counts
func (r *GormProductRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.ProductDetail, error) {
	var rows []models.ProductDetailRow
	if err := r.db.WithContext(ctx).Table("products").
		Select(productDetailColumns).
		Where("products.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound, "Product")
	}
	detail := rows[0].ToDomain()
	return &detail, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := &models.ProductModel{}
	model.FromDomain(product)
	return translateError(r.db.WithContext(ctx).Create(model).Error, "Product")
}

// Update saves changes to an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":       product.Name,
			"updated_at": product.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "Product")
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "Product")
	}
	return nil
}
