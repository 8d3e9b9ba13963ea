package persistence

import (
	"context"
	"fmt"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCascadeDeleter removes catalog subtrees child-first inside one
// transaction. It does not depend on ON DELETE CASCADE, so the same plan
// runs on postgres and sqlite.
type GormCascadeDeleter struct {
	db *gorm.DB
}

// NewGormCascadeDeleter creates a new GormCascadeDeleter
func NewGormCascadeDeleter(db *gorm.DB) *GormCascadeDeleter {
	return &GormCascadeDeleter{db: db}
}

// deletePlan is an ordered list of deletes. Batches are resolved first so
// their report URLs can be returned for blob cleanup.
type deletePlan struct {
	entity string
	// batches selects the batches owned by the root
	batches func(tx *gorm.DB) *gorm.DB
	// packages deletes the packages owned by the root, nil when none
	packages func(tx *gorm.DB) *gorm.DB
	// root deletes the root record itself
	root func(tx *gorm.DB) *gorm.DB
}

// DeleteProduct removes a product, its packages, their batches and those
// batches' submissions.
func (d *GormCascadeDeleter) DeleteProduct(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	outcome, err := d.run(ctx, deletePlan{
		entity: "Product",
		batches: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.BatchModel{}).
				Where("product_id = ? OR package_id IN (?)", id,
					tx.Model(&models.PackageModel{}).Select("id").Where("product_id = ?", id))
		},
		packages: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("product_id = ?", id).Delete(&models.PackageModel{})
		},
		root: func(tx *gorm.DB) *gorm.DB {
			return tx.Delete(&models.ProductModel{}, "id = ?", id)
		},
	})
	if err != nil {
		return nil, err
	}
	outcome.Products = 1
	return outcome, nil
}

// DeletePackage removes a package, its batches and their submissions.
func (d *GormCascadeDeleter) DeletePackage(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	outcome, err := d.run(ctx, deletePlan{
		entity: "Package",
		batches: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.BatchModel{}).Where("package_id = ?", id)
		},
		root: func(tx *gorm.DB) *gorm.DB {
			return tx.Delete(&models.PackageModel{}, "id = ?", id)
		},
	})
	if err != nil {
		return nil, err
	}
	outcome.Packages++
	return outcome, nil
}

// DeleteBatch removes a batch and its submissions.
func (d *GormCascadeDeleter) DeleteBatch(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	return d.run(ctx, deletePlan{
		entity: "Batch",
		batches: func(tx *gorm.DB) *gorm.DB {
			return tx.Model(&models.BatchModel{}).Where("id = ?", id)
		},
	})
}

func (d *GormCascadeDeleter) run(ctx context.Context, plan deletePlan) (*catalog.DeleteOutcome, error) {
	outcome := &catalog.DeleteOutcome{}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batches []models.BatchModel
		if err := plan.batches(tx).Select("id", "report_url").Find(&batches).Error; err != nil {
			return fmt.Errorf("select batches: %w", err)
		}

		batchIDs := make([]uuid.UUID, 0, len(batches))
		for _, b := range batches {
			batchIDs = append(batchIDs, b.ID)
			if b.ReportURL != nil && *b.ReportURL != "" {
				outcome.ReportURLs = append(outcome.ReportURLs, *b.ReportURL)
			}
		}

		if len(batchIDs) > 0 {
			result := tx.Where("batch_id IN ?", batchIDs).Delete(&models.SubmissionModel{})
			if result.Error != nil {
				return fmt.Errorf("delete submissions: %w", translateError(result.Error, plan.entity))
			}
			outcome.Submissions = result.RowsAffected

			result = tx.Where("id IN ?", batchIDs).Delete(&models.BatchModel{})
			if result.Error != nil {
				return fmt.Errorf("delete batches: %w", translateError(result.Error, plan.entity))
			}
			outcome.Batches = result.RowsAffected
		}

		if plan.packages != nil {
			result := plan.packages(tx)
			if result.Error != nil {
				return fmt.Errorf("delete packages: %w", translateError(result.Error, plan.entity))
			}
			outcome.Packages = result.RowsAffected
		}

		if plan.root != nil {
			result := plan.root(tx)
			if result.Error != nil {
				return fmt.Errorf("delete %s: %w", plan.entity, translateError(result.Error, plan.entity))
			}
			if result.RowsAffected == 0 {
				return translateError(gorm.ErrRecordNotFound, plan.entity)
			}
		} else if outcome.Batches == 0 {
			// a batch delete is its own root
			return translateError(gorm.ErrRecordNotFound, plan.entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
