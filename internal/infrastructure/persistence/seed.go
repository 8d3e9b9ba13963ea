package persistence

import (
	"context"
	"fmt"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedPackage is a package size to seed. With Batch set, a batch with the
// derived code is seeded for it too.
type SeedPackage struct {
	Name      string
	Batch     bool
	ReportURL string
}

// SeedProduct is a product to seed with its packages
type SeedProduct struct {
	Name     string
	Packages []SeedPackage
}

// SeedResult counts the rows a seed run inserted
type SeedResult struct {
	Products int64
	Packages int64
	Batches  int64
}

// DefaultSeed is the demo catalog
var DefaultSeed = []SeedProduct{
	{
		Name: "Pepper Powder",
		Packages: []SeedPackage{
			{Name: "100mg", Batch: true, ReportURL: "https://example.com/reports/pe100mg.pdf"},
			{Name: "250mg", Batch: true, ReportURL: "https://example.com/reports/pe250mg.pdf"},
		},
	},
	{
		Name: "Turmeric",
		Packages: []SeedPackage{
			{Name: "100mg", Batch: true, ReportURL: "https://example.com/reports/tu100mg.pdf"},
			{Name: "500mg"},
		},
	},
}

// Seeder inserts a catalog without touching existing rows. Batch codes are
// derived from the names, so running it twice inserts nothing new.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed inserts the products, their packages and the requested batches
func (s *Seeder) Seed(ctx context.Context, products []SeedProduct) (*SeedResult, error) {
	result := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sp := range products {
			product, inserted, err := s.ensureProduct(tx, sp.Name)
			if err != nil {
				return err
			}
			result.Products += inserted

			for _, spkg := range sp.Packages {
				pkg, inserted, err := s.ensurePackage(tx, product, spkg.Name)
				if err != nil {
					return err
				}
				result.Packages += inserted
				if !spkg.Batch {
					continue
				}

				inserted, err = s.ensureBatch(tx, product, pkg, spkg.ReportURL)
				if err != nil {
					return err
				}
				result.Batches += inserted
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Seeder) ensureProduct(tx *gorm.DB, name string) (*catalog.Product, int64, error) {
	product, err := catalog.NewProduct(name)
	if err != nil {
		return nil, 0, err
	}
	model := &models.ProductModel{}
	model.FromDomain(product)

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(model)
	if res.Error != nil {
		return nil, 0, fmt.Errorf("seed product %s: %w", name, res.Error)
	}

	var stored models.ProductModel
	if err := tx.Where("name = ?", product.Name).First(&stored).Error; err != nil {
		return nil, 0, fmt.Errorf("seed product %s: %w", name, err)
	}
	return stored.ToDomain(), res.RowsAffected, nil
}

func (s *Seeder) ensurePackage(tx *gorm.DB, product *catalog.Product, name string) (*catalog.Package, int64, error) {
	pkg, err := catalog.NewPackage(product.ID, name)
	if err != nil {
		return nil, 0, err
	}
	model := &models.PackageModel{}
	model.FromDomain(pkg)

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(model)
	if res.Error != nil {
		return nil, 0, fmt.Errorf("seed package %s/%s: %w", product.Name, name, res.Error)
	}

	var stored models.PackageModel
	if err := tx.Where("product_id = ? AND name = ?", product.ID, pkg.Name).First(&stored).Error; err != nil {
		return nil, 0, fmt.Errorf("seed package %s/%s: %w", product.Name, name, err)
	}
	return stored.ToDomain(), res.RowsAffected, nil
}

func (s *Seeder) ensureBatch(tx *gorm.DB, product *catalog.Product, pkg *catalog.Package, reportURL string) (int64, error) {
	code, err := catalog.DeriveBatchCode(product.Name, pkg.Name)
	if err != nil {
		return 0, err
	}
	var report *string
	if reportURL != "" {
		report = &reportURL
	}
	batch, err := catalog.NewBatch(product, pkg, code, report)
	if err != nil {
		return 0, err
	}
	model := &models.BatchModel{}
	model.FromDomain(batch)

	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(model)
	if res.Error != nil {
		return 0, fmt.Errorf("seed batch %s: %w", code, res.Error)
	}
	return res.RowsAffected, nil
}
