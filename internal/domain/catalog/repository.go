package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID. Returns a not-found error when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// ExistsByName checks for a product with exactly this name
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ListDetails lists all products with package and batch counts, newest first
	ListDetails(ctx context.Context) ([]ProductDetail, error)

	// GetDetail returns one product with its counts
	GetDetail(ctx context.Context, id uuid.UUID) (*ProductDetail, error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// Update saves changes to an existing product
	Update(ctx context.Context, product *Product) error
}

// PackageRepository defines the interface for package persistence
type PackageRepository interface {
	// FindByID finds a package by its ID. Returns a not-found error when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Package, error)

	// ExistsByProductAndName checks for a package name under a product
	ExistsByProductAndName(ctx context.Context, productID uuid.UUID, name string) (bool, error)

	// ListDetails lists packages, optionally restricted to one product
	ListDetails(ctx context.Context, productID *uuid.UUID) ([]PackageDetail, error)

	// GetDetail returns one package with its product name and batch count
	GetDetail(ctx context.Context, id uuid.UUID) (*PackageDetail, error)

	// Create inserts a new package
	Create(ctx context.Context, pkg *Package) error

	// Update saves changes to an existing package
	Update(ctx context.Context, pkg *Package) error
}

// BatchRepository defines the interface for batch persistence
type BatchRepository interface {
	// FindByID finds a batch by its ID. Returns a not-found error when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByCode finds a batch by its normalized code.
	// Returns nil, nil when no batch has the code.
	FindByCode(ctx context.Context, code string) (*Batch, error)

	// FindDetailByCode is FindByCode with parent names. Returns nil, nil when absent.
	FindDetailByCode(ctx context.Context, code string) (*BatchDetail, error)

	// ExistsByCode checks whether any batch uses the code
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ListDetails lists batches with parent names, newest first
	ListDetails(ctx context.Context, filter BatchFilter) ([]BatchDetail, error)

	// GetDetail returns one batch with parent names
	GetDetail(ctx context.Context, id uuid.UUID) (*BatchDetail, error)

	// Create inserts a new batch. A duplicate code yields a conflict error.
	Create(ctx context.Context, batch *Batch) error

	// UpdateReportURL replaces the stored report URL
	UpdateReportURL(ctx context.Context, id uuid.UUID, url *string) error
}

// DeleteOutcome describes what a cascading delete removed
type DeleteOutcome struct {
	Products    int64
	Packages    int64
	Batches     int64
	Submissions int64
	// ReportURLs holds the report URLs of every removed batch, for blob cleanup
	ReportURLs []string
}

// CascadeDeleter removes a catalog entity together with everything it owns.
// Each call runs in a single transaction: either the whole subtree is gone or
// nothing changed.
type CascadeDeleter interface {
	DeleteProduct(ctx context.Context, id uuid.UUID) (*DeleteOutcome, error)
	DeletePackage(ctx context.Context, id uuid.UUID) (*DeleteOutcome, error)
	DeleteBatch(ctx context.Context, id uuid.UUID) (*DeleteOutcome, error)
}
