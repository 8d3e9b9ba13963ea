package catalog

import (
	"strings"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Package is a named variant or size of a product, e.g. "100mg".
// The pair (ProductID, Name) is unique.
type Package struct {
	shared.BaseEntity
	ProductID uuid.UUID
	Name      string
}

// NewPackage creates a package under the given product
func NewPackage(productID uuid.UUID, name string) (*Package, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID is required")
	}
	name = strings.TrimSpace(name)
	if err := validateName("Package name", name); err != nil {
		return nil, err
	}
	return &Package{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Name:       name,
	}, nil
}

// Rename changes the package name
func (p *Package) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName("Package name", name); err != nil {
		return err
	}
	p.Name = name
	p.Touch()
	return nil
}

// PackageDetail is a package with its product name and batch count
type PackageDetail struct {
	Package
	ProductName string
	BatchCount  int64
}
