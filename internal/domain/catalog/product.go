package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/batchtrack/backend/internal/domain/shared"
)

const maxNameLength = 200

// Product is a manufactured item. It owns its packages.
type Product struct {
	shared.BaseEntity
	Name string
}

// NewProduct creates a new product. Names are compared case-sensitively.
func NewProduct(name string) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateName("Product name", name); err != nil {
		return nil, err
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the product name. Existing batch codes are not re-derived.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateName("Product name", name); err != nil {
		return err
	}
	p.Name = name
	p.Touch()
	return nil
}

// ProductDetail is a product with derived child counts
type ProductDetail struct {
	Product
	PackageCount int64
	BatchCount   int64
}

func validateName(field, name string) error {
	if name == "" {
		return shared.NewValidationError(field + " cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return shared.NewValidationError(field + " cannot exceed 200 characters")
	}
	return nil
}
