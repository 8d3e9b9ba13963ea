package catalog

import (
	"strings"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Batch is a manufactured lot identified by a globally unique code.
// The code never changes after creation; the report URL may be replaced.
type Batch struct {
	shared.BaseEntity
	ProductID uuid.UUID
	PackageID uuid.UUID
	Code      string
	ReportURL *string
}

// NewBatch creates a batch for a product/package pair with an already resolved code
func NewBatch(product *Product, pkg *Package, code string, reportURL *string) (*Batch, error) {
	if product == nil || pkg == nil {
		return nil, shared.NewValidationError("Product and package are required")
	}
	if pkg.ProductID != product.ID {
		return nil, shared.NewValidationError("Package does not belong to product")
	}
	if !ValidateBatchCodeFormat(code) {
		return nil, shared.NewValidationError("Invalid batch code format")
	}
	return &Batch{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  product.ID,
		PackageID:  pkg.ID,
		Code:       code,
		ReportURL:  normalizeURL(reportURL),
	}, nil
}

// ReplaceReport sets a new report URL and returns the previous one
func (b *Batch) ReplaceReport(url *string) *string {
	previous := b.ReportURL
	b.ReportURL = normalizeURL(url)
	b.Touch()
	return previous
}

// HasReport reports whether the batch links to a report document
func (b *Batch) HasReport() bool {
	return b.ReportURL != nil
}

func normalizeURL(url *string) *string {
	if url == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*url)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// BatchDetail is a batch with its parent names and submission count
type BatchDetail struct {
	Batch
	ProductName     string
	PackageName     string
	SubmissionCount int64
}

// BatchFilter narrows batch listings
type BatchFilter struct {
	ProductID *uuid.UUID
	PackageID *uuid.UUID
}
