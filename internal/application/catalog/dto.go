package catalog

import (
	"time"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateProductRequest represents a request to rename a product
type UpdateProductRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PackageCount int64     `json:"package_count"`
	BatchCount   int64     `json:"batch_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatePackageRequest represents a request to create a package under a product
type CreatePackageRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Name      string    `json:"name" binding:"required,min=1,max=200"`
}

// UpdatePackageRequest represents a request to rename a package
type UpdatePackageRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// PackageResponse represents a package in API responses
type PackageResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Name        string    `json:"name"`
	BatchCount  int64     `json:"batch_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateBatchRequest represents a request to create a batch.
// Without Code the code is derived from the product and package names.
// A report may be uploaded (Report) or linked by URL (ReportURL), not both.
type CreateBatchRequest struct {
	ProductID uuid.UUID     `json:"product_id" form:"product_id" binding:"required"`
	PackageID uuid.UUID     `json:"package_id" form:"package_id" binding:"required"`
	Code      *string       `json:"code" form:"code" binding:"omitempty,max=50"`
	ReportURL *string       `json:"report_url" form:"report_url" binding:"omitempty,url"`
	Report    *ReportUpload `json:"-" form:"-"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     string    `json:"product_name"`
	PackageID       uuid.UUID `json:"package_id"`
	PackageName     string    `json:"package_name"`
	ReportURL       *string   `json:"report_url"`
	SubmissionCount int64     `json:"submission_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DeleteResponse reports what a cascading delete removed
type DeleteResponse struct {
	Products    int64 `json:"products"`
	Packages    int64 `json:"packages"`
	Batches     int64 `json:"batches"`
	Submissions int64 `json:"submissions"`
}

// ToProductResponse converts a domain product detail to a response
func ToProductResponse(d catalog.ProductDetail) ProductResponse {
	return ProductResponse{
		ID:           d.ID,
		Name:         d.Name,
		PackageCount: d.PackageCount,
		BatchCount:   d.BatchCount,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToProductResponses converts a slice of product details
func ToProductResponses(details []catalog.ProductDetail) []ProductResponse {
	responses := make([]ProductResponse, len(details))
	for i, d := range details {
		responses[i] = ToProductResponse(d)
	}
	return responses
}

// ToPackageResponse converts a domain package detail to a response
func ToPackageResponse(d catalog.PackageDetail) PackageResponse {
	return PackageResponse{
		ID:          d.ID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Name:        d.Name,
		BatchCount:  d.BatchCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToPackageResponses converts a slice of package details
func ToPackageResponses(details []catalog.PackageDetail) []PackageResponse {
	responses := make([]PackageResponse, len(details))
	for i, d := range details {
		responses[i] = ToPackageResponse(d)
	}
	return responses
}

// ToBatchResponse converts a domain batch detail to a response
func ToBatchResponse(d catalog.BatchDetail) BatchResponse {
	return BatchResponse{
		ID:              d.ID,
		Code:            d.Code,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		PackageID:       d.PackageID,
		PackageName:     d.PackageName,
		ReportURL:       d.ReportURL,
		SubmissionCount: d.SubmissionCount,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToBatchResponses converts a slice of batch details
func ToBatchResponses(details []catalog.BatchDetail) []BatchResponse {
	responses := make([]BatchResponse, len(details))
	for i, d := range details {
		responses[i] = ToBatchResponse(d)
	}
	return responses
}

func toDeleteResponse(o *catalog.DeleteOutcome) *DeleteResponse {
	return &DeleteResponse{
		Products:    o.Products,
		Packages:    o.Packages,
		Batches:     o.Batches,
		Submissions: o.Submissions,
	}
}
