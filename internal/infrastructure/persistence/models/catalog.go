package models

import (
	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_name"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
}

// PackageModel is the persistence model for the Package domain entity.
type PackageModel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_packages_product_name,priority:1"`
	Name      string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_packages_product_name,priority:2"`

	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (PackageModel) TableName() string {
	return "packages"
}

// ToDomain converts the persistence model to a domain Package entity.
func (m *PackageModel) ToDomain() *catalog.Package {
	return &catalog.Package{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Name:       m.Name,
	}
}

// FromDomain populates the persistence model from a domain Package entity.
func (m *PackageModel) FromDomain(p *catalog.Package) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.ProductID = p.ProductID
	m.Name = p.Name
}

// BatchModel is the persistence model for the Batch domain entity.
type BatchModel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_batches_product"`
	PackageID uuid.UUID `gorm:"type:uuid;not null;index:idx_batches_package"`
	Code      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_batches_code"`
	ReportURL *string   `gorm:"type:text"`

	Product *ProductModel `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Package *PackageModel `gorm:"foreignKey:PackageID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
func (m *BatchModel) ToDomain() *catalog.Batch {
	return &catalog.Batch{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		PackageID:  m.PackageID,
		Code:       m.Code,
		ReportURL:  m.ReportURL,
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
func (m *BatchModel) FromDomain(b *catalog.Batch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.ProductID = b.ProductID
	m.PackageID = b.PackageID
	m.Code = b.Code
	m.ReportURL = b.ReportURL
}

// ProductDetailRow is the scan target for product listings with counts
type ProductDetailRow struct {
	ProductModel
	PackageCount int64
	BatchCount   int64
}

// ToDomain converts the row to a domain ProductDetail
func (r *ProductDetailRow) ToDomain() catalog.ProductDetail {
	return catalog.ProductDetail{
		Product:      *r.ProductModel.ToDomain(),
		PackageCount: r.PackageCount,
		BatchCount:   r.BatchCount,
	}
}

// PackageDetailRow is the scan target for package listings
type PackageDetailRow struct {
	PackageModel
	ProductName string
	BatchCount  int64
}

// ToDomain converts the row to a domain PackageDetail
func (r *PackageDetailRow) ToDomain() catalog.PackageDetail {
	return catalog.PackageDetail{
		Package:     *r.PackageModel.ToDomain(),
		ProductName: r.ProductName,
		BatchCount:  r.BatchCount,
	}
}

// BatchDetailRow is the scan target for batch listings
type BatchDetailRow struct {
	BatchModel
	ProductName     string
	PackageName     string
	SubmissionCount int64
}

// ToDomain converts the row to a domain BatchDetail
func (r *BatchDetailRow) ToDomain() catalog.BatchDetail {
	return catalog.BatchDetail{
		Batch:           *r.BatchModel.ToDomain(),
		ProductName:     r.ProductName,
		PackageName:     r.PackageName,
		SubmissionCount: r.SubmissionCount,
	}
}
