package catalog

import (
	"context"
	"fmt"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreatePackage creates a package under an existing product
func (s *Service) CreatePackage(ctx context.Context, req CreatePackageRequest) (*PackageResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	pkg, err := catalog.NewPackage(product.ID, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.packages.ExistsByProductAndName(ctx, product.ID, pkg.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, packageNameConflict(product.Name, pkg.Name)
	}

	if err := s.packages.Create(ctx, pkg); err != nil {
		if shared.IsConflict(err) {
			return nil, packageNameConflict(product.Name, pkg.Name)
		}
		return nil, err
	}

	s.logger.Info("Package created",
		zap.String("package_id", pkg.ID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("name", pkg.Name))

	response := ToPackageResponse(catalog.PackageDetail{Package: *pkg, ProductName: product.Name})
	return &response, nil
}

// UpdatePackage renames a package. Batch codes already issued are kept.
func (s *Service) UpdatePackage(ctx context.Context, id uuid.UUID, req UpdatePackageRequest) (*PackageResponse, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := pkg.Name
	if err := pkg.Rename(req.Name); err != nil {
		return nil, err
	}

	if pkg.Name != previous {
		exists, err := s.packages.ExistsByProductAndName(ctx, pkg.ProductID, pkg.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, packageNameConflict("", pkg.Name)
		}
		if err := s.packages.Update(ctx, pkg); err != nil {
			if shared.IsConflict(err) {
				return nil, packageNameConflict("", pkg.Name)
			}
			return nil, err
		}
	}

	return s.GetPackage(ctx, id)
}

// DeletePackage removes a package with its batches and their submissions
func (s *Service) DeletePackage(ctx context.Context, id uuid.UUID) (*DeleteResponse, error) {
	outcome, err := s.deleter.DeletePackage(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Package deleted",
		zap.String("package_id", id.String()),
		zap.Int64("batches", outcome.Batches),
		zap.Int64("submissions", outcome.Submissions))

	s.discardReports(ctx, outcome.ReportURLs...)
	return toDeleteResponse(outcome), nil
}

// GetPackage returns a package with its product name and batch count
func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*PackageResponse, error) {
	detail, err := s.packages.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPackageResponse(*detail)
	return &response, nil
}

// ListPackages returns packages, optionally only those of one product
func (s *Service) ListPackages(ctx context.Context, productID *uuid.UUID) ([]PackageResponse, error) {
	if productID != nil {
		if _, err := s.products.FindByID(ctx, *productID); err != nil {
			return nil, err
		}
	}

	details, err := s.packages.ListDetails(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToPackageResponses(details), nil
}

func packageNameConflict(productName, name string) error {
	if productName == "" {
		return shared.NewConflictError(fmt.Sprintf("Package '%s' already exists for this product", name))
	}
	return shared.NewConflictError(fmt.Sprintf("Package '%s' already exists for product '%s'", name, productName))
}
