package catalog

import (
	"context"
	"fmt"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateProduct creates a new product
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.products.ExistsByName(ctx, product.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, productNameConflict(product.Name)
	}

	if err := s.products.Create(ctx, product); err != nil {
		if shared.IsConflict(err) {
			return nil, productNameConflict(product.Name)
		}
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	response := ToProductResponse(catalog.ProductDetail{Product: *product})
	return &response, nil
}

// UpdateProduct renames a product. Batch codes already issued are kept.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := product.Name
	if err := product.Rename(req.Name); err != nil {
		return nil, err
	}

	if product.Name != previous {
		exists, err := s.products.ExistsByName(ctx, product.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, productNameConflict(product.Name)
		}
		if err := s.products.Update(ctx, product); err != nil {
			if shared.IsConflict(err) {
				return nil, productNameConflict(product.Name)
			}
			return nil, err
		}
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product with its packages, batches and submissions.
// Report blobs of the removed batches are deleted after the commit.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) (*DeleteResponse, error) {
	outcome, err := s.deleter.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", id.String()),
		zap.Int64("packages", outcome.Packages),
		zap.Int64("batches", outcome.Batches),
		zap.Int64("submissions", outcome.Submissions))

	s.discardReports(ctx, outcome.ReportURLs...)
	return toDeleteResponse(outcome), nil
}

// GetProduct returns a product with its counts
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	detail, err := s.products.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(*detail)
	return &response, nil
}

// ListProducts returns all products, newest first
func (s *Service) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	details, err := s.products.ListDetails(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(details), nil
}

func productNameConflict(name string) error {
	return shared.NewConflictError(fmt.Sprintf("Product with name '%s' already exists", name))
}
