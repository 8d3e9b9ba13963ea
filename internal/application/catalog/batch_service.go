package catalog

import (
	"context"
	"fmt"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBatch creates a batch for a product/package pair.
//
// The code is derived from the names unless one is given explicitly. An
// uploaded report is stored before the row is inserted; when the insert
// fails the uploaded blob is removed again.
func (s *Service) CreateBatch(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	if req.Report != nil && req.ReportURL != nil {
		return nil, shared.NewValidationError("Provide either a report file or a report URL, not both")
	}
	if req.Report != nil {
		if err := req.Report.Validate(); err != nil {
			return nil, err
		}
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	code, err := catalog.ResolveBatchCode(req.Code, product.Name, pkg.Name)
	if err != nil {
		return nil, err
	}

	batch, err := catalog.NewBatch(product, pkg, code, req.ReportURL)
	if err != nil {
		return nil, err
	}

	exists, err := s.batches.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, batchCodeConflict(code)
	}

	var uploaded string
	if req.Report != nil {
		uploaded, err = s.uploadReport(ctx, *req.Report)
		if err != nil {
			return nil, err
		}
		batch.ReportURL = &uploaded
	}

	if err := s.batches.Create(ctx, batch); err != nil {
		s.discardReports(ctx, uploaded)
		if shared.IsConflict(err) {
			return nil, batchCodeConflict(code)
		}
		return nil, err
	}

	s.logger.Info("Batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("code", batch.Code),
		zap.Bool("derived", req.Code == nil),
		zap.Bool("has_report", batch.HasReport()))

	response := ToBatchResponse(catalog.BatchDetail{
		Batch:       *batch,
		ProductName: product.Name,
		PackageName: pkg.Name,
	})
	return &response, nil
}

// ReplaceBatchReport uploads a new report for a batch and deletes the old
// blob once the new URL is stored
func (s *Service) ReplaceBatchReport(ctx context.Context, id uuid.UUID, report ReportUpload) (*BatchResponse, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadReport(ctx, report)
	if err != nil {
		return nil, err
	}

	previous := batch.ReplaceReport(&url)
	if err := s.batches.UpdateReportURL(ctx, batch.ID, batch.ReportURL); err != nil {
		s.discardReports(ctx, url)
		return nil, err
	}

	if previous != nil && *previous != url {
		s.discardReports(ctx, *previous)
	}

	s.logger.Info("Batch report replaced",
		zap.String("batch_id", batch.ID.String()),
		zap.String("code", batch.Code))

	return s.GetBatch(ctx, id)
}

// DeleteBatch removes a batch and its submissions
func (s *Service) DeleteBatch(ctx context.Context, id uuid.UUID) (*DeleteResponse, error) {
	outcome, err := s.deleter.DeleteBatch(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Batch deleted",
		zap.String("batch_id", id.String()),
		zap.Int64("submissions", outcome.Submissions))

	s.discardReports(ctx, outcome.ReportURLs...)
	return toDeleteResponse(outcome), nil
}

// GetBatch returns a batch with its parent names and submission count
func (s *Service) GetBatch(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	detail, err := s.batches.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(*detail)
	return &response, nil
}

// ListBatches returns all batches, newest first
func (s *Service) ListBatches(ctx context.Context, filter catalog.BatchFilter) ([]BatchResponse, error) {
	details, err := s.batches.ListDetails(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(details), nil
}

// ListBatchesByProduct returns the batches of one product
func (s *Service) ListBatchesByProduct(ctx context.Context, productID uuid.UUID) ([]BatchResponse, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.ListBatches(ctx, catalog.BatchFilter{ProductID: &productID})
}

// FindBatchByCode looks a batch up by the code printed on the package.
// The code is normalized before the exact match.
func (s *Service) FindBatchByCode(ctx context.Context, code string) (*BatchResponse, error) {
	normalized := catalog.NormalizeBatchCode(code)
	if normalized == "" {
		return nil, shared.NewValidationError("Batch code is required")
	}

	detail, err := s.batches.FindDetailByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, shared.NewNotFoundError("Batch not found")
	}

	response := ToBatchResponse(*detail)
	return &response, nil
}

func batchCodeConflict(code string) error {
	return shared.NewConflictError(fmt.Sprintf("Batch with code %s already exists", code))
}
