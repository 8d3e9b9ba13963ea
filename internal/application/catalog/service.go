// Package catalog implements the admin operations on products, packages and
// batches, including cascading deletes and batch report storage.
package catalog

import (
	"github.com/batchtrack/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// Service handles catalog operations
type Service struct {
	products catalog.ProductRepository
	packages catalog.PackageRepository
	batches  catalog.BatchRepository
	deleter  catalog.CascadeDeleter
	blobs    BlobStore
	logger   *zap.Logger
}

// NewService creates a new catalog service
func NewService(
	products catalog.ProductRepository,
	packages catalog.PackageRepository,
	batches catalog.BatchRepository,
	deleter catalog.CascadeDeleter,
	blobs BlobStore,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products: products,
		packages: packages,
		batches:  batches,
		deleter:  deleter,
		blobs:    blobs,
		logger:   logger,
	}
}
