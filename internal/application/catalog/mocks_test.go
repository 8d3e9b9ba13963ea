package catalog

import (
	"context"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ListDetails(ctx context.Context) ([]catalog.ProductDetail, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.ProductDetail), args.Error(1)
}

func (m *MockProductRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductDetail), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockPackageRepository is a mock implementation of catalog.PackageRepository
type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Package), args.Error(1)
}

func (m *MockPackageRepository) ExistsByProductAndName(ctx context.Context, productID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, productID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackageRepository) ListDetails(ctx context.Context, productID *uuid.UUID) ([]catalog.PackageDetail, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.PackageDetail), args.Error(1)
}

func (m *MockPackageRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.PackageDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PackageDetail), args.Error(1)
}

func (m *MockPackageRepository) Create(ctx context.Context, pkg *catalog.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *MockPackageRepository) Update(ctx context.Context, pkg *catalog.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

// MockBatchRepository is a mock implementation of catalog.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByCode(ctx context.Context, code string) (*catalog.Batch, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindDetailByCode(ctx context.Context, code string) (*catalog.BatchDetail, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BatchDetail), args.Error(1)
}

func (m *MockBatchRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBatchRepository) ListDetails(ctx context.Context, filter catalog.BatchFilter) ([]catalog.BatchDetail, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.BatchDetail), args.Error(1)
}

func (m *MockBatchRepository) GetDetail(ctx context.Context, id uuid.UUID) (*catalog.BatchDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BatchDetail), args.Error(1)
}

func (m *MockBatchRepository) Create(ctx context.Context, batch *catalog.Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockBatchRepository) UpdateReportURL(ctx context.Context, id uuid.UUID, url *string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// MockCascadeDeleter is a mock implementation of catalog.CascadeDeleter
type MockCascadeDeleter struct {
	mock.Mock
}

func (m *MockCascadeDeleter) DeleteProduct(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.DeleteOutcome), args.Error(1)
}

func (m *MockCascadeDeleter) DeletePackage(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.DeleteOutcome), args.Error(1)
}

func (m *MockCascadeDeleter) DeleteBatch(ctx context.Context, id uuid.UUID) (*catalog.DeleteOutcome, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.DeleteOutcome), args.Error(1)
}

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	args := m.Called(ctx, data, filename, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) bool {
	args := m.Called(ctx, url)
	return args.Bool(0)
}

type testDeps struct {
	products *MockProductRepository
	packages *MockPackageRepository
	batches  *MockBatchRepository
	deleter  *MockCascadeDeleter
	blobs    *MockBlobStore
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		products: new(MockProductRepository),
		packages: new(MockPackageRepository),
		batches:  new(MockBatchRepository),
		deleter:  new(MockCascadeDeleter),
		blobs:    new(MockBlobStore),
	}
	svc := NewService(deps.products, deps.packages, deps.batches, deps.deleter, deps.blobs, nil)
	return svc, deps
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	d.products.AssertExpectations(t)
	d.packages.AssertExpectations(t)
	d.batches.AssertExpectations(t)
	d.deleter.AssertExpectations(t)
	d.blobs.AssertExpectations(t)
}
