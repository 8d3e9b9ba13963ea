package catalog

import (
	"context"
	"testing"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestService_CreatePackage(t *testing.T) {
	ctx := context.Background()

	t.Run("creates package under product", func(t *testing.T) {
		svc, deps := newTestService()
		product := newTestProduct(t, "Pepper Powder")
		deps.products.On("FindByID", ctx, product.ID).Return(product, nil)
		deps.packages.On("ExistsByProductAndName", ctx, product.ID, "100mg").Return(false, nil)
		deps.packages.On("Create", ctx, mock.MatchedBy(func(p *catalog.Package) bool {
			return p.ProductID == product.ID && p.Name == "100mg"
		})).Return(nil)

		resp, err := svc.CreatePackage(ctx, CreatePackageRequest{ProductID: product.ID, Name: "100mg"})
		require.NoError(t, err)
		assert.Equal(t, "100mg", resp.Name)
		assert.Equal(t, "Pepper Powder", resp.ProductName)
		deps.assertExpectations(t)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		svc, deps := newTestService()
		id := uuid.New()
		deps.products.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Product not found"))

		_, err := svc.CreatePackage(ctx, CreatePackageRequest{ProductID: id, Name: "100mg"})
		assert.True(t, shared.IsNotFound(err))
		deps.packages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate pair is a conflict", func(t *testing.T) {
		svc, deps := newTestService()
		product := newTestProduct(t, "Pepper Powder")
		deps.products.On("FindByID", ctx, product.ID).Return(product, nil)
		deps.packages.On("ExistsByProductAndName", ctx, product.ID, "100mg").Return(true, nil)

		_, err := svc.CreatePackage(ctx, CreatePackageRequest{ProductID: product.ID, Name: "100mg"})
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
		assert.Contains(t, err.Error(), "Pepper Powder")
	})
}

func TestService_UpdatePackage(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()
	product := newTestProduct(t, "Pepper Powder")
	pkg, err := catalog.NewPackage(product.ID, "100mg")
	require.NoError(t, err)

	deps.packages.On("FindByID", ctx, pkg.ID).Return(pkg, nil)
	deps.packages.On("ExistsByProductAndName", ctx, product.ID, "100 mg").Return(false, nil)
	deps.packages.On("Update", ctx, pkg).Return(nil)
	deps.packages.On("GetDetail", ctx, pkg.ID).Return(&catalog.PackageDetail{
		Package:     *pkg,
		ProductName: product.Name,
		BatchCount:  1,
	}, nil)

	resp, err := svc.UpdatePackage(ctx, pkg.ID, UpdatePackageRequest{Name: "100 mg"})
	require.NoError(t, err)
	assert.Equal(t, "100 mg", resp.Name)
	assert.Equal(t, int64(1), resp.BatchCount)
	deps.assertExpectations(t)
}

func TestService_DeletePackage(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService()
	id := uuid.New()
	deps.deleter.On("DeletePackage", ctx, id).Return(&catalog.DeleteOutcome{
		Packages:    1,
		Batches:     2,
		Submissions: 6,
	}, nil)

	resp, err := svc.DeletePackage(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.Submissions)
	deps.blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_ListPackages(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by existing product", func(t *testing.T) {
		svc, deps := newTestService()
		product := newTestProduct(t, "Pepper Powder")
		deps.products.On("FindByID", ctx, product.ID).Return(product, nil)
		deps.packages.On("ListDetails", ctx, &product.ID).Return([]catalog.PackageDetail{}, nil)

		resp, err := svc.ListPackages(ctx, &product.ID)
		require.NoError(t, err)
		assert.Empty(t, resp)
		deps.assertExpectations(t)
	})

	t.Run("unknown product filter is not found", func(t *testing.T) {
		svc, deps := newTestService()
		id := uuid.New()
		deps.products.On("FindByID", ctx, id).Return(nil, shared.NewNotFoundError("Product not found"))

		_, err := svc.ListPackages(ctx, &id)
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("lists all without filter", func(t *testing.T) {
		svc, deps := newTestService()
		var none *uuid.UUID
		deps.packages.On("ListDetails", ctx, none).Return([]catalog.PackageDetail{{}, {}}, nil)

		resp, err := svc.ListPackages(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, resp, 2)
	})
}
