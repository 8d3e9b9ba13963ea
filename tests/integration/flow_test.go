package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	catalogapp "github.com/batchtrack/backend/internal/application/catalog"
	submissionapp "github.com/batchtrack/backend/internal/application/submission"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/batchtrack/backend/internal/infrastructure/classify"
	"github.com/batchtrack/backend/internal/infrastructure/persistence"
	"github.com/batchtrack/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	db         *TestDB
	blobs      *storage.MemoryBlobStore
	catalog    *catalogapp.Service
	log        *submissionapp.Log
	aggregator *submissionapp.Aggregator
	redemption *submissionapp.RedemptionService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := NewTestDB(t)

	blobs := storage.NewMemoryBlobStore("")
	batches := persistence.NewGormBatchRepository(db.DB)
	submissions := persistence.NewGormSubmissionRepository(db.DB)
	log := submissionapp.NewLog(submissions, batches, classify.NewClassifier(classify.StaticLocator{}), nil)

	return &stack{
		db:    db,
		blobs: blobs,
		catalog: catalogapp.NewService(
			persistence.NewGormProductRepository(db.DB),
			persistence.NewGormPackageRepository(db.DB),
			batches,
			persistence.NewGormCascadeDeleter(db.DB),
			blobs,
			nil,
		),
		log:        log,
		aggregator: submissionapp.NewAggregator(submissions),
		redemption: submissionapp.NewRedemptionService(batches, log, nil),
	}
}

func TestSeedAndRedeem(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	s := newStack(t)

	result, err := persistence.NewSeeder(s.db.DB).Seed(ctx, persistence.DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Batches)

	req := submissionapp.RedeemRequest{
		Email:     "Customer@Example.com",
		BatchCode: "pe250mg",
		Request: submission.RequestContext{
			RemoteAddr: "10.0.0.7:51234",
			Header: map[string][]string{
				"User-Agent": {"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1"},
			},
		},
	}
	redeemed, err := s.redemption.Redeem(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "PE250MG", redeemed.BatchCode)
	assert.Equal(t, "Pepper Powder", redeemed.ProductName)
	assert.Equal(t, "250mg", redeemed.PackageName)

	history, err := s.aggregator.HistoryForCustomer(ctx, "customer@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "customer@example.com", history[0].Email)
	assert.Equal(t, "10.0.0.7", history[0].IPAddress)
	assert.Equal(t, "iOS", history[0].OS)
	assert.Equal(t, "Mobile", history[0].Device)
	assert.Equal(t, "Local Network", history[0].Location)

	_, err = s.redemption.Redeem(ctx, submissionapp.RedeemRequest{Email: "x@y.com", BatchCode: "ZZ999"})
	assert.True(t, shared.IsNotFound(err))
}

func TestConcurrentBatchCreationKeepsCodesUnique(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	s := newStack(t)

	product, err := s.catalog.CreateProduct(ctx, catalogapp.CreateProductRequest{Name: "Turmeric"})
	require.NoError(t, err)
	pkg, err := s.catalog.CreatePackage(ctx, catalogapp.CreatePackageRequest{ProductID: product.ID, Name: "100mg"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.catalog.CreateBatch(ctx, catalogapp.CreateBatchRequest{ProductID: product.ID, PackageID: pkg.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case shared.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestConcurrentRedemptionsAreAllLogged(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	s := newStack(t)

	_, err := persistence.NewSeeder(s.db.DB).Seed(ctx, persistence.DefaultSeed)
	require.NoError(t, err)

	const customers = 20
	var wg sync.WaitGroup
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.redemption.Redeem(ctx, submissionapp.RedeemRequest{
				Email:     fmt.Sprintf("c%d@example.com", i%5),
				BatchCode: "TU100MG",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.log.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, customers)

	unique, err := s.aggregator.UniqueCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, unique, 5)
}

func TestCascadeDeleteRemovesReports(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	s := newStack(t)

	product, err := s.catalog.CreateProduct(ctx, catalogapp.CreateProductRequest{Name: "Pepper Powder"})
	require.NoError(t, err)
	for _, name := range []string{"100mg", "250mg"} {
		pkg, err := s.catalog.CreatePackage(ctx, catalogapp.CreatePackageRequest{ProductID: product.ID, Name: name})
		require.NoError(t, err)
		_, err = s.catalog.CreateBatch(ctx, catalogapp.CreateBatchRequest{
			ProductID: product.ID,
			PackageID: pkg.ID,
			Report:    &catalogapp.ReportUpload{Data: []byte("%PDF-1.4"), Filename: name + ".pdf", ContentType: "application/pdf"},
		})
		require.NoError(t, err)
	}
	_, err = s.redemption.Redeem(ctx, submissionapp.RedeemRequest{Email: "a@b.com", BatchCode: "PE100MG"})
	require.NoError(t, err)
	require.Equal(t, 2, s.blobs.Len())

	removed, err := s.catalog.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, &catalogapp.DeleteResponse{Products: 1, Packages: 2, Batches: 2, Submissions: 1}, removed)
	assert.Zero(t, s.blobs.Len())

	all, err := s.log.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
