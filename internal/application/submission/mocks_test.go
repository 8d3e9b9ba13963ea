package submission

import (
	"context"
	"time"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSubmissionRepository is a mock implementation of submission.Repository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Append(ctx context.Context, s *submission.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*submission.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submission.Record), args.Error(1)
}

func (m *MockSubmissionRepository) ListAll(ctx context.Context) ([]submission.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).([]submission.Record), args.Error(1)
}

func (m *MockSubmissionRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]submission.Record, error) {
	args := m.Called(ctx, batchID)
	return args.Get(0).([]submission.Record), args.Error(1)
}

func (m *MockSubmissionRepository) ListByCustomer(ctx context.Context, customerID string) ([]submission.Record, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]submission.Record), args.Error(1)
}

func (m *MockSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBatchRepository is a mock implementation of catalog.BatchRepository.
// Only the lookups used by the submission services are expected.
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

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, req submission.RequestContext) submission.Metadata {
	args := m.Called(ctx, req)
	return args.Get(0).(submission.Metadata)
}

var fixedNow = time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)

func pepperBatch() *catalog.BatchDetail {
	report := "https://cdn.example.com/reports/pe100mg.pdf"
	return &catalog.BatchDetail{
		Batch: catalog.Batch{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			PackageID:  uuid.New(),
			Code:       "PE100MG",
			ReportURL:  &report,
		},
		ProductName: "Pepper Powder",
		PackageName: "100mg",
	}
}

func newTestLog() (*Log, *MockSubmissionRepository, *MockBatchRepository, *MockClassifier) {
	repo := new(MockSubmissionRepository)
	batches := new(MockBatchRepository)
	classifier := new(MockClassifier)
	log := NewLog(repo, batches, classifier, nil)
	log.now = func() time.Time { return fixedNow }
	return log, repo, batches, classifier
}
