package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRedemptionService_Redeem(t *testing.T) {
	ctx := context.Background()

	newService := func() (*RedemptionService, *MockSubmissionRepository, *MockBatchRepository, *MockClassifier) {
		log, repo, batches, classifier := newTestLog()
		return NewRedemptionService(batches, log, nil), repo, batches, classifier
	}

	t.Run("returns report for a known code", func(t *testing.T) {
		svc, repo, batches, classifier := newService()
		batch := pepperBatch()
		batches.On("FindDetailByCode", ctx, "PE100MG").Return(batch, nil)
		classifier.On("Classify", ctx, mock.Anything).Return(submission.Metadata{Device: "Desktop"})
		repo.On("Append", ctx, mock.Anything).Return(nil)

		result, err := svc.Redeem(ctx, RedeemRequest{Email: "a@x.com", BatchCode: " pe100mg "})
		require.NoError(t, err)
		assert.Equal(t, "PE100MG", result.BatchCode)
		assert.Equal(t, "Pepper Powder", result.ProductName)
		assert.Equal(t, "100mg", result.PackageName)
		require.NotNil(t, result.ReportURL)
		assert.Equal(t, *batch.ReportURL, *result.ReportURL)
		assert.Equal(t, fixedNow, result.SubmittedAt)
		repo.AssertNumberOfCalls(t, "Append", 1)
	})

	t.Run("unknown code is rejected without writing", func(t *testing.T) {
		svc, repo, batches, classifier := newService()
		batches.On("FindDetailByCode", ctx, "NOPE").Return(nil, nil)

		_, err := svc.Redeem(ctx, RedeemRequest{Email: "a@x.com", BatchCode: "NOPE"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidBatchCode)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, "Invalid Batch Number. Please check and try again.", err.Error())
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	})

	t.Run("missing fields are invalid", func(t *testing.T) {
		svc, _, batches, _ := newService()

		_, err := svc.Redeem(ctx, RedeemRequest{BatchCode: "PE100MG"})
		assert.True(t, shared.IsValidation(err))

		_, err = svc.Redeem(ctx, RedeemRequest{Email: "a@x.com"})
		assert.True(t, shared.IsValidation(err))

		batches.AssertNotCalled(t, "FindDetailByCode", mock.Anything, mock.Anything)
	})

	t.Run("malformed email is invalid", func(t *testing.T) {
		svc, repo, batches, classifier := newService()
		batches.On("FindDetailByCode", ctx, "PE100MG").Return(pepperBatch(), nil)
		classifier.On("Classify", ctx, mock.Anything).Return(submission.Metadata{})

		_, err := svc.Redeem(ctx, RedeemRequest{Email: "not-an-email", BatchCode: "PE100MG"})
		assert.True(t, shared.IsValidation(err))
		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("batch removed before insert is an invalid code", func(t *testing.T) {
		svc, repo, batches, classifier := newService()
		batches.On("FindDetailByCode", ctx, "PE100MG").Return(pepperBatch(), nil)
		classifier.On("Classify", ctx, mock.Anything).Return(submission.Metadata{})
		repo.On("Append", ctx, mock.Anything).Return(shared.NewNotFoundError("Batch not found"))

		_, err := svc.Redeem(ctx, RedeemRequest{Email: "a@x.com", BatchCode: "PE100MG"})
		assert.ErrorIs(t, err, ErrInvalidBatchCode)
	})

	t.Run("lookup failure is returned as is", func(t *testing.T) {
		svc, _, batches, _ := newService()
		batches.On("FindDetailByCode", ctx, "PE100MG").Return(nil, errors.New("connection reset"))

		_, err := svc.Redeem(ctx, RedeemRequest{Email: "a@x.com", BatchCode: "PE100MG"})
		assert.EqualError(t, err, "connection reset")
	})
}
