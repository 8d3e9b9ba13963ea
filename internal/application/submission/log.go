// Package submission records customer redemptions and answers the admin
// queries over them.
package submission

import (
	"context"
	"time"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Classifier derives submission metadata from the incoming request.
// It never fails: anything it cannot determine is reported as Unknown.
type Classifier interface {
	Classify(ctx context.Context, req submission.RequestContext) submission.Metadata
}

// Log is the append-only submission log
type Log struct {
	submissions submission.Repository
	batches     catalog.BatchRepository
	classifier  Classifier
	logger      *zap.Logger
	now         func() time.Time
}

// NewLog creates a new submission log
func NewLog(
	submissions submission.Repository,
	batches catalog.BatchRepository,
	classifier Classifier,
	logger *zap.Logger,
) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{
		submissions: submissions,
		batches:     batches,
		classifier:  classifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Append resolves the batch code and records a submission for it
func (l *Log) Append(ctx context.Context, req AppendRequest) (*SubmissionResponse, error) {
	code, err := requireCode(req.BatchCode)
	if err != nil {
		return nil, err
	}

	batch, err := l.batches.FindDetailByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, shared.NewNotFoundError("Batch not found")
	}

	record, err := l.record(ctx, req.Email, batch, req.Request)
	if err != nil {
		return nil, err
	}
	response := ToSubmissionResponse(*record)
	return &response, nil
}

// record classifies the request and writes the submission for a resolved batch
func (l *Log) record(ctx context.Context, email string, batch *catalog.BatchDetail, rc submission.RequestContext) (*submission.Record, error) {
	var meta submission.Metadata
	if l.classifier != nil {
		meta = l.classifier.Classify(ctx, rc)
	}

	s, err := submission.New(email, batch.ID, meta, l.now())
	if err != nil {
		return nil, err
	}
	if err := l.submissions.Append(ctx, s); err != nil {
		return nil, err
	}

	l.logger.Info("Submission recorded",
		zap.String("submission_id", s.ID.String()),
		zap.String("customer_id", s.CustomerID),
		zap.String("batch_code", batch.Code),
		zap.String("device", s.Device),
		zap.String("location", s.Location))

	return &submission.Record{
		Submission:  *s,
		BatchCode:   batch.Code,
		ProductName: batch.ProductName,
		PackageName: batch.PackageName,
		ReportURL:   batch.ReportURL,
	}, nil
}

// ListForBatch returns the submissions of one batch, newest first.
// An unknown or deleted batch has no submissions.
func (l *Log) ListForBatch(ctx context.Context, batchID uuid.UUID) ([]SubmissionResponse, error) {
	records, err := l.submissions.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return ToSubmissionResponses(records), nil
}

// ListForCustomer returns the submissions of one customer, newest first
func (l *Log) ListForCustomer(ctx context.Context, customerID string) ([]SubmissionResponse, error) {
	records, err := l.submissions.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToSubmissionResponses(records), nil
}

// ListAll returns every submission, newest first
func (l *Log) ListAll(ctx context.Context) ([]SubmissionResponse, error) {
	records, err := l.submissions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToSubmissionResponses(records), nil
}

// Get returns one submission
func (l *Log) Get(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error) {
	record, err := l.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSubmissionResponse(*record)
	return &response, nil
}

// Delete removes one submission. The batch is not affected.
func (l *Log) Delete(ctx context.Context, id uuid.UUID) error {
	if err := l.submissions.Delete(ctx, id); err != nil {
		return err
	}
	l.logger.Info("Submission deleted", zap.String("submission_id", id.String()))
	return nil
}

func requireCode(code string) (string, error) {
	normalized := catalog.NormalizeBatchCode(code)
	if normalized == "" {
		return "", shared.NewValidationError("Batch number is required")
	}
	return normalized, nil
}
