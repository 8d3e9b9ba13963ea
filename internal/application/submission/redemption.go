package submission

import (
	"context"
	"strings"

	"github.com/batchtrack/backend/internal/domain/catalog"
	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrInvalidBatchCode is returned when a customer enters a code no batch has
var ErrInvalidBatchCode = shared.NewNotFoundError("Invalid Batch Number. Please check and try again.")

// RedemptionState is a step of a single redemption
type RedemptionState string

// A redemption moves Received -> BatchResolved -> Logged -> Responded,
// or Received -> Rejected when the input or the code is not accepted.
const (
	StateReceived      RedemptionState = "RECEIVED"
	StateBatchResolved RedemptionState = "BATCH_RESOLVED"
	StateLogged        RedemptionState = "LOGGED"
	StateResponded     RedemptionState = "RESPONDED"
	StateRejected      RedemptionState = "REJECTED"
)

// RedemptionService is the customer-facing entry point: it resolves a batch
// code, logs the submission and returns the batch report
type RedemptionService struct {
	batches catalog.BatchRepository
	log     *Log
	logger  *zap.Logger
	metrics *telemetry.RedemptionMetrics
}

// NewRedemptionService creates a new redemption service
func NewRedemptionService(batches catalog.BatchRepository, log *Log, logger *zap.Logger) *RedemptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedemptionService{
		batches: batches,
		log:     log,
		logger:  logger,
	}
}

// SetMetrics sets the redemption metrics collector
func (s *RedemptionService) SetMetrics(m *telemetry.RedemptionMetrics) {
	s.metrics = m
}

// Redeem validates the request, records the submission and returns the report.
// Nothing is written when the request is rejected.
func (s *RedemptionService) Redeem(ctx context.Context, req RedeemRequest) (*RedeemResult, error) {
	state := StateReceived
	reject := func(err error) (*RedeemResult, error) {
		s.logger.Info("Redemption rejected",
			zap.String("from", string(state)),
			zap.String("batch_code", req.BatchCode),
			zap.Error(err))
		if s.metrics != nil {
			reason := telemetry.RejectInvalidInput
			if shared.IsNotFound(err) {
				reason = telemetry.RejectUnknownCode
			}
			s.metrics.RecordRejected(ctx, reason)
		}
		return nil, err
	}

	if strings.TrimSpace(req.Email) == "" {
		return reject(shared.NewValidationError("Email is required"))
	}
	code, err := requireCode(req.BatchCode)
	if err != nil {
		return reject(err)
	}

	batch, err := s.batches.FindDetailByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return reject(ErrInvalidBatchCode)
	}
	state = StateBatchResolved

	record, err := s.log.record(ctx, req.Email, batch, req.Request)
	if err != nil {
		if shared.IsNotFound(err) {
			// batch deleted between lookup and insert
			return reject(ErrInvalidBatchCode)
		}
		if shared.IsValidation(err) {
			return reject(err)
		}
		return nil, err
	}
	state = StateLogged

	result := &RedeemResult{
		BatchCode:   record.BatchCode,
		ProductName: record.ProductName,
		PackageName: record.PackageName,
		ReportURL:   record.ReportURL,
		SubmittedAt: record.SubmittedAt,
	}
	state = StateResponded
	if s.metrics != nil {
		s.metrics.RecordRedeemed(ctx, result.ProductName)
	}

	s.logger.Debug("Redemption completed",
		zap.String("state", string(state)),
		zap.String("batch_code", result.BatchCode),
		zap.String("customer_id", record.CustomerID))
	return result, nil
}
