package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rejection reasons recorded on batchtrack_redemption_rejected_total
const (
	RejectInvalidInput = "invalid_input"
	RejectUnknownCode  = "unknown_code"
)

// RedemptionMetrics counts customer redemptions.
type RedemptionMetrics struct {
	redeemed *Counter
	rejected *Counter
}

// NewRedemptionMetrics creates the redemption counters on meter.
func NewRedemptionMetrics(meter metric.Meter) (*RedemptionMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	redeemed, err := NewCounter(meter,
		"batchtrack_redemption_total",
		"Total number of successful batch code redemptions",
		"{redemptions}",
	)
	if err != nil {
		return nil, err
	}

	rejected, err := NewCounter(meter,
		"batchtrack_redemption_rejected_total",
		"Total number of rejected batch code redemptions",
		"{redemptions}",
	)
	if err != nil {
		return nil, err
	}

	return &RedemptionMetrics{redeemed: redeemed, rejected: rejected}, nil
}

// RecordRedeemed counts a successful redemption of productName.
func (m *RedemptionMetrics) RecordRedeemed(ctx context.Context, productName string) {
	m.redeemed.Inc(ctx, attribute.String("product", productName))
}

// RecordRejected counts a rejected redemption.
func (m *RedemptionMetrics) RecordRejected(ctx context.Context, reason string) {
	m.rejected.Inc(ctx, attribute.String("reason", reason))
}
