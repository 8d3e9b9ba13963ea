package submission

import (
	"context"
	"strings"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
)

// Aggregator answers customer-level questions over the submission log.
// Results are computed from the log on every call.
type Aggregator struct {
	submissions submission.Repository
}

// NewAggregator creates a new customer aggregator
func NewAggregator(submissions submission.Repository) *Aggregator {
	return &Aggregator{submissions: submissions}
}

// UniqueCustomers returns one entry per customer, most recently active first
func (a *Aggregator) UniqueCustomers(ctx context.Context) ([]CustomerResponse, error) {
	records, err := a.submissions.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(submission.GroupByCustomer(records)), nil
}

// HistoryForCustomer returns every submission of a customer, newest first.
// The customer may be given by id or by email address.
func (a *Aggregator) HistoryForCustomer(ctx context.Context, customer string) ([]SubmissionResponse, error) {
	customerID := strings.TrimSpace(customer)
	if customerID == "" {
		return nil, shared.NewValidationError("Customer ID is required")
	}
	if strings.Contains(customerID, "@") {
		customerID = submission.CustomerIDFor(customerID)
	}

	records, err := a.submissions.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.NewNotFoundError("No submissions found for this customer")
	}

	submission.SortNewestFirst(records)
	return ToSubmissionResponses(records), nil
}
