package submission

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for the submission log.
// All list methods return records newest first.
type Repository interface {
	// Append inserts a submission and assigns its Seq
	Append(ctx context.Context, s *Submission) error

	// FindByID returns one record. Returns a not-found error when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// ListAll returns every record
	ListAll(ctx context.Context) ([]Record, error)

	// ListByBatch returns the records of one batch
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]Record, error)

	// ListByCustomer returns the records of one customer
	ListByCustomer(ctx context.Context, customerID string) ([]Record, error)

	// Delete removes one submission. Returns a not-found error when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
