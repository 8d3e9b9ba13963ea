package persistence

import (
	"context"
	"errors"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/batchtrack/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const submissionRecordColumns = `submissions.*, batches.code AS batch_code, batches.report_url AS report_url,
	products.name AS product_name, packages.name AS package_name`

// GormSubmissionRepository implements the submission log using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Append inserts a submission and assigns its Seq
func (r *GormSubmissionRepository) Append(ctx context.Context, s *submission.Submission) error {
	model := &models.SubmissionModel{}
	model.FromDomain(s)
	model.Seq = 0

	if err := r.db.WithContext(ctx).Omit("Batch").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return shared.NewNotFoundError("Batch not found")
		}
		return translateError(err, "Submission")
	}
	s.Seq = model.Seq
	return nil
}

func (r *GormSubmissionRepository) recordQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("submissions").
		Select(submissionRecordColumns).
		Joins("JOIN batches ON batches.id = submissions.batch_id").
		Joins("JOIN products ON products.id = batches.product_id").
		Joins("JOIN packages ON packages.id = batches.package_id")
}

func (r *GormSubmissionRepository) list(query *gorm.DB) ([]submission.Record, error) {
	var rows []models.SubmissionRecordRow
	if err := query.
		Order("submissions.submitted_at DESC").
		Order("submissions.seq DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]submission.Record, len(rows))
	for i := range rows {
		records[i] = rows[i].ToDomain()
	}
	return records, nil
}

// FindByID returns one record
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*submission.Record, error) {
	records, err := r.list(r.recordQuery(ctx).Where("submissions.id = ?", id).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, translateError(gorm.ErrRecordNotFound, "Submission")
	}
	return &records[0], nil
}

// ListAll returns every record, newest first
func (r *GormSubmissionRepository) ListAll(ctx context.Context) ([]submission.Record, error) {
	return r.list(r.recordQuery(ctx))
}

// ListByBatch returns the records of one batch, newest first
func (r *GormSubmissionRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]submission.Record, error) {
	return r.list(r.recordQuery(ctx).Where("submissions.batch_id = ?", batchID))
}

// ListByCustomer returns the records of one customer, newest first
func (r *GormSubmissionRepository) ListByCustomer(ctx context.Context, customerID string) ([]submission.Record, error) {
	return r.list(r.recordQuery(ctx).Where("submissions.customer_id = ?", customerID))
}

// Delete removes one submission
func (r *GormSubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SubmissionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "Submission")
	}
	return nil
}
