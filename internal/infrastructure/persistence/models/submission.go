package models

import (
	"time"

	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// SubmissionModel is the persistence model for a redemption event.
// Seq is the surrogate key and records insertion order.
type SubmissionModel struct {
	Seq         int64     `gorm:"primaryKey;autoIncrement"`
	ID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_id"`
	CustomerID  string    `gorm:"type:varchar(32);not null;index:idx_submissions_customer"`
	Email       string    `gorm:"type:varchar(320);not null"`
	BatchID     uuid.UUID `gorm:"type:uuid;not null;index:idx_submissions_batch"`
	IPAddress   string    `gorm:"type:varchar(64);not null"`
	Device      string    `gorm:"type:varchar(64);not null"`
	OS          string    `gorm:"column:os;type:varchar(64);not null"`
	Browser     string    `gorm:"type:varchar(64);not null"`
	Location    string    `gorm:"type:varchar(255);not null"`
	SubmittedAt time.Time `gorm:"not null;index:idx_submissions_submitted_at"`

	Batch *BatchModel `gorm:"foreignKey:BatchID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "submissions"
}

// ToDomain converts the persistence model to a domain Submission.
func (m *SubmissionModel) ToDomain() *submission.Submission {
	return &submission.Submission{
		ID:         m.ID,
		Seq:        m.Seq,
		CustomerID: m.CustomerID,
		Email:      m.Email,
		BatchID:    m.BatchID,
		Metadata: submission.Metadata{
			IPAddress: m.IPAddress,
			Device:    m.Device,
			OS:        m.OS,
			Browser:   m.Browser,
			Location:  m.Location,
		},
		SubmittedAt: m.SubmittedAt,
	}
}

// FromDomain populates the persistence model from a domain Submission.
func (m *SubmissionModel) FromDomain(s *submission.Submission) {
	m.Seq = s.Seq
	m.ID = s.ID
	m.CustomerID = s.CustomerID
	m.Email = s.Email
	m.BatchID = s.BatchID
	m.IPAddress = s.IPAddress
	m.Device = s.Device
	m.OS = s.OS
	m.Browser = s.Browser
	m.Location = s.Location
	m.SubmittedAt = s.SubmittedAt
}

// SubmissionRecordRow is the scan target for a submission joined with its batch
type SubmissionRecordRow struct {
	SubmissionModel
	BatchCode   string
	ReportURL   *string
	ProductName string
	PackageName string
}

// ToDomain converts the row to a domain Record
func (r *SubmissionRecordRow) ToDomain() submission.Record {
	return submission.Record{
		Submission:  *r.SubmissionModel.ToDomain(),
		BatchCode:   r.BatchCode,
		ProductName: r.ProductName,
		PackageName: r.PackageName,
		ReportURL:   r.ReportURL,
	}
}

// AllModels lists every model, in dependency order, for AutoMigrate
func AllModels() []any {
	return []any{
		&ProductModel{},
		&PackageModel{},
		&BatchModel{},
		&SubmissionModel{},
	}
}
