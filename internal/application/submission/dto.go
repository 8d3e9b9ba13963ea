package submission

import (
	"time"

	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/google/uuid"
)

// RedeemRequest is a customer's redemption of a batch code
type RedeemRequest struct {
	Email     string                    `json:"email" binding:"required,email,max=254"`
	BatchCode string                    `json:"batch_code" binding:"required,max=50"`
	Request   submission.RequestContext `json:"-"`
}

// RedeemResult is returned to the customer after a successful redemption
type RedeemResult struct {
	BatchCode   string    `json:"batch_code"`
	ProductName string    `json:"product_name"`
	PackageName string    `json:"package_name"`
	ReportURL   *string   `json:"report_url"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AppendRequest records one submission against a batch code
type AppendRequest struct {
	Email     string
	BatchCode string
	Request   submission.RequestContext
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Email       string    `json:"email"`
	BatchID     uuid.UUID `json:"batch_id"`
	BatchCode   string    `json:"batch_code"`
	ProductName string    `json:"product_name"`
	PackageName string    `json:"package_name"`
	ReportURL   *string   `json:"report_url"`
	IPAddress   string    `json:"ip_address"`
	Device      string    `json:"device"`
	OS          string    `json:"os"`
	Browser     string    `json:"browser"`
	Location    string    `json:"location"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CustomerResponse is one de-duplicated customer
type CustomerResponse struct {
	CustomerID      string             `json:"customer_id"`
	Email           string             `json:"email"`
	SubmissionCount int                `json:"submission_count"`
	LastSubmittedAt time.Time          `json:"last_submitted_at"`
	Latest          SubmissionResponse `json:"latest"`
}

// ToSubmissionResponse converts a domain record to a response
func ToSubmissionResponse(r submission.Record) SubmissionResponse {
	return SubmissionResponse{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Email:       r.Email,
		BatchID:     r.BatchID,
		BatchCode:   r.BatchCode,
		ProductName: r.ProductName,
		PackageName: r.PackageName,
		ReportURL:   r.ReportURL,
		IPAddress:   r.IPAddress,
		Device:      r.Device,
		OS:          r.OS,
		Browser:     r.Browser,
		Location:    r.Location,
		SubmittedAt: r.SubmittedAt,
	}
}

// ToSubmissionResponses converts a slice of records
func ToSubmissionResponses(records []submission.Record) []SubmissionResponse {
	responses := make([]SubmissionResponse, len(records))
	for i, r := range records {
		responses[i] = ToSubmissionResponse(r)
	}
	return responses
}

// ToCustomerResponses converts customer summaries
func ToCustomerResponses(summaries []submission.CustomerSummary) []CustomerResponse {
	responses := make([]CustomerResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = CustomerResponse{
			CustomerID:      s.CustomerID,
			Email:           s.Email,
			SubmissionCount: s.SubmissionCount,
			LastSubmittedAt: s.LastSubmittedAt,
			Latest:          ToSubmissionResponse(s.Latest),
		}
	}
	return responses
}
