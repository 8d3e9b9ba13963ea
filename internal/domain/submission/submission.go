package submission

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Unknown is the value used for metadata that could not be determined
const Unknown = "Unknown"

// Submission is one customer redemption of a batch code.
// Submissions are append-only and never modified after creation.
type Submission struct {
	ID         uuid.UUID
	Seq        int64 // insertion order, assigned by the store
	CustomerID string
	Email      string
	BatchID    uuid.UUID
	Metadata
	SubmittedAt time.Time
}

// Metadata describes where a submission came from
type Metadata struct {
	IPAddress string
	Device    string
	OS        string
	Browser   string
	Location  string
}

// WithDefaults returns a copy where every empty field is Unknown
func (m Metadata) WithDefaults() Metadata {
	orUnknown := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return Unknown
		}
		return v
	}
	return Metadata{
		IPAddress: orUnknown(m.IPAddress),
		Device:    orUnknown(m.Device),
		OS:        orUnknown(m.OS),
		Browser:   orUnknown(m.Browser),
		Location:  orUnknown(m.Location),
	}
}

// RequestContext is the raw request information used to classify a submission
type RequestContext struct {
	// ClientIP is the client address resolved by the HTTP layer against its
	// trusted proxies. It is untrusted input until parsed.
	ClientIP   string
	RemoteAddr string
	Header     http.Header
}

// UserAgent returns the User-Agent header value
func (r RequestContext) UserAgent() string {
	if r.Header == nil {
		return ""
	}
	return r.Header.Get("User-Agent")
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CustomerIDFor derives the stable customer identifier for an email.
// It is the hex MD5 digest of the normalized address, so repeat visits with
// the same email always group together without a customer table.
func CustomerIDFor(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}

// New creates a submission for a resolved batch.
// The email is stored normalized so every row of a customer carries the
// same address.
func New(email string, batchID uuid.UUID, meta Metadata, submittedAt time.Time) (*Submission, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, shared.NewValidationError("Email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, shared.NewValidationError("Email address is invalid")
	}
	if batchID == uuid.Nil {
		return nil, shared.NewValidationError("Batch ID is required")
	}
	return &Submission{
		ID:          uuid.New(),
		CustomerID:  CustomerIDFor(email),
		Email:       email,
		BatchID:     batchID,
		Metadata:    meta.WithDefaults(),
		SubmittedAt: submittedAt.UTC().Truncate(time.Microsecond),
	}, nil
}

// Record is a submission joined with the batch it redeemed
type Record struct {
	Submission
	BatchCode   string
	ProductName string
	PackageName string
	ReportURL   *string
}

// NewerThan orders submissions newest first; equal timestamps fall back to
// insertion order, later insertions first.
func (s *Submission) NewerThan(other *Submission) bool {
	if !s.SubmittedAt.Equal(other.SubmittedAt) {
		return s.SubmittedAt.After(other.SubmittedAt)
	}
	return s.Seq > other.Seq
}
