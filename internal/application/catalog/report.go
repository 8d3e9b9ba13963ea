package catalog

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/batchtrack/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllowedReportTypes is the whitelist of content types accepted for batch
// reports. SVG is excluded since it can carry script.
var AllowedReportTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// BlobStore stores batch report documents.
// It is implemented by the infrastructure layer (S3, MinIO, in-memory).
type BlobStore interface {
	// Upload stores data and returns its public URL
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)

	// Delete removes the object behind url. It never fails the caller;
	// false means the object may still exist.
	Delete(ctx context.Context, url string) bool
}

// ReportUpload is a report document received from an admin
type ReportUpload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Validate checks the upload is non-empty and of an allowed type
func (r ReportUpload) Validate() error {
	if len(r.Data) == 0 {
		return shared.NewValidationError("Report file is empty")
	}
	if !AllowedReportTypes[r.normalizedContentType()] {
		return shared.NewValidationError(fmt.Sprintf(
			"Content type '%s' is not allowed. Allowed types: PDF, JPEG, PNG and WebP.", r.ContentType))
	}
	return nil
}

func (r ReportUpload) normalizedContentType() string {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(r.ContentType))
	}
	return mediaType
}

// SafeFilename strips directories and replaces characters that do not
// belong in an object key
func (r ReportUpload) SafeFilename() string {
	name := filepath.Base(strings.ReplaceAll(r.Filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "report"
	}
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			return c
		case c == '.', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, name)
}

// uploadReport validates and stores a report, returning its URL
func (s *Service) uploadReport(ctx context.Context, report ReportUpload) (string, error) {
	if err := report.Validate(); err != nil {
		return "", err
	}
	url, err := s.blobs.Upload(ctx, report.Data, report.SafeFilename(), report.normalizedContentType())
	if err != nil {
		return "", shared.NewUploadError("Failed to upload report", err)
	}
	return url, nil
}

// discardReports deletes blobs after their rows are gone. Failures are only logged.
func (s *Service) discardReports(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if !s.blobs.Delete(ctx, url) {
			s.logger.Warn("Failed to delete report blob", zap.String("report_url", url))
		}
	}
}
