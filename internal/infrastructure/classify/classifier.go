package classify

import (
	"context"

	"github.com/batchtrack/backend/internal/domain/submission"
)

// Classifier turns a raw request into submission metadata.
// It never fails: anything it cannot determine is Unknown.
type Classifier struct {
	locator Locator
}

// NewClassifier creates a classifier. A nil locator disables geolocation.
func NewClassifier(locator Locator) *Classifier {
	if locator == nil {
		locator = StaticLocator{}
	}
	return &Classifier{locator: locator}
}

// Classify implements the submission classifier
func (c *Classifier) Classify(ctx context.Context, rc submission.RequestContext) submission.Metadata {
	ip := ClientIP(rc)
	agent := ParseUserAgent(rc.UserAgent())

	location := submission.Unknown
	if ip != "" {
		location = c.locator.Locate(ctx, ip)
	}
	return submission.Metadata{
		IPAddress: ip,
		Device:    agent.Device,
		OS:        agent.OS,
		Browser:   agent.Browser,
		Location:  location,
	}.WithDefaults()
}
