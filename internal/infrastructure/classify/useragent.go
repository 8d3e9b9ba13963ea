package classify

import (
	"strings"

	"github.com/batchtrack/backend/internal/domain/submission"
)

// Device classes
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// AgentInfo is the result of parsing a User-Agent string
type AgentInfo struct {
	Device  string
	OS      string
	Browser string
}

type pattern struct {
	needle string
	name   string
}

// Mobile systems come first: Android and iOS agents also mention Linux and Mac OS X.
var osPatterns = []pattern{
	{"android", "Android"},
	{"iphone", "iOS"},
	{"ipad", "iOS"},
	{"ipod", "iOS"},
	{"windows", "Windows"},
	{"mac os x", "macOS"},
	{"macintosh", "macOS"},
	{"cros ", "Chrome OS"},
	{"linux", "Linux"},
}

// Order matters: Edge and Opera agents contain "chrome", Chrome agents contain "safari".
var browserPatterns = []pattern{
	{"edg/", "Edge"},
	{"edge/", "Edge"},
	{"opr/", "Opera"},
	{"opera", "Opera"},
	{"samsungbrowser", "Samsung Internet"},
	{"firefox", "Firefox"},
	{"fxios", "Firefox"},
	{"crios", "Chrome"},
	{"chrome", "Chrome"},
	{"safari", "Safari"},
}

// ParseUserAgent classifies a User-Agent string.
// Empty input yields Unknown for every field.
func ParseUserAgent(ua string) AgentInfo {
	if strings.TrimSpace(ua) == "" {
		return AgentInfo{Device: submission.Unknown, OS: submission.Unknown, Browser: submission.Unknown}
	}
	lower := strings.ToLower(ua)

	return AgentInfo{
		Device:  deviceOf(lower),
		OS:      match(lower, osPatterns),
		Browser: match(lower, browserPatterns),
	}
}

func match(lower string, patterns []pattern) string {
	for _, p := range patterns {
		if strings.Contains(lower, p.needle) {
			return p.name
		}
	}
	return submission.Unknown
}

func deviceOf(lower string) string {
	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		return DeviceTablet
	case strings.Contains(lower, "android") && !strings.Contains(lower, "mobile"):
		return DeviceTablet
	case strings.Contains(lower, "mobi"), strings.Contains(lower, "iphone"), strings.Contains(lower, "ipod"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}
