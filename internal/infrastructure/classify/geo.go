package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/batchtrack/backend/internal/domain/submission"
	"github.com/batchtrack/backend/internal/infrastructure/cache"
	"github.com/batchtrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LocalNetwork is the location reported for loopback and private addresses
const LocalNetwork = "Local Network"

// maxGeoResponseSize caps the body read from the geolocation API
const maxGeoResponseSize = 64 * 1024

// Locator resolves an IP address to a human readable location
type Locator interface {
	Locate(ctx context.Context, ip string) string
}

// ipAPIResponse is the subset of the ip-api.com JSON response we request
type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

// IPAPILocator resolves locations through the ip-api.com JSON endpoint.
// Lookups are rate limited and cached. Every failure yields Unknown.
type IPAPILocator struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      cache.LocationCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewIPAPILocator creates a locator from the geo configuration.
// locationCache may be nil to disable caching.
func NewIPAPILocator(cfg config.GeoConfig, locationCache cache.LocationCache, logger *zap.Logger) *IPAPILocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 45
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &IPAPILocator{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		cache:      locationCache,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger,
	}
}

// Locate returns "City, Region, Country" for a public ip
func (l *IPAPILocator) Locate(ctx context.Context, ip string) string {
	if _, ok := ParseIP(ip); !ok {
		return submission.Unknown
	}
	if IsPrivateIP(ip) {
		return LocalNetwork
	}

	if l.cache != nil {
		location, ok, err := l.cache.Get(ctx, ip)
		if err != nil {
			l.logger.Debug("Location cache read failed", zap.String("ip", ip), zap.Error(err))
		} else if ok {
			return location
		}
	}

	if !l.limiter.Allow() {
		l.logger.Debug("Geolocation rate limit reached", zap.String("ip", ip))
		return submission.Unknown
	}

	location, err := l.lookup(ctx, ip)
	if err != nil {
		l.logger.Warn("Failed to resolve IP location", zap.String("ip", ip), zap.Error(err))
		return submission.Unknown
	}

	if l.cache != nil && l.cacheTTL > 0 {
		if err := l.cache.Set(ctx, ip, location, l.cacheTTL); err != nil {
			l.logger.Debug("Location cache write failed", zap.String("ip", ip), zap.Error(err))
		}
	}
	return location
}

func (l *IPAPILocator) lookup(ctx context.Context, ip string) (string, error) {
	endpoint := fmt.Sprintf("%s/json/%s?fields=status,message,country,regionName,city", l.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeoResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var payload ipAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Status != "success" {
		return "", fmt.Errorf("lookup failed: %s", payload.Message)
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{payload.City, payload.RegionName, payload.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return submission.Unknown, nil
	}
	return strings.Join(parts, ", "), nil
}

// StaticLocator reports private addresses as LocalNetwork and everything
// else as Unknown. It is used when geolocation is disabled.
type StaticLocator struct{}

// Locate implements Locator
func (StaticLocator) Locate(_ context.Context, ip string) string {
	if IsPrivateIP(ip) {
		return LocalNetwork
	}
	return submission.Unknown
}

var (
	_ Locator = (*IPAPILocator)(nil)
	_ Locator = StaticLocator{}
)
