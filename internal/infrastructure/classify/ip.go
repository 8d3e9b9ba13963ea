// Package classify derives submission metadata (IP, device, OS, browser and
// location) from the raw request.
package classify

import (
	"net"
	"net/netip"
	"strings"

	"github.com/batchtrack/backend/internal/domain/submission"
)

// ClientIP returns the client's address for a request, or "" when none of
// the candidates parses as an IP. The address resolved by the HTTP layer
// wins over the socket address; forwarding headers are never read here.
func ClientIP(rc submission.RequestContext) string {
	if ip, ok := ParseIP(rc.ClientIP); ok {
		return ip
	}
	host, _, err := net.SplitHostPort(rc.RemoteAddr)
	if err != nil {
		host = rc.RemoteAddr
	}
	ip, _ := ParseIP(host)
	return ip
}

// ParseIP validates raw and returns it in canonical form. IPv4-mapped IPv6
// addresses are unwrapped, zones dropped, and the IPv6 loopback is reported
// as 127.0.0.1.
func ParseIP(raw string) (string, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	addr = addr.Unmap().WithZone("")
	if addr == netip.IPv6Loopback() {
		return "127.0.0.1", true
	}
	return addr.String(), true
}

// IsPrivateIP reports whether ip is loopback, private or link-local.
// Unparseable input is not private.
func IsPrivateIP(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}
