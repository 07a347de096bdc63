package identity

import (
	"net"
	"strings"
)

// Name suffixes that only resolve inside private networks.
var internalSuffixes = []string{
	".localhost",
	".local",
	".internal",
	".intranet",
	".lan",
	".home.arpa",
	".corp",
}

// IsPublicHost reports whether host is a dotted DNS name that can point at
// a company website. IP literals, single-label names and private-network
// suffixes such as .local or .internal are rejected. host must not carry a
// port.
func IsPublicHost(host string) bool {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if h == "" || !strings.Contains(h, ".") {
		return false
	}
	if net.ParseIP(strings.Trim(h, "[]")) != nil {
		return false
	}
	for _, s := range internalSuffixes {
		if strings.HasSuffix(h, s) {
			return false
		}
	}
	return true
}
