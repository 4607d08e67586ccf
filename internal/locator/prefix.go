package locator

import (
	"strconv"
	"strings"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

const (
	defaultRoute = "0.0.0.0/0"

	// Routes this broad or broader say nothing useful about where a host lives.
	minUsefulPrefixLen = 17
)

// ipv4ToUint parses a dotted-quad IPv4 address into its 32-bit value.
func ipv4ToUint(ip string) (uint32, bool) {
	parts := strings.Split(strings.TrimSpace(ip), ".")
	if len(parts) != 4 {
		return 0, false
	}
	var v uint32
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return 0, false
		}
		v = v<<8 | uint32(n)
	}
	return v, true
}

// IPInPrefix reports whether ip falls inside the IPv4 CIDR block. Malformed
// input never matches.
func IPInPrefix(ip, cidr string) bool {
	network, bits, ok := strings.Cut(cidr, "/")
	if !ok {
		return false
	}
	length, err := strconv.Atoi(bits)
	if err != nil || length < 0 || length > 32 {
		return false
	}
	addr, ok := ipv4ToUint(ip)
	if !ok {
		return false
	}
	base, ok := ipv4ToUint(network)
	if !ok {
		return false
	}

	var mask uint32
	if length > 0 {
		mask = ^uint32(0) << (32 - length)
	}
	return addr&mask == base&mask
}

// PrefixLength returns the mask length of a CIDR string. A bare address is a
// host route (32); an unparsable length yields 0.
func PrefixLength(cidr string) int {
	_, bits, ok := strings.Cut(cidr, "/")
	if !ok {
		return 32
	}
	n, err := strconv.Atoi(bits)
	if err != nil {
		return 0
	}
	return n
}

// FindMatchingRoutes returns the routes whose prefix contains ip, excluding
// the default route and any prefix of length 16 or shorter. Input order is
// preserved.
func FindMatchingRoutes(ip string, routes []models.RouteEntry) []models.RouteEntry {
	var matched []models.RouteEntry
	for i := range routes {
		r := &routes[i]
		if r.Prefix == defaultRoute || PrefixLength(r.Prefix) < minUsefulPrefixLen {
			continue
		}
		if IPInPrefix(ip, r.Prefix) {
			matched = append(matched, *r)
		}
	}
	return matched
}
