// Package locator finds where an IPv4 address lives in the network by parsing
// stored ARP, MAC-table and route-table captures from Cisco, Arista and
// Juniper devices and cross-referencing the results.
package locator

import "strings"

var macSeparators = strings.NewReplacer(".", "", ":", "", "-", "")

// NormalizeMAC canonicalizes a MAC address to lower-case colon form
// (aabb.ccdd.eeff -> aa:bb:cc:dd:ee:ff). Input that is not exactly twelve hex
// digits once separators are removed is returned lower-cased and otherwise
// unchanged.
func NormalizeMAC(mac string) string {
	lower := strings.ToLower(mac)
	bare := macSeparators.Replace(lower)
	if len(bare) != 12 || !isHex(bare) {
		return lower
	}

	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(bare[i : i+2])
	}
	return b.String()
}

// bareMAC strips separators and lower-cases s. Used to compare MAC text
// written in different vendor styles.
func bareMAC(s string) string {
	return macSeparators.Replace(strings.ToLower(s))
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
