package locator

import (
	"regexp"
	"strings"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

// <vlan> <mac> <type> <port>, with an optional leading "*" (NX-OS primary entry marker).
var macLineRe = regexp.MustCompile(
	`^\s*\*?\s*(\d+)\s+(` + macToken + `)\s+(\S+)\s+(\S+)`)

// internalPortKeywords mark ports that point into the switch itself rather
// than toward a host.
var internalPortKeywords = []string{"cpu", "switch", "router", "sup"}

// ParseMACLine extracts a forwarding-table entry from one line of
// "show mac address-table" output. Entries on internal ports are rejected.
func ParseMACLine(line, deviceName string, deviceID int64) *models.MACEntry {
	m := macLineRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	port := m[4]
	if isInternalPort(port) {
		return nil
	}

	macType := models.MACTypeStatic
	if strings.Contains(strings.ToLower(m[3]), models.MACTypeDynamic) {
		macType = models.MACTypeDynamic
	}

	return &models.MACEntry{
		MACAddress: NormalizeMAC(m[2]),
		VLAN:       m[1],
		Port:       port,
		DeviceName: deviceName,
		DeviceID:   deviceID,
		MACType:    macType,
	}
}

func isInternalPort(port string) bool {
	p := strings.ToLower(port)
	for _, kw := range internalPortKeywords {
		if strings.Contains(p, kw) {
			return true
		}
	}
	return false
}
