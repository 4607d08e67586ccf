package locator

import (
	"regexp"
	"strings"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

var (
	// Cisco IOS: Internet  10.1.1.5   5   0011.2233.4455  ARPA   Vlan100
	ciscoARPRe = regexp.MustCompile(
		`^\s*Internet\s+(\d+\.\d+\.\d+\.\d+)\s+(\S+)\s+([0-9A-Fa-f.:-]+)\s+(\S+)\s+(\S+)`)

	// Arista EOS / NX-OS style: <ip> [age] <mac> <interface>[, <member>]
	genericARPRe = regexp.MustCompile(
		`^\s*(\d+\.\d+\.\d+\.\d+)\s+(?:(\S+)\s+)??(` + macToken + `)\s+([^\s,]+)`)

	vlanIfaceRe = regexp.MustCompile(`(?i)^vlan(\d+)$`)
)

// macToken matches the three common vendor MAC spellings.
const macToken = `[0-9A-Fa-f]{4}\.[0-9A-Fa-f]{4}\.[0-9A-Fa-f]{4}|[0-9A-Fa-f]{2}(?:[:-][0-9A-Fa-f]{2}){5}`

// ParseARPLine extracts an ARP binding from one line of "show ip arp" output.
// The Cisco "Internet ..." layout is tried first, then the generic
// ip/mac/interface layout. Returns nil when neither matches.
func ParseARPLine(line, deviceName string, deviceID int64) *models.ARPEntry {
	if m := ciscoARPRe.FindStringSubmatch(line); m != nil {
		return newARPEntry(m[1], m[3], m[5], m[2], deviceName, deviceID)
	}
	if m := genericARPRe.FindStringSubmatch(line); m != nil {
		return newARPEntry(m[1], m[3], m[4], m[2], deviceName, deviceID)
	}
	return nil
}

func newARPEntry(ip, mac, iface, age, deviceName string, deviceID int64) *models.ARPEntry {
	e := &models.ARPEntry{
		IPAddress:  ip,
		MACAddress: NormalizeMAC(mac),
		Interface:  strings.TrimSuffix(iface, ","),
		DeviceName: deviceName,
		DeviceID:   deviceID,
	}
	if age != "" && age != "-" {
		e.Age = &age
	}
	if m := vlanIfaceRe.FindStringSubmatch(e.Interface); m != nil {
		vlan := m[1]
		e.VLAN = &vlan
	}
	return e
}
