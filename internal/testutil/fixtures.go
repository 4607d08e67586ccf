// Package testutil holds shared fixtures for VelocityCMDB tests: sample
// capture text in each supported vendor format, snapshot builders, and a
// throwaway SQLite store.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/velocitycmdb/velocitycmdb/internal/store"
	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

// Sample capture output. The 10.20.30.40 host is reachable through
// core-sw-01 (ARP + MAC table) and routed by core-rtr-01.
const (
	CiscoARP = `Protocol  Address          Age (min)  Hardware Addr   Type   Interface
Internet  10.20.30.1              -   aabb.cc00.0001  ARPA   Vlan20
Internet  10.20.30.40             4   0050.5601.abcd  ARPA   Vlan20
Internet  10.20.30.41             7   0050.5601.abce  ARPA   Vlan20
`

	AristaARP = `Address         Age (sec)  Hardware Addr   Interface
10.20.30.40       0:01:12  0050.5601.abcd  Vlan20, Ethernet12
10.20.31.5        0:00:40  0050.5601.1111  Vlan21, Ethernet3
`

	CiscoMAC = `          Mac Address Table
-------------------------------------------
Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
  20    0050.5601.abcd    DYNAMIC     Gi1/0/12
  20    0050.5601.abcd    DYNAMIC     Po1
 All    0100.0ccc.cccc    STATIC      CPU
  20    0050.5601.abce    DYNAMIC     Gi1/0/13
`

	AristaRoutes = `VRF: default
Codes: C - connected, S - static, O - OSPF, B - BGP

Gateway of last resort:
 S        0.0.0.0/0 [1/0] via 10.0.0.1, Ethernet1

 O        10.20.0.0/16 [110/20] via 10.0.0.2, Ethernet2
 O        10.20.30.0/24 [110/30]
                                 via 10.0.0.2, Ethernet2
                                 via 10.0.0.3, Ethernet3
 C        10.0.0.0/30 is directly connected, Ethernet1
`

	CiscoRoutes = `Codes: L - local, C - connected, S - static, O - OSPF, B - BGP
Gateway of last resort is 10.1.1.1 to network 0.0.0.0

S*    0.0.0.0/0 [1/0] via 10.1.1.1
C        10.20.30.0/24 is directly connected, Vlan20
L        10.20.30.1/32 is directly connected, Vlan20
O        10.20.30.32/27 [110/2] via 10.1.1.2, 00:10:11, GigabitEthernet0/1
B        10.20.0.0/20 [20/0] via 192.0.2.1, 1d02h
`

	JuniperRoutes = `inet.0: 12 destinations, 12 routes (12 active, 0 holddown, 0 hidden)
+ = Active Route, - = Last Active, * = Both

10.20.30.0/24      *[OSPF/10] 2d 03:11:42, metric 20
                    >  to 10.2.2.1 via ge-0/0/1.0
10.20.30.40/32     *[Static/5] 1w2d 11:00:00
                    >  to 10.2.2.9 via ge-0/0/2.0
`
)

// NewSnapshot returns a Snapshot with sensible defaults, suitable for test
// fixtures. Override individual fields with options.
func NewSnapshot(deviceName string, captureType models.CaptureType, content string, opts ...func(*models.Snapshot)) models.Snapshot {
	s := models.Snapshot{
		ID:          deviceName + "-" + string(captureType),
		DeviceID:    1,
		DeviceName:  deviceName,
		CaptureType: captureType,
		Content:     content,
		CapturedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithDeviceID sets the snapshot's device ID.
func WithDeviceID(id int64) func(*models.Snapshot) {
	return func(s *models.Snapshot) { s.DeviceID = id }
}

// WithCapturedAt sets the snapshot's capture time.
func WithCapturedAt(t time.Time) func(*models.Snapshot) {
	return func(s *models.Snapshot) { s.CapturedAt = t }
}

// NewStore opens a SQLite store in a temp directory, applies the given
// component migrations, and closes it when the test ends.
func NewStore(t *testing.T, component string, migrations []store.Migration) *store.SQLiteStore {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if len(migrations) > 0 {
		if err := s.Migrate(t.Context(), component, migrations); err != nil {
			t.Fatalf("Migrate(%s): %v", component, err)
		}
	}
	return s
}
