package locator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocitycmdb/velocitycmdb/internal/testutil"
	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

func str(s string) *string { return &s }

func lines(ls ...string) string { return strings.Join(ls, "\n") }

func TestParseRoutes_AristaECMP(t *testing.T) {
	content := lines(
		"O        10.255.255.1/32 [110/140]",
		"                           via 100.64.2.22, Ethernet49/1",
		"                           via 100.64.2.18, Ethernet50/1",
	)

	routes := ParseRoutes(content, "spine1", 4)
	require.Len(t, routes, 2)

	for _, r := range routes {
		assert.Equal(t, "10.255.255.1/32", r.Prefix)
		assert.Equal(t, "OSPF", r.Protocol)
		assert.Equal(t, str("110"), r.AD)
		assert.Equal(t, str("140"), r.Metric)
		assert.Equal(t, "spine1", r.DeviceName)
		assert.Equal(t, int64(4), r.DeviceID)
	}
	assert.Equal(t, "100.64.2.22", routes[0].NextHop)
	assert.Equal(t, str("Ethernet49/1"), routes[0].Interface)
	assert.Equal(t, "100.64.2.18", routes[1].NextHop)
	assert.Equal(t, str("Ethernet50/1"), routes[1].Interface)
}

func TestParseRoutes_AristaInlineVia(t *testing.T) {
	routes := ParseRoutes(" O E2     10.255.255.9/32 [110/140] via 100.64.2.22, Ethernet49/1", "spine1", 1)
	require.Len(t, routes, 1)
	assert.Equal(t, "10.255.255.9/32", routes[0].Prefix)
	assert.Equal(t, "100.64.2.22", routes[0].NextHop)
	assert.Equal(t, str("Ethernet49/1"), routes[0].Interface)
}

func TestParseRoutes_AristaConnected(t *testing.T) {
	routes := ParseRoutes(" C        10.1.1.0/24 is directly connected, Vlan100", "leaf1", 1)
	require.Len(t, routes, 1)
	assert.Equal(t, models.RouteEntry{
		Prefix:     "10.1.1.0/24",
		NextHop:    models.NextHopDirect,
		Protocol:   "connected",
		Interface:  str("Vlan100"),
		DeviceName: "leaf1",
		DeviceID:   1,
	}, routes[0])
}

func TestParseRoutes_JuniperContinuation(t *testing.T) {
	content := lines(
		"10.255.255.200/32  *[Access-internal/12] 6d 07:04:00",
		"                    > to 10.255.0.2 via irb.127",
	)

	routes := ParseRoutes(content, "mx1", 9)
	require.Len(t, routes, 1)
	assert.Equal(t, models.RouteEntry{
		Prefix:     "10.255.255.200/32",
		NextHop:    "10.255.0.2",
		Protocol:   "Access-internal",
		Interface:  str("irb.127"),
		DeviceName: "mx1",
		DeviceID:   9,
		Metric:     str("12"),
	}, routes[0])
}

func TestParseRoutes_JuniperProtocolMapping(t *testing.T) {
	content := lines(
		"10.0.0.0/30        *[Direct/0] 5w0d 02:00:00",
		"                    > via ge-0/0/0.0",
		"10.0.0.1/32        *[Local/0] 5w0d 02:00:00",
		"                      Local via ge-0/0/0.0",
		"10.4.0.0/24        *[IS-IS/18] 1d 00:00:01, metric 10",
		"                    > to 10.0.0.2 via ge-0/0/0.0",
	)

	routes := ParseRoutes(content, "mx1", 1)
	require.Len(t, routes, 2)

	assert.Equal(t, "connected", routes[0].Protocol)
	assert.Equal(t, models.NextHopDirect, routes[0].NextHop)
	assert.Equal(t, str("ge-0/0/0.0"), routes[0].Interface)

	assert.Equal(t, "ISIS", routes[1].Protocol)
	assert.Equal(t, "10.0.0.2", routes[1].NextHop)
}

func TestParseRoutes_JuniperInlineNextHop(t *testing.T) {
	routes := ParseRoutes("10.1.0.0/24  *[Static/5] 00:01:00 > to 10.9.9.9 via ge-0/0/3.0", "mx1", 1)
	require.Len(t, routes, 1)
	assert.Equal(t, "Static", routes[0].Protocol)
	assert.Equal(t, "10.9.9.9", routes[0].NextHop)
	assert.Equal(t, str("ge-0/0/3.0"), routes[0].Interface)
}

func TestParseRoutes_Cisco(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.RouteEntry
	}{
		{
			name: "static default",
			line: "S*    0.0.0.0/0 [1/0] via 10.1.1.1",
			want: models.RouteEntry{Prefix: "0.0.0.0/0", NextHop: "10.1.1.1", Protocol: "static", AD: str("1"), Metric: str("0")},
		},
		{
			name: "static to interface",
			line: "S        10.9.0.0/16 is directly connected, Null0",
			want: models.RouteEntry{Prefix: "10.9.0.0/16", NextHop: models.NextHopDirect, Protocol: "static", Interface: str("Null0")},
		},
		{
			name: "connected",
			line: "C        10.20.30.0/24 is directly connected, Vlan20",
			want: models.RouteEntry{Prefix: "10.20.30.0/24", NextHop: models.NextHopDirect, Protocol: "connected", Interface: str("Vlan20")},
		},
		{
			name: "local",
			line: "L        10.20.30.1/32 is directly connected, Vlan20",
			want: models.RouteEntry{Prefix: "10.20.30.1/32", NextHop: models.NextHopDirect, Protocol: "local", Interface: str("Vlan20")},
		},
		{
			name: "ospf external with uptime",
			line: "O*E2 10.0.0.0/8 [110/20] via 10.0.0.1, 00:01:23, GigabitEthernet0/1",
			want: models.RouteEntry{Prefix: "10.0.0.0/8", NextHop: "10.0.0.1", Protocol: "OSPF", Interface: str("GigabitEthernet0/1"), AD: str("110"), Metric: str("20")},
		},
		{
			name: "bgp without interface",
			line: "B        10.20.0.0/20 [20/0] via 192.0.2.1, 1d02h",
			want: models.RouteEntry{Prefix: "10.20.0.0/20", NextHop: "192.0.2.1", Protocol: "BGP", AD: str("20"), Metric: str("0")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			routes := ParseRoutes(tc.line, "rtr1", 2)
			require.Len(t, routes, 1)
			tc.want.DeviceName = "rtr1"
			tc.want.DeviceID = 2
			assert.Equal(t, tc.want, routes[0])
		})
	}
}

func TestParseRoutes_StaleHeadDoesNotLeak(t *testing.T) {
	t.Run("arista head then unrelated line", func(t *testing.T) {
		content := lines(
			"O        10.255.255.1/32 [110/140]",
			"Gateway of last resort is not set",
			"                           via 100.64.2.22, Ethernet49/1",
		)
		assert.Empty(t, ParseRoutes(content, "spine1", 1))
	})

	t.Run("juniper head then cisco line", func(t *testing.T) {
		content := lines(
			"10.255.255.200/32  *[OSPF/10] 6d 07:04:00",
			"C        10.20.30.0/24 is directly connected, Vlan20",
			"                    > to 10.255.0.2 via irb.127",
		)
		routes := ParseRoutes(content, "mixed", 1)
		require.Len(t, routes, 1)
		assert.Equal(t, "10.20.30.0/24", routes[0].Prefix)
		assert.Nil(t, routes[0].Metric, "metric from the abandoned head must not carry over")
	})

	t.Run("arista head then connected line", func(t *testing.T) {
		content := lines(
			"O        10.255.255.1/32 [110/140]",
			"C        10.1.1.0/24 is directly connected, Vlan100",
			"                           via 100.64.2.22, Ethernet49/1",
		)
		routes := ParseRoutes(content, "spine1", 1)
		require.Len(t, routes, 1)
		assert.Equal(t, "10.1.1.0/24", routes[0].Prefix)
		assert.Nil(t, routes[0].AD)
	})
}

func TestParseRoutes_MixedVendorDocument(t *testing.T) {
	content := testutil.AristaRoutes + testutil.CiscoRoutes + testutil.JuniperRoutes

	routes := ParseRoutes(content, "mixed", 1)
	assert.Len(t, routes, 12)

	var ecmp []string
	for _, r := range routes {
		if r.Prefix == "10.20.30.0/24" && r.Protocol == "OSPF" && r.AD != nil {
			ecmp = append(ecmp, r.NextHop)
		}
	}
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, ecmp)
}

func TestParseRoutes_Empty(t *testing.T) {
	assert.Empty(t, ParseRoutes("", "rtr1", 1))
	assert.Empty(t, ParseRoutes("% Invalid input detected at '^' marker.\r\n", "rtr1", 1))
}
