package models

// MAC table entry types.
const (
	MACTypeDynamic = "dynamic"
	MACTypeStatic  = "static"
)

// NextHopDirect is the next_hop value for routes with no gateway.
const NextHopDirect = "directly connected"

// ARPEntry is one IPv4-to-MAC binding learned by a device.
type ARPEntry struct {
	IPAddress  string  `json:"ip_address" example:"10.1.1.5"`
	MACAddress string  `json:"mac_address" example:"00:11:22:33:44:55"`
	Interface  string  `json:"interface" example:"Vlan100"`
	DeviceName string  `json:"device_name" example:"core-sw-01"`
	DeviceID   int64   `json:"device_id" example:"3"`
	VLAN       *string `json:"vlan,omitempty" example:"100"`
	Age        *string `json:"age,omitempty" example:"5"`
}

// MACEntry is one forwarding-table binding of a MAC to a switch port.
type MACEntry struct {
	MACAddress string `json:"mac_address" example:"00:11:22:33:44:55"`
	VLAN       string `json:"vlan" example:"100"`
	Port       string `json:"port" example:"Gi1/0/12"`
	DeviceName string `json:"device_name" example:"access-sw-07"`
	DeviceID   int64  `json:"device_id" example:"7"`
	MACType    string `json:"mac_type" example:"dynamic"`
}

// RouteEntry is one parsed route-table row. Multi-path routes produce one
// entry per next hop.
type RouteEntry struct {
	Prefix     string  `json:"prefix" example:"10.1.1.0/24"`
	NextHop    string  `json:"next_hop" example:"10.0.0.1"`
	Protocol   string  `json:"protocol" example:"OSPF"`
	Interface  *string `json:"interface,omitempty" example:"Ethernet49/1"`
	DeviceName string  `json:"device_name" example:"core-rtr-01"`
	DeviceID   int64   `json:"device_id" example:"1"`
	Metric     *string `json:"metric,omitempty" example:"140"`
	AD         *string `json:"ad,omitempty" example:"110"`
}

// IPLocation is the consolidated answer to "where does this IP live".
// RouteEntries is ordered most specific prefix first.
type IPLocation struct {
	IPAddress    string       `json:"ip_address" example:"10.1.1.5"`
	ARPEntries   []ARPEntry   `json:"arp_entries"`
	MACEntries   []MACEntry   `json:"mac_entries"`
	RouteEntries []RouteEntry `json:"route_entries"`
	AccessPort   *MACEntry    `json:"access_port"`
	Summary      string       `json:"summary" example:"Located on access-sw-07 port Gi1/0/12 (VLAN 100)"`
}

// NewIPLocation returns an IPLocation with empty (non-nil) result lists so it
// serializes as [] rather than null.
func NewIPLocation(ip string) *IPLocation {
	return &IPLocation{
		IPAddress:    ip,
		ARPEntries:   []ARPEntry{},
		MACEntries:   []MACEntry{},
		RouteEntries: []RouteEntry{},
	}
}
