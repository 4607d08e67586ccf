package locator

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

const (
	ipv4Pat   = `\d+\.\d+\.\d+\.\d+`
	prefixPat = `\d+\.\d+\.\d+\.\d+/\d+`

	// ", <iface>" or ", <uptime>, <iface>" after a via address. An uptime
	// alone (BGP) leaves the interface empty.
	ifaceTailPat = `(?:,\s*(?:\d[\w:.]*,\s*)?([A-Za-z][\w./:-]*))?`
)

var (
	// O E2     10.255.255.1/32 [110/140] [via 100.64.2.22, Ethernet49/1]
	aristaHeadRe = regexp.MustCompile(
		`^\s*([OCSLBI])(?:\s+(?:E1|E2|N1|N2|IA|L1|L2|E|I))?\s+(` + prefixPat + `)\s+\[(\d+)/(\d+)\](.*)$`)

	// via 100.64.2.18, Ethernet50/1 (optionally after a sequence number or
	// a repeated [AD/metric] column).
	aristaViaRe = regexp.MustCompile(
		`^\s*(?:\d+\s+)?(?:\[(\d+)/(\d+)\]\s+)?via\s+(` + ipv4Pat + `)` + ifaceTailPat)

	// C        10.1.1.0/24 is directly connected, Vlan100
	aristaConnectedRe = regexp.MustCompile(
		`^\s*([CL])\s+(` + prefixPat + `)\s+is directly connected,\s*([^,\s]+)`)

	// 10.255.255.200/32  *[Access-internal/12] 6d 07:04:00
	juniperHeadRe = regexp.MustCompile(
		`^\s*(` + prefixPat + `)\s+[*+-]?\[([A-Za-z][\w-]*)/(\d+)\](.*)$`)

	// Same-line next hop on a Juniper head: "> to 10.0.0.1 via ge-0/0/0.0"
	// or "via 10.0.0.1".
	juniperInlineRe = regexp.MustCompile(
		`(?:^|\s)(?:>\s*)?(?:to|via)\s+(` + ipv4Pat + `)(?:\s+via\s+(\S+))?`)

	//                     > to 10.255.0.2 via irb.127
	//                     > via ge-0/0/0.0
	juniperNextHopRe = regexp.MustCompile(
		`^\s*>\s*(?:to\s+(` + ipv4Pat + `)(?:\s+via\s+(\S+))?|via\s+(\S+))`)

	viaTailRe = regexp.MustCompile(`^\s*via\s+(` + ipv4Pat + `)` + ifaceTailPat)
)

// ciscoGrammar is one self-contained single-line Cisco IOS route layout.
type ciscoGrammar struct {
	re      *regexp.Regexp
	extract func(m []string) ciscoRoute
}

type ciscoRoute struct {
	prefix, nextHop, protocol, iface, ad, metric string
}

var ciscoGrammars = []ciscoGrammar{
	{
		// C*   10.1.1.0/24 is directly connected, Vlan100
		re: regexp.MustCompile(`^\s*([CL])\*?\s+(` + prefixPat + `)\s+is directly connected,\s*([^,\s]+)`),
		extract: func(m []string) ciscoRoute {
			return ciscoRoute{prefix: m[2], nextHop: models.NextHopDirect, protocol: codeProtocol(m[1]), iface: m[3]}
		},
	},
	{
		// S*   0.0.0.0/0 [1/0] via 10.0.0.1[, Vlan10]
		// S    10.9.0.0/16 is directly connected, Null0
		re: regexp.MustCompile(`^\s*S\*?\s+(` + prefixPat + `)\s+(?:\[(\d+)/(\d+)\]\s+via\s+(` + ipv4Pat + `)` + ifaceTailPat + `|is directly connected,\s*([^,\s]+))`),
		extract: func(m []string) ciscoRoute {
			if m[4] == "" {
				return ciscoRoute{prefix: m[1], nextHop: models.NextHopDirect, protocol: "static", iface: m[6]}
			}
			return ciscoRoute{prefix: m[1], nextHop: m[4], protocol: "static", iface: m[5], ad: m[2], metric: m[3]}
		},
	},
	{
		// O*E2 10.0.0.0/8 [110/20] via 10.0.0.1, 00:01:23, GigabitEthernet0/1
		re: regexp.MustCompile(`^\s*O\*?(?:\s*(?:IA|E1|E2|N1|N2))?\s+(` + prefixPat + `)\s+\[(\d+)/(\d+)\]\s+via\s+(` + ipv4Pat + `)` + ifaceTailPat),
		extract: func(m []string) ciscoRoute {
			return ciscoRoute{prefix: m[1], nextHop: m[4], protocol: "OSPF", iface: m[5], ad: m[2], metric: m[3]}
		},
	},
	{
		// B*   10.20.0.0/16 [20/0] via 192.0.2.1, 2d01h
		re: regexp.MustCompile(`^\s*B\*?(?:\s+\w{1,2})?\s+(` + prefixPat + `)\s+\[(\d+)/(\d+)\]\s+via\s+(` + ipv4Pat + `)` + ifaceTailPat),
		extract: func(m []string) ciscoRoute {
			return ciscoRoute{prefix: m[1], nextHop: m[4], protocol: "BGP", iface: m[5], ad: m[2], metric: m[3]}
		},
	},
}

// codeProtocol maps a Cisco/Arista route code to a protocol name.
func codeProtocol(code string) string {
	switch code {
	case "O":
		return "OSPF"
	case "C":
		return "connected"
	case "S":
		return "static"
	case "L":
		return "local"
	case "B":
		return "BGP"
	case "I":
		return "ISIS"
	default:
		return code
	}
}

// juniperProtocol maps a Junos protocol name to the common vocabulary.
func juniperProtocol(name string) string {
	switch name {
	case "Direct":
		return "connected"
	case "Local":
		return "local"
	case "IS-IS":
		return "ISIS"
	default:
		return name
	}
}

type scanState int

const (
	stateIdle scanState = iota
	statePendingArista
	statePendingJuniper
)

// pendingHead is a route head line still waiting for its next-hop line.
type pendingHead struct {
	prefix   string
	protocol string
	ad       string
	metric   string
}

// routeScanner walks route-table output line by line. Arista and Juniper
// routes may span several lines, so the scanner remembers the last head line
// until a continuation consumes it or another line clears it.
type routeScanner struct {
	deviceName string
	deviceID   int64
	state      scanState
	head       pendingHead
	routes     []models.RouteEntry
}

// ParseRoutes parses "show ip route" (Cisco IOS, Arista EOS) or "show route"
// (Junos) output into route entries. Lines that match no known layout are
// skipped. Several vendor layouts may be mixed in one document.
func ParseRoutes(content, deviceName string, deviceID int64) []models.RouteEntry {
	s := &routeScanner{deviceName: deviceName, deviceID: deviceID}
	sc := bufio.NewScanner(strings.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		s.scanLine(strings.TrimRight(sc.Text(), "\r"))
	}
	return s.routes
}

func (s *routeScanner) scanLine(line string) {
	if m := aristaHeadRe.FindStringSubmatch(line); m != nil {
		s.head = pendingHead{prefix: m[2], protocol: codeProtocol(m[1]), ad: m[3], metric: m[4]}
		s.state = statePendingArista
		if v := viaTailRe.FindStringSubmatch(m[5]); v != nil {
			s.emit(s.head, v[1], v[2])
			s.reset()
		}
		return
	}

	if s.state == statePendingArista {
		if m := aristaViaRe.FindStringSubmatch(line); m != nil {
			head := s.head
			if m[1] != "" {
				head.ad, head.metric = m[1], m[2]
			}
			// Stay pending: each following via line is another equal-cost path.
			s.emit(head, m[3], m[4])
			return
		}
	}

	if m := aristaConnectedRe.FindStringSubmatch(line); m != nil {
		s.reset()
		s.emit(pendingHead{prefix: m[2], protocol: codeProtocol(m[1])}, models.NextHopDirect, m[3])
		return
	}

	if m := juniperHeadRe.FindStringSubmatch(line); m != nil {
		s.head = pendingHead{prefix: m[1], protocol: juniperProtocol(m[2]), metric: m[3]}
		s.state = statePendingJuniper
		if nh := juniperInlineRe.FindStringSubmatch(m[4]); nh != nil {
			s.emit(s.head, nh[1], nh[2])
			s.reset()
		}
		return
	}

	if s.state == statePendingJuniper {
		if m := juniperNextHopRe.FindStringSubmatch(line); m != nil {
			if m[1] != "" {
				s.emit(s.head, m[1], m[2])
			} else {
				s.emit(s.head, models.NextHopDirect, m[3])
			}
			s.reset()
			return
		}
	}

	// Cisco layouts are single-line; any pending multi-line head is stale.
	s.reset()
	for _, g := range ciscoGrammars {
		if m := g.re.FindStringSubmatch(line); m != nil {
			r := g.extract(m)
			s.emit(pendingHead{prefix: r.prefix, protocol: r.protocol, ad: r.ad, metric: r.metric}, r.nextHop, r.iface)
			return
		}
	}
}

func (s *routeScanner) reset() {
	s.state = stateIdle
	s.head = pendingHead{}
}

func (s *routeScanner) emit(head pendingHead, nextHop, iface string) {
	s.routes = append(s.routes, models.RouteEntry{
		Prefix:     head.prefix,
		NextHop:    nextHop,
		Protocol:   head.protocol,
		Interface:  optional(iface),
		DeviceName: s.deviceName,
		DeviceID:   s.deviceID,
		Metric:     optional(head.metric),
		AD:         optional(head.ad),
	})
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
