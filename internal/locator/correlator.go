package locator

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
	"go.uber.org/zap"
)

// SummaryInvalidIP is the summary returned for input that is not a dotted quad.
const SummaryInvalidIP = "Invalid IP address format"

var (
	ipSyntaxRe = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
	edgePortRe = regexp.MustCompile(`(?i)^(et|gi|fa|xe|ge)`)
)

// SnapshotSource provides the latest capture per device for a capture type.
type SnapshotSource interface {
	LatestSnapshots(ctx context.Context, captureType models.CaptureType) ([]models.Snapshot, error)
}

// ARPSource is a pre-parsed ARP datastore queried ahead of snapshot text.
type ARPSource interface {
	Lookup(ctx context.Context, ip string) ([]models.ARPEntry, error)
}

// Correlator locates an IP by cross-referencing ARP, MAC-table and route
// captures. It holds no per-query state and is safe for concurrent use.
type Correlator struct {
	snapshots SnapshotSource
	arp       ARPSource
	logger    *zap.Logger
}

// NewCorrelator creates a Correlator reading from the given snapshot source.
func NewCorrelator(snapshots SnapshotSource, logger *zap.Logger) *Correlator {
	return &Correlator{snapshots: snapshots, logger: logger}
}

// SetARPSource attaches the optional ARP datastore.
func (c *Correlator) SetARPSource(src ARPSource) {
	c.arp = src
}

// LocateIP finds the ARP bindings, switch ports and most specific routes for
// ip. Input that is not a dotted quad yields an empty result with an
// explanatory summary, not an error. Errors are returned only when the
// snapshot store cannot be read.
func (c *Correlator) LocateIP(ctx context.Context, ip string) (*models.IPLocation, error) {
	start := time.Now()
	loc, err := c.locate(ctx, strings.TrimSpace(ip))

	result := lookupResult(loc, err)
	lookupsTotal.WithLabelValues(result).Inc()
	lookupDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	c.logger.Debug("ip located",
		zap.String("ip", loc.IPAddress),
		zap.String("result", result),
		zap.Int("arp_entries", len(loc.ARPEntries)),
		zap.Int("mac_entries", len(loc.MACEntries)),
		zap.Int("route_entries", len(loc.RouteEntries)),
	)
	return loc, nil
}

func (c *Correlator) locate(ctx context.Context, ip string) (*models.IPLocation, error) {
	loc := models.NewIPLocation(ip)
	if !ipSyntaxRe.MatchString(ip) {
		loc.Summary = SummaryInvalidIP
		return loc, nil
	}

	arpEntries, err := c.findARP(ctx, ip)
	if err != nil {
		return nil, err
	}
	loc.ARPEntries = arpEntries

	macEntries, err := c.findMACs(ctx, arpEntries)
	if err != nil {
		return nil, err
	}
	loc.MACEntries = macEntries

	routes, err := c.findRoutes(ctx, ip)
	if err != nil {
		return nil, err
	}
	loc.RouteEntries = routes

	loc.AccessPort = inferAccessPort(loc.MACEntries)
	loc.Summary = summarize(loc)
	return loc, nil
}

// findARP unions the ARP datastore with parsed ARP snapshots, skipping
// entries whose (device, MAC) pair is already present.
func (c *Correlator) findARP(ctx context.Context, ip string) ([]models.ARPEntry, error) {
	entries := []models.ARPEntry{}
	seen := make(map[[2]string]bool)
	add := func(e models.ARPEntry) {
		key := [2]string{e.DeviceName, e.MACAddress}
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, e)
	}

	if c.arp != nil {
		found, err := c.arp.Lookup(ctx, ip)
		if err != nil {
			c.logger.Warn("arp datastore lookup failed, using snapshots only",
				zap.String("ip", ip), zap.Error(err))
		}
		for i := range found {
			found[i].MACAddress = NormalizeMAC(found[i].MACAddress)
			add(found[i])
		}
	}

	snaps, err := c.snapshots.LatestSnapshots(ctx, models.CaptureARP)
	if err != nil {
		return nil, fmt.Errorf("load arp snapshots: %w", err)
	}
	for i := range snaps {
		for _, line := range strings.Split(snaps[i].Content, "\n") {
			// Cheap substring test before running the regexes.
			if !strings.Contains(line, ip) {
				continue
			}
			e := ParseARPLine(line, snaps[i].DeviceName, snaps[i].DeviceID)
			if e == nil || e.IPAddress != ip {
				continue
			}
			add(*e)
		}
	}
	return entries, nil
}

// findMACs searches MAC-table snapshots for every distinct MAC learned via ARP.
func (c *Correlator) findMACs(ctx context.Context, arpEntries []models.ARPEntry) ([]models.MACEntry, error) {
	entries := []models.MACEntry{}

	targets := make(map[string]bool)
	for i := range arpEntries {
		if bare := bareMAC(arpEntries[i].MACAddress); bare != "" {
			targets[bare] = true
		}
	}
	if len(targets) == 0 {
		return entries, nil
	}

	snaps, err := c.snapshots.LatestSnapshots(ctx, models.CaptureMAC)
	if err != nil {
		return nil, fmt.Errorf("load mac snapshots: %w", err)
	}

	seen := make(map[[3]string]bool)
	for i := range snaps {
		for _, line := range strings.Split(snaps[i].Content, "\n") {
			if !lineMentionsMAC(line, targets) {
				continue
			}
			e := ParseMACLine(line, snaps[i].DeviceName, snaps[i].DeviceID)
			if e == nil || !targets[bareMAC(e.MACAddress)] {
				continue
			}
			key := [3]string{e.MACAddress, e.DeviceName, e.Port}
			if seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, *e)
		}
	}
	return entries, nil
}

func lineMentionsMAC(line string, targets map[string]bool) bool {
	bare := bareMAC(line)
	for mac := range targets {
		if strings.Contains(bare, mac) {
			return true
		}
	}
	return false
}

// findRoutes returns matching routes across all devices, most specific first.
func (c *Correlator) findRoutes(ctx context.Context, ip string) ([]models.RouteEntry, error) {
	snaps, err := c.snapshots.LatestSnapshots(ctx, models.CaptureRoutes)
	if err != nil {
		return nil, fmt.Errorf("load route snapshots: %w", err)
	}

	routes := []models.RouteEntry{}
	seen := make(map[[3]string]bool)
	for i := range snaps {
		parsed := ParseRoutes(snaps[i].Content, snaps[i].DeviceName, snaps[i].DeviceID)
		for _, r := range FindMatchingRoutes(ip, parsed) {
			key := [3]string{r.DeviceName, r.Prefix, r.NextHop}
			if seen[key] {
				continue
			}
			seen[key] = true
			routes = append(routes, r)
		}
	}

	sort.SliceStable(routes, func(i, j int) bool {
		return PrefixLength(routes[i].Prefix) > PrefixLength(routes[j].Prefix)
	})
	return routes, nil
}

// inferAccessPort prefers a dynamic entry on an edge-looking port, falling
// back to the first MAC entry.
func inferAccessPort(entries []models.MACEntry) *models.MACEntry {
	for i := range entries {
		if entries[i].MACType == models.MACTypeDynamic && edgePortRe.MatchString(entries[i].Port) {
			e := entries[i]
			return &e
		}
	}
	if len(entries) > 0 {
		e := entries[0]
		return &e
	}
	return nil
}

func summarize(loc *models.IPLocation) string {
	var parts []string
	switch {
	case loc.AccessPort != nil:
		parts = append(parts, fmt.Sprintf("Located on %s port %s (VLAN %s)",
			loc.AccessPort.DeviceName, loc.AccessPort.Port, loc.AccessPort.VLAN))
	case len(loc.ARPEntries) > 0:
		parts = append(parts, fmt.Sprintf("Found in ARP on %s (%s)",
			loc.ARPEntries[0].DeviceName, loc.ARPEntries[0].Interface))
	default:
		parts = append(parts, "Not found in ARP tables")
	}

	if len(loc.RouteEntries) > 0 {
		best := loc.RouteEntries[0]
		parts = append(parts, fmt.Sprintf("Best route: %s via %s (%s) on %s",
			best.Prefix, best.NextHop, best.Protocol, best.DeviceName))
	}
	return strings.Join(parts, "; ")
}

func lookupResult(loc *models.IPLocation, err error) string {
	switch {
	case err != nil:
		return "error"
	case loc.Summary == SummaryInvalidIP:
		return "invalid"
	case loc.AccessPort != nil:
		return "located"
	case len(loc.ARPEntries) > 0:
		return "arp_only"
	default:
		return "not_found"
	}
}
