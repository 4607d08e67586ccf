package locator

import (
	"testing"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

func TestIPInPrefix(t *testing.T) {
	tests := []struct {
		ip, cidr string
		want     bool
	}{
		{"10.20.30.40", "10.20.30.0/24", true},
		{"10.20.30.40", "10.20.30.32/27", true},
		{"10.20.30.40", "10.20.30.0/28", false},
		{"10.20.30.40", "10.20.30.40/32", true},
		{"10.20.30.41", "10.20.30.40/32", false},
		{"10.20.30.40", "0.0.0.0/0", true},
		{"10.20.30.40", "10.20.30.0", false},
		{"10.20.30.40", "10.20.30.0/33", false},
		{"10.20.30.400", "10.20.30.0/24", false},
		{"10.20.30.40", "bogus/24", false},
	}

	for _, tc := range tests {
		if got := IPInPrefix(tc.ip, tc.cidr); got != tc.want {
			t.Errorf("IPInPrefix(%q, %q) = %v, want %v", tc.ip, tc.cidr, got, tc.want)
		}
	}
}

func TestPrefixLength(t *testing.T) {
	tests := []struct {
		cidr string
		want int
	}{
		{"10.0.0.0/8", 8},
		{"10.20.30.40/32", 32},
		{"10.20.30.40", 32},
		{"10.0.0.0/x", 0},
	}
	for _, tc := range tests {
		if got := PrefixLength(tc.cidr); got != tc.want {
			t.Errorf("PrefixLength(%q) = %d, want %d", tc.cidr, got, tc.want)
		}
	}
}

func TestFindMatchingRoutes_SkipsBroadPrefixes(t *testing.T) {
	routes := []models.RouteEntry{
		{Prefix: "0.0.0.0/0", NextHop: "10.0.0.1"},
		{Prefix: "10.0.0.0/8", NextHop: "10.0.0.1"},
		{Prefix: "10.20.0.0/16", NextHop: "10.0.0.2"},
		{Prefix: "10.20.0.0/17", NextHop: "10.0.0.3"},
		{Prefix: "10.20.30.0/24", NextHop: "10.0.0.4"},
		{Prefix: "10.99.0.0/24", NextHop: "10.0.0.5"},
	}

	got := FindMatchingRoutes("10.20.30.40", routes)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Prefix != "10.20.0.0/17" || got[1].Prefix != "10.20.30.0/24" {
		t.Errorf("prefixes = %q, %q; want input order 10.20.0.0/17, 10.20.30.0/24", got[0].Prefix, got[1].Prefix)
	}
	for _, r := range got {
		if PrefixLength(r.Prefix) <= 16 {
			t.Errorf("route %s should have been excluded", r.Prefix)
		}
	}
}

func TestFindMatchingRoutes_NoMatch(t *testing.T) {
	if got := FindMatchingRoutes("192.0.2.1", []models.RouteEntry{{Prefix: "10.20.30.0/24"}}); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}
