// Package config turns a loaded Viper instance into typed settings for the
// capture store, the IP locator, and the snapshot pruner.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure from Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// DatabaseConfig locates the capture store.
type DatabaseConfig struct {
	Path string
}

// LocatorConfig controls IP lookups.
type LocatorConfig struct {
	// ARPDatabase is the optional read-only ARP datastore. Empty disables it.
	ARPDatabase string
	Timeout     time.Duration
}

// CaptureConfig controls snapshot retention. A zero Retention disables pruning.
type CaptureConfig struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

// Settings is the component configuration outside the HTTP server section.
type Settings struct {
	Database DatabaseConfig
	Locator  LocatorConfig
	Capture  CaptureConfig
}

// Load reads and validates the database, locator, and capture sections.
func Load(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}

	s := &Settings{
		Database: DatabaseConfig{Path: v.GetString("database.path")},
		Locator: LocatorConfig{
			ARPDatabase: v.GetString("locator.arp_database"),
			Timeout:     v.GetDuration("locator.timeout"),
		},
		Capture: CaptureConfig{
			Retention:     v.GetDuration("capture.retention"),
			PruneInterval: v.GetDuration("capture.prune_interval"),
		},
	}

	if s.Database.Path == "" {
		return nil, fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	if s.Locator.Timeout <= 0 {
		return nil, fmt.Errorf("%w: locator.timeout must be positive, got %s", ErrInvalidConfig, s.Locator.Timeout)
	}
	if s.Capture.Retention < 0 {
		return nil, fmt.Errorf("%w: capture.retention must not be negative", ErrInvalidConfig)
	}
	if s.Capture.Retention > 0 && s.Capture.PruneInterval <= 0 {
		return nil, fmt.Errorf("%w: capture.prune_interval must be positive when retention is set", ErrInvalidConfig)
	}
	return s, nil
}
