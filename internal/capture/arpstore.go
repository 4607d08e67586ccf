package capture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

// ErrARPStoreMissing is returned by OpenARPStore when the datastore file does
// not exist. Callers are expected to log it and carry on without one.
var ErrARPStoreMissing = errors.New("arp datastore not found")

// ARPStore reads the pre-parsed ARP datastore maintained by the ARP loader.
// It is opened read-only and never written.
type ARPStore struct {
	db *sql.DB
}

// OpenARPStore opens the ARP datastore at path in read-only mode.
func OpenARPStore(path string) (*ARPStore, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrARPStoreMissing, path)
		}
		return nil, fmt.Errorf("stat arp datastore %q: %w", path, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open arp datastore %q: %w", path, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping arp datastore %q: %w", path, err)
	}
	return &ARPStore{db: db}, nil
}

// NewARPStore wraps an existing connection.
func NewARPStore(db *sql.DB) *ARPStore {
	return &ARPStore{db: db}
}

// Lookup returns every stored ARP binding for ip.
func (a *ARPStore) Lookup(ctx context.Context, ip string) ([]models.ARPEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT ip_address, mac_address, COALESCE(interface, ''), COALESCE(device_name, ''), vlan
		FROM arp_entries
		WHERE ip_address = ?`,
		ip,
	)
	if err != nil {
		return nil, fmt.Errorf("query arp entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ARPEntry
	for rows.Next() {
		var e models.ARPEntry
		var vlan sql.NullString
		if err := rows.Scan(&e.IPAddress, &e.MACAddress, &e.Interface, &e.DeviceName, &vlan); err != nil {
			return nil, fmt.Errorf("scan arp entry: %w", err)
		}
		if vlan.Valid && vlan.String != "" {
			v := vlan.String
			e.VLAN = &v
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the datastore connection.
func (a *ARPStore) Close() error {
	return a.db.Close()
}
