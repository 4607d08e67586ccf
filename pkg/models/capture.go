package models

import "time"

// CaptureType names the kind of command output held by a snapshot.
type CaptureType string

const (
	CaptureARP       CaptureType = "arp"
	CaptureMAC       CaptureType = "mac"
	CaptureRoutes    CaptureType = "routes"
	CaptureConfigs   CaptureType = "configs"
	CaptureLLDP      CaptureType = "lldp"
	CaptureInventory CaptureType = "inventory"
)

// CaptureTypes lists every capture type accepted for storage.
var CaptureTypes = []CaptureType{
	CaptureARP, CaptureMAC, CaptureRoutes, CaptureConfigs, CaptureLLDP, CaptureInventory,
}

// Valid reports whether t is a known capture type.
func (t CaptureType) Valid() bool {
	for _, ct := range CaptureTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// Snapshot is one stored capture of raw command output for a device.
type Snapshot struct {
	ID          string      `json:"id" example:"6f1c3f0e-9a51-4d0e-bb43-1f0c8d1f6a2e"`
	DeviceID    int64       `json:"device_id" example:"3"`
	DeviceName  string      `json:"device_name" example:"core-sw-01"`
	CaptureType CaptureType `json:"capture_type" example:"arp"`
	Content     string      `json:"content,omitempty"`
	ContentHash string      `json:"content_hash" example:"9f86d081884c7d65..."`
	CapturedAt  time.Time   `json:"captured_at"`
}

// Device is an inventory row known to the capture store.
type Device struct {
	ID           int64                     `json:"id" example:"3"`
	Name         string                    `json:"name" example:"core-sw-01"`
	Vendor       string                    `json:"vendor,omitempty" example:"arista"`
	CreatedAt    time.Time                 `json:"created_at"`
	LastCaptured map[CaptureType]time.Time `json:"last_captured,omitempty"`
}
