// Package capture stores raw command-output snapshots per device and capture
// type, and exposes the latest snapshot of each kind to the locator.
package capture

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/velocitycmdb/velocitycmdb/pkg/models"
)

var (
	// ErrUnknownCaptureType is returned when saving a snapshot of a type the store does not accept.
	ErrUnknownCaptureType = errors.New("unknown capture type")
	// ErrEmptyContent is returned when saving a snapshot with no content.
	ErrEmptyContent = errors.New("snapshot content is empty")
	// ErrEmptyDeviceName is returned when a snapshot has no device name.
	ErrEmptyDeviceName = errors.New("device name is required")
)

// latestRowID selects the newest snapshot row for the outer row's device and type.
const latestRowID = `
	SELECT s2.rowid FROM capture_snapshots s2
	WHERE s2.device_id = s.device_id AND s2.capture_type = s.capture_type
	ORDER BY s2.captured_at DESC, s2.rowid DESC
	LIMIT 1`

// Store provides database operations for capture snapshots.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over a database already migrated with Migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveResult describes the outcome of SaveSnapshot.
type SaveResult struct {
	Snapshot models.Snapshot
	// Created is false when identical content was already stored for the
	// device and type and only its capture time was refreshed.
	Created bool
}

// ContentHash returns the hex SHA-256 of snapshot content.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// UpsertDevice returns the ID of the named device, creating it if needed. A
// non-empty vendor overwrites the stored one.
func (s *Store) UpsertDevice(ctx context.Context, name, vendor string) (int64, error) {
	return upsertDevice(ctx, s.db, name, vendor)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsertDevice(ctx context.Context, q queryer, name, vendor string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyDeviceName
	}
	var id int64
	err := q.QueryRowContext(ctx, `
		INSERT INTO devices (name, vendor) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET
			vendor = CASE WHEN excluded.vendor != '' THEN excluded.vendor ELSE devices.vendor END
		RETURNING id`,
		name, vendor,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert device %q: %w", name, err)
	}
	return id, nil
}

// SaveSnapshot stores content for a device and capture type. Snapshots are
// content-addressed: saving content identical to an existing snapshot for the
// same device and type only moves that snapshot's capture time forward.
func (s *Store) SaveSnapshot(ctx context.Context, deviceName, vendor string, captureType models.CaptureType, content string, capturedAt time.Time) (*SaveResult, error) {
	if !captureType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCaptureType, captureType)
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	capturedAt = capturedAt.UTC()
	hash := ContentHash(content)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deviceID, err := upsertDevice(ctx, tx, deviceName, vendor)
	if err != nil {
		return nil, err
	}

	res := &SaveResult{Snapshot: models.Snapshot{
		DeviceID:    deviceID,
		DeviceName:  strings.TrimSpace(deviceName),
		CaptureType: captureType,
		Content:     content,
		ContentHash: hash,
		CapturedAt:  capturedAt,
	}}

	var existingID string
	var existingAt time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT id, captured_at FROM capture_snapshots
		WHERE device_id = ? AND capture_type = ? AND content_hash = ?`,
		deviceID, captureType, hash,
	).Scan(&existingID, &existingAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res.Snapshot.ID = uuid.New().String()
		res.Created = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO capture_snapshots (id, device_id, capture_type, content, content_hash, captured_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			res.Snapshot.ID, deviceID, captureType, content, hash, capturedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert snapshot: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("find snapshot by hash: %w", err)
	default:
		res.Snapshot.ID = existingID
		if capturedAt.After(existingAt) {
			_, err = tx.ExecContext(ctx,
				"UPDATE capture_snapshots SET captured_at = ? WHERE id = ?",
				capturedAt, existingID,
			)
			if err != nil {
				return nil, fmt.Errorf("refresh snapshot: %w", err)
			}
		} else {
			res.Snapshot.CapturedAt = existingAt.UTC()
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}

	outcome := "refreshed"
	if res.Created {
		outcome = "created"
	}
	snapshotsStored.WithLabelValues(string(captureType), outcome).Inc()
	return res, nil
}

// LatestSnapshots returns the newest snapshot of captureType for every device
// that has one, ordered by device name.
func (s *Store) LatestSnapshots(ctx context.Context, captureType models.CaptureType) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.device_id, d.name, s.capture_type, s.content, s.content_hash, s.captured_at
		FROM capture_snapshots s
		JOIN devices d ON d.id = s.device_id
		WHERE s.capture_type = ? AND s.rowid = (`+latestRowID+`)
		ORDER BY d.name`,
		captureType,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest %s snapshots: %w", captureType, err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.ID, &snap.DeviceID, &snap.DeviceName, &snap.CaptureType,
			&snap.Content, &snap.ContentHash, &snap.CapturedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// LatestSnapshot returns the newest snapshot of captureType for one device.
// Returns nil, nil if the device has none.
func (s *Store) LatestSnapshot(ctx context.Context, deviceName string, captureType models.CaptureType) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.device_id, d.name, s.capture_type, s.content, s.content_hash, s.captured_at
		FROM capture_snapshots s
		JOIN devices d ON d.id = s.device_id
		WHERE d.name = ? AND s.capture_type = ?
		ORDER BY s.captured_at DESC, s.rowid DESC
		LIMIT 1`,
		deviceName, captureType,
	).Scan(&snap.ID, &snap.DeviceID, &snap.DeviceName, &snap.CaptureType,
		&snap.Content, &snap.ContentHash, &snap.CapturedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest %s snapshot for %q: %w", captureType, deviceName, err)
	}
	return &snap, nil
}

// ListDevices returns all devices with the capture time of their newest
// snapshot per type.
func (s *Store) ListDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, vendor, created_at FROM devices ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	var devices []models.Device
	index := make(map[int64]int)
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Vendor, &d.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan device: %w", err)
		}
		d.LastCaptured = make(map[models.CaptureType]time.Time)
		index[d.ID] = len(devices)
		devices = append(devices, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}

	latest, err := s.db.QueryContext(ctx, `
		SELECT s.device_id, s.capture_type, s.captured_at
		FROM capture_snapshots s
		WHERE s.rowid = (`+latestRowID+`)`)
	if err != nil {
		return nil, fmt.Errorf("list latest captures: %w", err)
	}
	defer latest.Close()

	for latest.Next() {
		var (
			deviceID int64
			ct       models.CaptureType
			at       time.Time
		)
		if err := latest.Scan(&deviceID, &ct, &at); err != nil {
			return nil, fmt.Errorf("scan latest capture: %w", err)
		}
		if i, ok := index[deviceID]; ok {
			devices[i].LastCaptured[ct] = at
		}
	}
	return devices, latest.Err()
}

// Prune deletes snapshots captured before cutoff. The newest snapshot for
// each device and type is always kept, however old.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM capture_snapshots
		WHERE captured_at < ?
		  AND rowid != (
			SELECT s2.rowid FROM capture_snapshots s2
			WHERE s2.device_id = capture_snapshots.device_id
			  AND s2.capture_type = capture_snapshots.capture_type
			ORDER BY s2.captured_at DESC, s2.rowid DESC
			LIMIT 1)`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	snapshotsPruned.Add(float64(n))
	return n, nil
}
