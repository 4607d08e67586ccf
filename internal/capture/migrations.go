package capture

import (
	"database/sql"

	"github.com/velocitycmdb/velocitycmdb/internal/store"
)

// Migrations returns the capture store schema, applied under the "capture"
// component name.
func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create devices and capture_snapshots tables",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE devices (
						id         INTEGER  PRIMARY KEY AUTOINCREMENT,
						name       TEXT     NOT NULL UNIQUE,
						vendor     TEXT     NOT NULL DEFAULT '',
						created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					);

					CREATE TABLE capture_snapshots (
						id           TEXT     PRIMARY KEY,
						device_id    INTEGER  NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
						capture_type TEXT     NOT NULL,
						content      TEXT     NOT NULL,
						content_hash TEXT     NOT NULL,
						captured_at  DATETIME NOT NULL,
						UNIQUE (device_id, capture_type, content_hash)
					);

					CREATE INDEX idx_capture_snapshots_latest
						ON capture_snapshots(capture_type, device_id, captured_at DESC);
				`)
				return err
			},
		},
	}
}
