package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
	"go.uber.org/zap"
)

// ImportResult reports what happened to one capture file.
type ImportResult struct {
	Path        string             `json:"path"`
	DeviceName  string             `json:"device_name"`
	CaptureType models.CaptureType `json:"capture_type"`
	SnapshotID  string             `json:"snapshot_id,omitempty"`
	Created     bool               `json:"created"`
	Error       string             `json:"error,omitempty"`
}

// Importer loads capture files written by the collection jobs into the
// snapshot store.
type Importer struct {
	store  *Store
	logger *zap.Logger
}

// NewImporter creates an Importer writing to store.
func NewImporter(store *Store, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportDir walks a capture directory laid out as <root>/<capture_type>/<device>.<ext>
// and saves every file. Directories that are not a known capture type are
// skipped. Per-file failures are recorded in the results, not returned.
func (im *Importer) ImportDir(ctx context.Context, root string) ([]ImportResult, error) {
	var results []ImportResult
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if len(parts) == 1 && !models.CaptureType(parts[0]).Valid() {
				im.logger.Debug("skipping unknown capture directory", zap.String("dir", path))
				return fs.SkipDir
			}
			if len(parts) > 1 {
				return fs.SkipDir
			}
			return nil
		}
		if len(parts) != 2 || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		device := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		results = append(results, im.ImportFile(ctx, device, "", models.CaptureType(parts[0]), path))
		return nil
	})
	if err != nil {
		return results, fmt.Errorf("walk capture dir %q: %w", root, err)
	}

	im.logger.Info("capture import complete",
		zap.String("root", root),
		zap.Int("files", len(results)),
	)
	return results, nil
}

// ImportFile saves a single capture file. The file's modification time is
// used as the capture time.
func (im *Importer) ImportFile(ctx context.Context, device, vendor string, captureType models.CaptureType, path string) ImportResult {
	res := ImportResult{Path: path, DeviceName: device, CaptureType: captureType}

	info, err := os.Stat(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	content, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	saved, err := im.store.SaveSnapshot(ctx, device, vendor, captureType, string(content), info.ModTime())
	if err != nil {
		level := im.logger.Warn
		if errors.Is(err, ErrEmptyContent) {
			level = im.logger.Debug
		}
		level("capture import failed",
			zap.String("path", path),
			zap.String("device", device),
			zap.Error(err),
		)
		res.Error = err.Error()
		return res
	}

	res.SnapshotID = saved.Snapshot.ID
	res.Created = saved.Created
	return res
}
