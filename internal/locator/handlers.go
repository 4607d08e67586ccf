package locator

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
	"go.uber.org/zap"
)

// DeviceSnapshotSource returns the newest snapshot of a type for one device.
type DeviceSnapshotSource interface {
	LatestSnapshot(ctx context.Context, deviceName string, captureType models.CaptureType) (*models.Snapshot, error)
}

// Handler exposes the correlator over HTTP.
type Handler struct {
	correlator *Correlator
	snapshots  DeviceSnapshotSource
	timeout    time.Duration
	logger     *zap.Logger
}

// NewHandler creates a locator Handler. A zero timeout disables the
// per-lookup deadline.
func NewHandler(correlator *Correlator, snapshots DeviceSnapshotSource, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{correlator: correlator, snapshots: snapshots, timeout: timeout, logger: logger}
}

// RegisterRoutes registers locator HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/locator/locate", h.handleLocate)
	mux.HandleFunc("GET /api/v1/locator/devices/{device}/routes", h.handleDeviceRoutes)
}

// handleLocate finds where an IP address lives.
//
//	@Summary		Locate IP
//	@Description	Correlates ARP, MAC-table and route captures to find the access port and best routes for an IPv4 address. Malformed input returns 200 with an explanatory summary.
//	@Tags			locator
//	@Produce		json
//	@Param			ip	query		string	true	"IPv4 address"
//	@Success		200	{object}	models.IPLocation
//	@Failure		400	{object}	models.APIProblem
//	@Failure		500	{object}	models.APIProblem
//	@Router			/locator/locate [get]
func (h *Handler) handleLocate(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		locatorWriteError(w, http.StatusBadRequest, "ip query parameter is required")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	loc, err := h.correlator.LocateIP(ctx, ip)
	if err != nil {
		h.logger.Error("ip lookup failed", zap.String("ip", ip), zap.Error(err))
		locatorWriteError(w, http.StatusInternalServerError, "failed to read capture snapshots")
		return
	}
	locatorWriteJSON(w, http.StatusOK, loc)
}

// DeviceRoutesResponse is the parsed route table of one device.
type DeviceRoutesResponse struct {
	DeviceName string              `json:"device_name" example:"core-rtr-01"`
	CapturedAt time.Time           `json:"captured_at"`
	Routes     []models.RouteEntry `json:"routes"`
}

// handleDeviceRoutes returns the parsed latest route table of a device.
//
//	@Summary		Device routes
//	@Tags			locator
//	@Produce		json
//	@Param			device	path		string	true	"Device name"
//	@Success		200		{object}	DeviceRoutesResponse
//	@Failure		404		{object}	models.APIProblem
//	@Router			/locator/devices/{device}/routes [get]
func (h *Handler) handleDeviceRoutes(w http.ResponseWriter, r *http.Request) {
	device := r.PathValue("device")
	snap, err := h.snapshots.LatestSnapshot(r.Context(), device, models.CaptureRoutes)
	if err != nil {
		h.logger.Warn("failed to load routes snapshot", zap.String("device", device), zap.Error(err))
		locatorWriteError(w, http.StatusInternalServerError, "failed to load routes snapshot")
		return
	}
	if snap == nil {
		locatorWriteError(w, http.StatusNotFound, "no routes capture for device")
		return
	}

	routes := ParseRoutes(snap.Content, snap.DeviceName, snap.DeviceID)
	if routes == nil {
		routes = []models.RouteEntry{}
	}
	locatorWriteJSON(w, http.StatusOK, DeviceRoutesResponse{
		DeviceName: snap.DeviceName,
		CapturedAt: snap.CapturedAt,
		Routes:     routes,
	})
}

func locatorWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func locatorWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://velocitycmdb.dev/problems/" + strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "-")),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
