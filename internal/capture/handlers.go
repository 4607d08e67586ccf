package capture

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/velocitycmdb/velocitycmdb/pkg/models"
	"go.uber.org/zap"
)

// maxCaptureBody caps the size of an uploaded snapshot.
const maxCaptureBody = 32 << 20

// Handler provides HTTP endpoints for storing and browsing captures.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a capture Handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers capture HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/captures", h.handleSaveCapture)
	mux.HandleFunc("GET /api/v1/captures/devices", h.handleListDevices)
	mux.HandleFunc("GET /api/v1/captures/devices/{device}/{capture_type}", h.handleLatestCapture)
}

// SaveCaptureRequest is the request body for POST /captures.
type SaveCaptureRequest struct {
	Device      string             `json:"device" example:"core-sw-01"`
	Vendor      string             `json:"vendor,omitempty" example:"arista"`
	CaptureType models.CaptureType `json:"capture_type" example:"arp"`
	Content     string             `json:"content"`
	CapturedAt  *time.Time         `json:"captured_at,omitempty"`
}

// handleSaveCapture stores one snapshot.
//
//	@Summary		Store capture
//	@Description	Stores raw command output for a device. Identical content refreshes the existing snapshot.
//	@Tags			captures
//	@Accept			json
//	@Produce		json
//	@Param			body	body		SaveCaptureRequest	true	"Capture"
//	@Success		201		{object}	models.Snapshot
//	@Success		200		{object}	models.Snapshot
//	@Failure		400		{object}	models.APIProblem
//	@Router			/captures [post]
func (h *Handler) handleSaveCapture(w http.ResponseWriter, r *http.Request) {
	var req SaveCaptureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCaptureBody)).Decode(&req); err != nil {
		captureWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var at time.Time
	if req.CapturedAt != nil {
		at = *req.CapturedAt
	}

	res, err := h.store.SaveSnapshot(r.Context(), req.Device, req.Vendor, req.CaptureType, req.Content, at)
	if err != nil {
		if errors.Is(err, ErrUnknownCaptureType) || errors.Is(err, ErrEmptyContent) || errors.Is(err, ErrEmptyDeviceName) {
			captureWriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn("failed to save capture",
			zap.String("device", req.Device),
			zap.String("capture_type", string(req.CaptureType)),
			zap.Error(err))
		captureWriteError(w, http.StatusInternalServerError, "failed to save capture")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	snap := res.Snapshot
	snap.Content = ""
	captureWriteJSON(w, status, snap)
}

// handleListDevices lists devices and their latest capture times.
//
//	@Summary		List captured devices
//	@Tags			captures
//	@Produce		json
//	@Success		200	{array}	models.Device
//	@Router			/captures/devices [get]
func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.ListDevices(r.Context())
	if err != nil {
		h.logger.Warn("failed to list devices", zap.Error(err))
		captureWriteError(w, http.StatusInternalServerError, "failed to list devices")
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}
	captureWriteJSON(w, http.StatusOK, devices)
}

// handleLatestCapture returns the newest snapshot of a type for a device.
//
//	@Summary		Latest capture
//	@Tags			captures
//	@Produce		json
//	@Param			device			path		string	true	"Device name"
//	@Param			capture_type	path		string	true	"Capture type"
//	@Success		200				{object}	models.Snapshot
//	@Failure		404				{object}	models.APIProblem
//	@Router			/captures/devices/{device}/{capture_type} [get]
func (h *Handler) handleLatestCapture(w http.ResponseWriter, r *http.Request) {
	device := r.PathValue("device")
	ct := models.CaptureType(r.PathValue("capture_type"))
	if !ct.Valid() {
		captureWriteError(w, http.StatusBadRequest, "unknown capture type")
		return
	}

	snap, err := h.store.LatestSnapshot(r.Context(), device, ct)
	if err != nil {
		h.logger.Warn("failed to get capture",
			zap.String("device", device),
			zap.String("capture_type", string(ct)),
			zap.Error(err))
		captureWriteError(w, http.StatusInternalServerError, "failed to get capture")
		return
	}
	if snap == nil {
		captureWriteError(w, http.StatusNotFound, "capture not found")
		return
	}
	captureWriteJSON(w, http.StatusOK, snap)
}

func captureWriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func captureWriteError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://velocitycmdb.dev/problems/" + strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "-")),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
