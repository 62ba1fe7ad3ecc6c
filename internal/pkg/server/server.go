// Package server exposes the synchronized panel state as a small JSON API
// for the wall shell.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/lighting"
	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
	"github.com/wrenzh/agrolux-panel/internal/pkg/panel"
)

type directoryService interface {
	Rescan(ctx context.Context) model.TransmitterUID
	UID() model.TransmitterUID
	State() model.SyncState
}

type controlModeService interface {
	Snapshot() panel.ControlModeSnapshot
	Refresh(ctx context.Context) error
	Toggle(ctx context.Context, iface model.ControlInterface) error
	Reset(ctx context.Context) error
}

type dimmingService interface {
	Snapshot() panel.DimmingSnapshot
	Refresh(ctx context.Context) error
	Slide(channel, raw int) error
	Commit(ctx context.Context, channel, raw int) error
}

type sensorsService interface {
	Load(ctx context.Context) error
	State() model.SyncState
	Sensors() []model.Sensor
	RefreshMeasurement(ctx context.Context, id int) (model.Sensor, error)
}

type server struct {
	directory   directoryService
	controlMode controlModeService
	dimming     dimmingService
	sensors     sensorsService
	auth        *Auth
	logger      *zap.Logger
}

func New(directory directoryService, controlMode controlModeService, dimming dimmingService, sensors sensorsService, auth *Auth) *server {
	return &server{
		directory:   directory,
		controlMode: controlMode,
		dimming:     dimming,
		sensors:     sensors,
		auth:        auth,
		logger:      zap.L(),
	}
}

// Handler returns the routed API wrapped in logging and auth middleware.
func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/panel/transmitter", s.getTransmitter)
	mux.HandleFunc("POST /api/panel/transmitter/rescan", s.postRescan)
	mux.HandleFunc("GET /api/panel/control_mode", s.getControlMode)
	mux.HandleFunc("POST /api/panel/control_mode/toggle", s.postControlModeToggle)
	mux.HandleFunc("POST /api/panel/control_mode/reset", s.postControlModeReset)
	mux.HandleFunc("GET /api/panel/dimming", s.getDimming)
	mux.HandleFunc("POST /api/panel/dimming/slide", s.postDimmingSlide)
	mux.HandleFunc("POST /api/panel/dimming/commit", s.postDimmingCommit)
	mux.HandleFunc("GET /api/panel/sensors", s.getSensors)
	mux.HandleFunc("POST /api/panel/sensors/refresh", s.postSensorRefresh)
	mux.HandleFunc("POST /api/panel/login", s.postLogin)
	return LoggingMiddleware(s.authMiddleware(mux))
}

// handleError maps panel guard refusals to 409, a busy transmitter to 503 and
// other backend failures to 502.
func (s *server) handleError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, panel.ErrDisabled),
		errors.Is(err, panel.ErrViewBusy),
		errors.Is(err, panel.ErrStale),
		errors.Is(err, panel.ErrReadOnly),
		errors.Is(err, lighting.ErrNoTransmitter):
		status = http.StatusConflict
	case errors.Is(err, panel.ErrUnknownSensor):
		status = http.StatusNotFound
	case errors.Is(err, lighting.ErrBusy):
		status = http.StatusServiceUnavailable
	default:
		var statusErr *lighting.StatusError
		if errors.As(err, &statusErr) {
			status = http.StatusBadGateway
		}
	}
	writeError(w, status, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func unmarshalPayload[T any](r *http.Request) (*T, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
