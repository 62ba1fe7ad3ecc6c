package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

func errUnknownInterface(name string) error {
	return fmt.Errorf("unknown control interface %q", name)
}

func checkDimmingRequest(req *dimmingRequest) error {
	if req.Channel < 0 || req.Channel >= model.DimmingChannels {
		return fmt.Errorf("channel %d out of range [0,%d]", req.Channel, model.DimmingChannels-1)
	}
	if req.Value < 0 || req.Value > model.DimmingMax {
		return fmt.Errorf("value %d out of range [0,%d]", req.Value, model.DimmingMax)
	}
	return nil
}

type transmitterResponse struct {
	UID    string          `json:"uid"`
	State  model.SyncState `json:"state"`
	Usable bool            `json:"usable"`
}

type toggleRequest struct {
	Interface string `json:"interface"`
}

type dimmingRequest struct {
	Channel int `json:"channel"`
	Value   int `json:"value"`
}

type refreshRequest struct {
	ID int `json:"id"`
}

type loginRequest struct {
	Password string `json:"password"`
}

type sensorsResponse struct {
	State   model.SyncState `json:"state"`
	Sensors []model.Sensor  `json:"sensors"`
}

func (s *server) getTransmitter(w http.ResponseWriter, r *http.Request) {
	uid := s.directory.UID()
	writeJSON(w, http.StatusOK, transmitterResponse{
		UID:    string(uid),
		State:  s.directory.State(),
		Usable: uid.Valid(),
	})
}

func (s *server) postRescan(w http.ResponseWriter, r *http.Request) {
	uid := s.directory.Rescan(r.Context())
	writeJSON(w, http.StatusOK, transmitterResponse{
		UID:    string(uid),
		State:  s.directory.State(),
		Usable: uid.Valid(),
	})
}

func (s *server) getControlMode(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controlMode.Snapshot())
}

func (s *server) postControlModeToggle(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[toggleRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	iface := model.ControlInterface(req.Interface)
	if !iface.Known() {
		writeError(w, http.StatusBadRequest, errUnknownInterface(req.Interface))
		return
	}

	if err := s.controlMode.Toggle(r.Context(), iface); err != nil {
		s.handleError(w, err)
		return
	}
	s.logger.Info("control interface toggled", zap.String("interface", req.Interface))
	writeJSON(w, http.StatusOK, s.controlMode.Snapshot())
}

func (s *server) postControlModeReset(w http.ResponseWriter, r *http.Request) {
	if err := s.controlMode.Reset(r.Context()); err != nil {
		s.handleError(w, err)
		return
	}
	s.logger.Info("control mode reset to defaults")
	writeJSON(w, http.StatusOK, s.controlMode.Snapshot())
}

func (s *server) getDimming(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dimming.Snapshot())
}

func (s *server) postDimmingSlide(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[dimmingRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := checkDimmingRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.dimming.Slide(req.Channel, req.Value); err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dimming.Snapshot())
}

func (s *server) postDimmingCommit(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[dimmingRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := checkDimmingRequest(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.dimming.Commit(r.Context(), req.Channel, req.Value); err != nil {
		s.handleError(w, err)
		return
	}
	s.logger.Info("dimming committed",
		zap.Int("channel", req.Channel),
		zap.Int("value", req.Value))
	writeJSON(w, http.StatusOK, s.dimming.Snapshot())
}

// getSensors retries the catalog load on every call; Load is a no-op once
// the catalog is synced.
func (s *server) getSensors(w http.ResponseWriter, r *http.Request) {
	if err := s.sensors.Load(r.Context()); err != nil {
		s.logger.Warn("sensor catalog load failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, sensorsResponse{
		State:   s.sensors.State(),
		Sensors: s.sensors.Sensors(),
	})
}

func (s *server) postSensorRefresh(w http.ResponseWriter, r *http.Request) {
	req, err := unmarshalPayload[refreshRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sensor, err := s.sensors.RefreshMeasurement(r.Context(), req.ID)
	if err != nil && sensor.Name == "" {
		s.handleError(w, err)
		return
	}
	// A failed fetch still answers with the record: the previous value stays
	// visible and LastError carries the failure.
	writeJSON(w, http.StatusOK, sensor)
}

func (s *server) postLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		http.NotFound(w, r)
		return
	}
	req, err := unmarshalPayload[loginRequest](r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := s.auth.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
