package panel

import (
	"context"
	"errors"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// MockLightingService is a func-field test double covering every view-facing
// slice of the lighting client.
type MockLightingService struct {
	ListCCOFunc           func(ctx context.Context) (model.TransmitterUID, error)
	ControlModeFunc       func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error)
	SetControlModeFunc    func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error
	ResetControlModeFunc  func(ctx context.Context, uid model.TransmitterUID) error
	DimBroadcastFunc      func(ctx context.Context, uid model.TransmitterUID) (model.Dimming, error)
	SetDimBroadcastFunc   func(ctx context.Context, uid model.TransmitterUID, d model.Dimming) error
	SensorNamesFunc       func(ctx context.Context) ([]string, error)
	SingleMeasurementFunc func(ctx context.Context, id int) (string, error)
}

func (m *MockLightingService) ListCCO(ctx context.Context) (model.TransmitterUID, error) {
	if m.ListCCOFunc != nil {
		return m.ListCCOFunc(ctx)
	}
	return "", errors.New("mocked ListCCO not implemented")
}

func (m *MockLightingService) ControlMode(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
	if m.ControlModeFunc != nil {
		return m.ControlModeFunc(ctx, uid)
	}
	return model.ControlMode{}, errors.New("mocked ControlMode not implemented")
}

func (m *MockLightingService) SetControlMode(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
	if m.SetControlModeFunc != nil {
		return m.SetControlModeFunc(ctx, uid, cm)
	}
	return errors.New("mocked SetControlMode not implemented")
}

func (m *MockLightingService) ResetControlMode(ctx context.Context, uid model.TransmitterUID) error {
	if m.ResetControlModeFunc != nil {
		return m.ResetControlModeFunc(ctx, uid)
	}
	return errors.New("mocked ResetControlMode not implemented")
}

func (m *MockLightingService) DimBroadcast(ctx context.Context, uid model.TransmitterUID) (model.Dimming, error) {
	if m.DimBroadcastFunc != nil {
		return m.DimBroadcastFunc(ctx, uid)
	}
	return model.Dimming{}, errors.New("mocked DimBroadcast not implemented")
}

func (m *MockLightingService) SetDimBroadcast(ctx context.Context, uid model.TransmitterUID, d model.Dimming) error {
	if m.SetDimBroadcastFunc != nil {
		return m.SetDimBroadcastFunc(ctx, uid, d)
	}
	return errors.New("mocked SetDimBroadcast not implemented")
}

func (m *MockLightingService) SensorNames(ctx context.Context) ([]string, error) {
	if m.SensorNamesFunc != nil {
		return m.SensorNamesFunc(ctx)
	}
	return nil, errors.New("mocked SensorNames not implemented")
}

func (m *MockLightingService) SingleMeasurement(ctx context.Context, id int) (string, error) {
	if m.SingleMeasurementFunc != nil {
		return m.SingleMeasurementFunc(ctx, id)
	}
	return "", errors.New("mocked SingleMeasurement not implemented")
}
