package panel

import (
	"context"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// DirectoryAPI is the slice of the lighting client the Directory consumes.
type DirectoryAPI interface {
	ListCCO(ctx context.Context) (model.TransmitterUID, error)
}

// ControlModeAPI is the slice of the lighting client the control-mode view
// consumes.
type ControlModeAPI interface {
	ControlMode(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error)
	SetControlMode(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error
	ResetControlMode(ctx context.Context, uid model.TransmitterUID) error
}

// DimmingAPI is the slice of the lighting client the dimming view consumes.
type DimmingAPI interface {
	DimBroadcast(ctx context.Context, uid model.TransmitterUID) (model.Dimming, error)
	SetDimBroadcast(ctx context.Context, uid model.TransmitterUID, d model.Dimming) error
}

// SensorAPI is the slice of the lighting client the sensors view consumes.
type SensorAPI interface {
	SensorNames(ctx context.Context) ([]string, error)
	SingleMeasurement(ctx context.Context, id int) (string, error)
}

// UIDListener is notified after every directory resolution, including rescans
// that return the same UID.
type UIDListener interface {
	SetUID(ctx context.Context, uid model.TransmitterUID)
}

// ReadingSink receives fresh sensor measurements for fan-out beyond the panel.
type ReadingSink interface {
	PublishReading(ctx context.Context, reading model.Reading)
}
