package cmd

import (
	"context"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// LightingService defines the interface that cmd.run expects from the
// lighting backend client.
type LightingService interface {
	ListCCO(ctx context.Context) (model.TransmitterUID, error)
	ControlMode(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error)
	SetControlMode(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error
	ResetControlMode(ctx context.Context, uid model.TransmitterUID) error
	DimBroadcast(ctx context.Context, uid model.TransmitterUID) (model.Dimming, error)
	SetDimBroadcast(ctx context.Context, uid model.TransmitterUID, d model.Dimming) error
	SensorNames(ctx context.Context) ([]string, error)
	SingleMeasurement(ctx context.Context, id int) (string, error)
}
