package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// SensorsView holds the ordered sensor list. Each record keeps the backend
// index it was born with as its stable ID. Measurements are pulled one row at
// a time on operator request, never polled, and a failed refresh leaves every
// other row and the target's prior value untouched.
type SensorsView struct {
	client SensorAPI
	sink   ReadingSink
	log    *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   model.SyncState
	sensors []model.Sensor
}

// NewSensorsView builds the view. sink may be nil when no telemetry fan-out
// is configured.
func NewSensorsView(client SensorAPI, sink ReadingSink, log *zap.Logger) *SensorsView {
	if log == nil {
		log = zap.L()
	}
	return &SensorsView{
		client: client,
		sink:   sink,
		log:    log,
		now:    time.Now,
		state:  model.StateLoading,
	}
}

// Load fetches the name list. Already-loaded views return immediately, so the
// list is fetched once; a failed attempt may be retried by calling Load again.
func (v *SensorsView) Load(ctx context.Context) error {
	v.mu.Lock()
	if v.state == model.StateSynced {
		v.mu.Unlock()
		return nil
	}
	v.state = model.StateLoading
	v.mu.Unlock()

	names, err := v.client.SensorNames(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.log.Error("sensor list load failed", zap.Error(err))
		v.state = model.StateFailed
		return err
	}
	v.sensors = lo.Map(names, func(name string, i int) model.Sensor {
		return model.NewSensor(i, name)
	})
	v.state = model.StateSynced
	return nil
}

// State reports the list's lifecycle state.
func (v *SensorsView) State() model.SyncState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Sensors returns the records in backend order.
func (v *SensorsView) Sensors() []model.Sensor {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.Sensor, len(v.sensors))
	copy(out, v.sensors)
	return out
}

// RefreshMeasurement pulls one reading and updates only the addressed record.
// Fresh readings are also handed to the telemetry sink.
func (v *SensorsView) RefreshMeasurement(ctx context.Context, id int) (model.Sensor, error) {
	v.mu.Lock()
	_, idx, found := lo.FindIndexOf(v.sensors, func(s model.Sensor) bool {
		return s.ID == id
	})
	if !found {
		v.mu.Unlock()
		return model.Sensor{}, fmt.Errorf("no sensor with id %d: %w", id, ErrUnknownSensor)
	}
	v.mu.Unlock()

	value, err := v.client.SingleMeasurement(ctx, id)

	v.mu.Lock()
	// The list never reorders after load, so idx stays valid.
	s := &v.sensors[idx]
	if err != nil {
		v.log.Error("measurement refresh failed",
			zap.Int("id", id),
			zap.String("sensor", s.Slug),
			zap.Error(err))
		s.LastError = err.Error()
		snap := *s
		v.mu.Unlock()
		return snap, err
	}
	m := model.Measurement{Value: value, At: v.now()}
	s.Measurement = &m
	s.LastError = ""
	snap := *s
	v.mu.Unlock()

	if v.sink != nil {
		v.sink.PublishReading(ctx, model.NewReading(snap, m))
	}
	return snap, nil
}
