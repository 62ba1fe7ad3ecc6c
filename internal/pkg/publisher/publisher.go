package publisher

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	lastValues           sync.Map
)

// publisher is one telemetry sink for greenhouse readings.
type publisher interface {
	Write(ctx context.Context, readings []model.Reading) error
	RegisterSensor(sensor model.Sensor) error
}

// RegisterPublisher adds a named sink. Registration happens during startup,
// before any publish runs.
func RegisterPublisher(name string, pub publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = pub
	return nil
}

// RegisterSensors announces the sensor catalog to every sink, for discovery
// mechanisms that must know a sensor before its first value arrives.
func RegisterSensors(sensors ...model.Sensor) error {
	for name, pub := range registeredPublishers {
		for _, s := range sensors {
			if err := pub.RegisterSensor(s); err != nil {
				zap.L().Error("failed to register sensor",
					zap.Error(err),
					zap.String("publisher", name),
					zap.String("sensor", s.Slug))
				continue
			}
		}
		zap.L().Debug("registered sensors", zap.Int("count", len(sensors)), zap.String("publisher", name))
	}
	return nil
}

// PublishReadings fans fresh readings out to every sink. Readings whose value
// has not changed since the last publish are dropped. A failing sink is
// logged and skipped, never fatal.
func PublishReadings(ctx context.Context, readings ...model.Reading) error {
	changed := make([]model.Reading, 0, len(readings))
	for _, r := range readings {
		if !shouldUpdate(r.Slug, r.Value) {
			continue
		}
		changed = append(changed, r)
	}
	if len(changed) == 0 {
		return nil
	}
	for name, pub := range registeredPublishers {
		if err := pub.Write(ctx, changed); err != nil {
			zap.L().Error("failed to publish readings", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("published readings", zap.Int("count", len(changed)), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(slug, newValue string) bool {
	oldValue, exists := lastValues.Load(slug)
	if exists && strings.EqualFold(newValue, oldValue.(string)) {
		return false
	}
	if !exists {
		zap.L().Info("configured sensor", zap.String("sensor", slug), zap.String("value", newValue))
	}
	lastValues.Store(slug, newValue)
	return true
}
