package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

const transmitterStateTopic = "agrolux/transmitter/state"

func (s *service) Write(ctx context.Context, readings []model.Reading) error {
	for _, r := range readings {
		if err := s.publishReading(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterSensor publishes the retained discovery message for one sensor.
// Repeat registrations for a slug already announced are skipped.
func (s *service) RegisterSensor(sensor model.Sensor) error {
	if _, exists := s.configuredSensors[sensor.Slug]; exists {
		return nil
	}
	identifier := s.identifier()
	registerMessage := registerMsg(identifier, s.manufacturer, s.deviceModel, sensor)

	topic := discoveryTopic(identifier, sensor.Slug)

	payload, err := json.Marshal(registerMessage)
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		s.configuredSensors[sensor.Slug] = struct{}{}
		return nil
	}
	return nil
}

func (s *service) publishReading(_ context.Context, r model.Reading) error {
	topic := stateTopic(s.identifier(), r.Slug)

	payload := map[string]string{
		"value": r.Value,
	}
	if r.Unit != "" {
		payload["unit_of_measurement"] = r.Unit
	}

	publishData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 0, false, publishData)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

// identifier is the node id shared by every topic for the current
// transmitter. Sensors registered before a transmitter resolves land under
// the unassigned node.
func (s *service) identifier() string {
	uid := s.transmitterUID()
	if !uid.Valid() {
		return slugify(s.deviceModel) + "_unassigned"
	}
	return fmt.Sprintf("%s_%s", slugify(s.deviceModel), strings.ToLower(string(uid)))
}

func discoveryTopic(identifier, sensorSlug string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/config", identifier, sensorSlug)
}

func stateTopic(identifier, sensorSlug string) string {
	return fmt.Sprintf("homeassistant/sensor/%s/%s/state", identifier, sensorSlug)
}

func registerMsg(identifier, manufacturer, deviceModel string, sensor model.Sensor) model.RegisterMessage {
	name := fmt.Sprintf("%s %s", deviceModel, sensor.Name)

	return model.RegisterMessage{
		Tilda:             fmt.Sprintf("homeassistant/sensor/%s/%s", identifier, sensor.Slug),
		Name:              name,
		ID:                fmt.Sprintf("%s_%s", identifier, sensor.Slug),
		StateTopic:        "~/state",
		UnitOfMeasurement: sensor.Kind.Unit(),
		Device: model.RegisterDevice{
			Name:         deviceModel,
			Identifiers:  []string{identifier},
			Model:        deviceModel,
			Manufacturer: manufacturer,
		},
	}
}

func transmitterStatePayload(uid model.TransmitterUID) []byte {
	payload, _ := json.Marshal(map[string]any{
		"uid":    string(uid),
		"usable": uid.Valid(),
	})
	return payload
}

func slugify(s string) string {
	return strings.ReplaceAll(slug.Make(s), "-", "_")
}
