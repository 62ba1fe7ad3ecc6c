// Package mqtt relays panel telemetry to a broker, announcing sensors over
// the Home Assistant discovery convention.
package mqtt

import (
	"context"
	"errors"
	"sync"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

type service struct {
	client       paho_mqtt.Client
	manufacturer string
	deviceModel  string

	mu  sync.Mutex
	uid model.TransmitterUID

	configuredSensors map[string]struct{}
}

func New(client paho_mqtt.Client, manufacturer, deviceModel string) *service {
	return &service{
		client:            client,
		manufacturer:      manufacturer,
		deviceModel:       deviceModel,
		configuredSensors: make(map[string]struct{}),
	}
}

func (s *service) Connect() error {
	token := s.client.Connect()
	res := token.WaitTimeout(time.Second * 5)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return errors.New("unable to connect in time")
}

// SetUID records the transmitter backing all sensor topics and publishes its
// availability. Called after every directory resolution.
func (s *service) SetUID(_ context.Context, uid model.TransmitterUID) {
	s.mu.Lock()
	s.uid = uid
	s.mu.Unlock()

	payload := transmitterStatePayload(uid)
	token := s.client.Publish(transmitterStateTopic, 1, true, payload)
	token.WaitTimeout(time.Second * 5)
}

func (s *service) transmitterUID() model.TransmitterUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uid
}
