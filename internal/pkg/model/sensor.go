package model

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Sensor is one environmental sensor known to the backend. Records are kept as
// a single ordered sequence keyed by ID (the position in the names response at
// load time), never as parallel name/type/measurement arrays.
type Sensor struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Kind        SensorKind   `json:"kind"`
	Measurement *Measurement `json:"measurement,omitempty"`
	// LastError is set when the most recent refresh for this record failed;
	// the previous measurement, if any, stays visible.
	LastError string `json:"last_error,omitempty"`
}

// Measurement is one on-demand reading. The backend reports values as opaque
// strings; the gateway does not parse them.
type Measurement struct {
	Value string    `json:"value"`
	At    time.Time `json:"at"`
}

// NewSensor builds a record with its stable slug and kind derived from the
// backend-reported name.
func NewSensor(id int, name string) Sensor {
	return Sensor{
		ID:   id,
		Name: name,
		Slug: strings.ReplaceAll(slug.Make(name), "-", "_"),
		Kind: kindFromName(name),
	}
}

func kindFromName(name string) SensorKind {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "temp"):
		return SensorTemperature
	case strings.Contains(n, "humid"):
		return SensorHumidity
	case strings.Contains(n, "co2"), strings.Contains(n, "carbon"):
		return SensorCO2
	case strings.Contains(n, "light"), strings.Contains(n, "par"), strings.Contains(n, "lux"):
		return SensorLight
	case strings.Contains(n, "moist"), strings.Contains(n, "soil"):
		return SensorMoisture
	}
	return SensorUnknown
}

// Reading is the flattened form of a fresh measurement handed to telemetry
// sinks (MQTT, Postgres).
type Reading struct {
	SensorID int        `json:"sensor_id"`
	Slug     string     `json:"slug"`
	Name     string     `json:"name"`
	Kind     SensorKind `json:"kind"`
	Value    string     `json:"value"`
	Unit     string     `json:"unit_of_measurement"`
	At       time.Time  `json:"timestamp"`
}

// NewReading flattens a sensor and its latest measurement.
func NewReading(s Sensor, m Measurement) Reading {
	return Reading{
		SensorID: s.ID,
		Slug:     s.Slug,
		Name:     s.Name,
		Kind:     s.Kind,
		Value:    m.Value,
		Unit:     s.Kind.Unit(),
		At:       m.At,
	}
}
