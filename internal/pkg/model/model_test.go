package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmitterUIDValid(t *testing.T) {
	tests := map[string]struct {
		uid  TransmitterUID
		want bool
	}{
		"real uid":  {uid: "048BE6E1", want: true},
		"empty":     {uid: "", want: false},
		"sentinel":  {uid: UIDError, want: false},
		"raw error": {uid: "ERROR", want: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.uid.Valid())
		})
	}
}

func TestControlModeNormalizeForcesButton(t *testing.T) {
	cm := ControlMode{Analog: false, Button: false, Bacnet: true, Modbus: true, Debug: false}
	got := cm.Normalize()
	assert.True(t, got.Button)
	// only button changes
	assert.Equal(t, cm.Analog, got.Analog)
	assert.Equal(t, cm.Modbus, got.Modbus)
	assert.Equal(t, cm.Bacnet, got.Bacnet)
	assert.Equal(t, cm.Debug, got.Debug)
}

func TestControlModeFlagRoundTrip(t *testing.T) {
	cm := ControlMode{}
	for _, ci := range ControlInterfaces {
		assert.False(t, cm.Flag(ci), ci.String())
		cm = cm.WithFlag(ci, true)
		assert.True(t, cm.Flag(ci), ci.String())
	}
}

func TestControlInterfaceEditable(t *testing.T) {
	assert.False(t, InterfaceButton.Editable())
	for _, ci := range []ControlInterface{InterfaceAnalog, InterfaceModbus, InterfaceBacnet, InterfaceDebug} {
		assert.True(t, ci.Editable(), ci.String())
	}
	assert.False(t, ControlInterface("bogus").Known())
}

func TestControlModeJSONTags(t *testing.T) {
	data, err := json.Marshal(ControlMode{Analog: true, Button: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"analog":true,"button":true,"modbus":false,"bacnet":false,"debug":false}`, string(data))
}

func TestDimmingValidate(t *testing.T) {
	assert.NoError(t, Dimming{Levels: [3]int{0, 550, 1000}}.Validate())
	assert.Error(t, Dimming{Levels: [3]int{-1, 0, 0}}.Validate())
	assert.Error(t, Dimming{Levels: [3]int{0, 0, 1001}}.Validate())
}

func TestDimmingPercent(t *testing.T) {
	d := Dimming{Levels: [3]int{555, 0, 1000}}
	assert.InDelta(t, 55.5, d.Percent(0), 0.001)
	assert.InDelta(t, 0.0, d.Percent(1), 0.001)
	assert.InDelta(t, 100.0, d.Percent(2), 0.001)
	assert.Equal(t, [3]string{"55.5", "0.0", "100.0"}, d.PercentStrings())
}

func TestDimmingJSONShape(t *testing.T) {
	data, err := json.Marshal(Dimming{Levels: [3]int{550, 550, 0}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dimming_levels":[550,550,0]}`, string(data))

	var d Dimming
	require.NoError(t, json.Unmarshal([]byte(`{"dimming_levels":[100,200,300]}`), &d))
	assert.Equal(t, [3]int{100, 200, 300}, d.Levels)
}

func TestNewSensor(t *testing.T) {
	s := NewSensor(2, "Air Temperature 1")
	assert.Equal(t, 2, s.ID)
	assert.Equal(t, "air_temperature_1", s.Slug)
	assert.Equal(t, SensorTemperature, s.Kind)
	assert.Nil(t, s.Measurement)

	assert.Equal(t, SensorHumidity, NewSensor(0, "RelHumidity").Kind)
	assert.Equal(t, SensorCO2, NewSensor(0, "CO2 zone A").Kind)
	assert.Equal(t, SensorLight, NewSensor(0, "PAR bar").Kind)
	assert.Equal(t, SensorUnknown, NewSensor(0, "whatever").Kind)
}
