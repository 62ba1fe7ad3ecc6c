package model

import (
	"fmt"
	"strconv"
)

// ControlMode is the transmitter's external control mode record. Field order
// matches the wire sequence: 0-10V, Button, Modbus/RTU, BACnet/IP, RS232 Debug.
type ControlMode struct {
	Analog bool `json:"analog"`
	Button bool `json:"button"`
	Modbus bool `json:"modbus"`
	Bacnet bool `json:"bacnet"`
	Debug  bool `json:"debug"`
}

// Normalize returns the record with Button forced true. The transmitter always
// keeps button control enabled and writes "1" for it no matter what the request
// carried, so the panel holds it true as well: after every read and before
// every write.
func (cm ControlMode) Normalize() ControlMode {
	cm.Button = true
	return cm
}

// Flag returns the value of the named interface flag.
func (cm ControlMode) Flag(ci ControlInterface) bool {
	switch ci {
	case InterfaceAnalog:
		return cm.Analog
	case InterfaceButton:
		return cm.Button
	case InterfaceModbus:
		return cm.Modbus
	case InterfaceBacnet:
		return cm.Bacnet
	case InterfaceDebug:
		return cm.Debug
	}
	return false
}

// WithFlag returns a copy of the record with the named flag set to v.
func (cm ControlMode) WithFlag(ci ControlInterface, v bool) ControlMode {
	switch ci {
	case InterfaceAnalog:
		cm.Analog = v
	case InterfaceButton:
		cm.Button = v
	case InterfaceModbus:
		cm.Modbus = v
	case InterfaceBacnet:
		cm.Bacnet = v
	case InterfaceDebug:
		cm.Debug = v
	}
	return cm
}

// DimmingChannels is the number of broadcast dimming channels on a transmitter.
const DimmingChannels = 3

// DimmingMax is the top of the backend's integer dimming scale (x10 percent).
const DimmingMax = 1000

// Dimming is the 3-channel broadcast dimming vector. Values ride the backend's
// 0-1000 integer scale; the displayed percentage is the value divided by ten.
type Dimming struct {
	Levels [DimmingChannels]int `json:"dimming_levels"`
}

// Validate checks every channel is within the backend scale.
func (d Dimming) Validate() error {
	for i, v := range d.Levels {
		if v < 0 || v > DimmingMax {
			return fmt.Errorf("dimming channel %d out of range: %d not in [0,%d]", i, v, DimmingMax)
		}
	}
	return nil
}

// Percent returns the display value of one channel in [0,100].
func (d Dimming) Percent(channel int) float64 {
	if channel < 0 || channel >= DimmingChannels {
		return 0
	}
	return float64(d.Levels[channel]) / 10
}

// PercentStrings renders all channels at one-decimal display precision.
func (d Dimming) PercentStrings() [DimmingChannels]string {
	var out [DimmingChannels]string
	for i := range d.Levels {
		out[i] = strconv.FormatFloat(d.Percent(i), 'f', 1, 64)
	}
	return out
}

// WithLevel returns a copy of the vector with one channel replaced.
func (d Dimming) WithLevel(channel, raw int) Dimming {
	if channel >= 0 && channel < DimmingChannels {
		d.Levels[channel] = raw
	}
	return d
}
