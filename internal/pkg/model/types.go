package model

// TransmitterUID is the serial number of a lighting transmitter (CCO) as
// returned by the directory endpoint. Two values are sentinels meaning "no
// usable transmitter selected": the empty string and UIDError.
type TransmitterUID string

// UIDError is stored when directory resolution fails. Views holding it (or the
// empty string) must not issue any transmitter-scoped request.
const UIDError TransmitterUID = "ERROR"

func (u TransmitterUID) String() string {
	return string(u)
}

// Valid reports whether the UID identifies an addressable transmitter.
func (u TransmitterUID) Valid() bool {
	return u != "" && u != UIDError
}

// ControlInterface names one of the transmitter's external control modes.
type ControlInterface string

const (
	InterfaceAnalog ControlInterface = "analog" // 0-10V analog input
	InterfaceButton ControlInterface = "button" // front panel buttons
	InterfaceModbus ControlInterface = "modbus" // Modbus/RTU
	InterfaceBacnet ControlInterface = "bacnet" // BACnet/IP
	InterfaceDebug  ControlInterface = "debug"  // RS232 debug console
)

func (ci ControlInterface) String() string {
	return string(ci)
}

// Editable reports whether the operator may toggle this interface. The button
// interface is always on at the transmitter and is presented read-only.
func (ci ControlInterface) Editable() bool {
	return ci != InterfaceButton
}

// Known reports whether ci is one of the five transmitter interfaces.
func (ci ControlInterface) Known() bool {
	switch ci {
	case InterfaceAnalog, InterfaceButton, InterfaceModbus, InterfaceBacnet, InterfaceDebug:
		return true
	}
	return false
}

// ControlInterfaces lists the five interfaces in the transmitter's wire order.
var ControlInterfaces = []ControlInterface{
	InterfaceAnalog,
	InterfaceButton,
	InterfaceModbus,
	InterfaceBacnet,
	InterfaceDebug,
}

// SyncState is the lifecycle state of a sync view.
type SyncState string

const (
	StateDisabled SyncState = "disabled" // no usable transmitter, all calls suppressed
	StateLoading  SyncState = "loading"  // initial, or refreshing after a UID change
	StateSynced   SyncState = "synced"   // local value mirrors the backend
	StateDirty    SyncState = "dirty"    // local edit made, write not yet confirmed
	StateFailed   SyncState = "failed"   // last load or write failed
)

func (s SyncState) String() string {
	return string(s)
}

// SensorKind is the integer type code carried by a sensor record. The shell
// maps it to an icon class; the gateway uses it only to pick a unit hint.
type SensorKind int

const (
	SensorUnknown     SensorKind = 0
	SensorTemperature SensorKind = 1
	SensorHumidity    SensorKind = 2
	SensorCO2         SensorKind = 3
	SensorLight       SensorKind = 4
	SensorMoisture    SensorKind = 5
)

// Unit returns the measurement unit for the kind, or "" when unknown.
func (k SensorKind) Unit() string {
	switch k {
	case SensorTemperature:
		return "°C"
	case SensorHumidity:
		return "%"
	case SensorCO2:
		return "ppm"
	case SensorLight:
		return "µmol/m²/s"
	case SensorMoisture:
		return "%"
	}
	return ""
}
