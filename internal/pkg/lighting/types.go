package lighting

import (
	"bytes"
	"encoding/json"
	"net"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// StartupControl is the adapter power-on behavior. DefaultDimming is on the
// 0-100 scale, unlike broadcast dimming which is x10.
type StartupControl struct {
	IsEnabled      bool `json:"is_enabled"`
	DefaultDimming int  `json:"default_dimming"`
}

// IPConfig is the transmitter ethernet configuration. Dynamic true means DHCP,
// in which case the address fields are ignored on write.
type IPConfig struct {
	Dynamic bool   `json:"dynamic"`
	Address net.IP `json:"address"`
	Netmask net.IP `json:"netmask"`
	Gateway net.IP `json:"gateway"`
}

// GroupAssignments maps adapter serial numbers to their dimming group, in the
// order the transmitter reported them.
type GroupAssignments struct {
	StaUIDs  []string `json:"sta_uids"`
	GroupIDs []int    `json:"group_ids"`
}

// UnmarshalJSON tolerates the backend's no-groups answer, which carries empty
// strings instead of empty lists.
func (g *GroupAssignments) UnmarshalJSON(data []byte) error {
	var raw struct {
		StaUIDs  json.RawMessage `json:"sta_uids"`
		GroupIDs json.RawMessage `json:"group_ids"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	g.StaUIDs = nil
	g.GroupIDs = nil
	if len(raw.StaUIDs) == 0 || bytes.HasPrefix(raw.StaUIDs, []byte(`"`)) {
		return nil
	}
	if err := json.Unmarshal(raw.StaUIDs, &g.StaUIDs); err != nil {
		return err
	}
	return json.Unmarshal(raw.GroupIDs, &g.GroupIDs)
}

// PowerMeter is the adapter's onboard meter block as reported by STATUS.
type PowerMeter struct {
	Header         int `json:"header"`
	Irms           int `json:"irms"`
	Vrms           int `json:"vrms"`
	PulseCount     int `json:"pulse_count"`
	TemperatureInt int `json:"temperature_int"`
	TemperatureExt int `json:"temperature_ext"`
	Checksum       int `json:"checksum"`
}

// AdapterStatus is a single fixture adapter's status report.
type AdapterStatus struct {
	SerialNumber    string        `json:"serial_number"`
	FirmwareVersion string        `json:"firmware_version"`
	Dimming         model.Dimming `json:"dimming"`
	DimmingStyle    int           `json:"dimming_style"`
	PowerMeter      PowerMeter    `json:"power_meter"`
}
