package lighting

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// Commissioning-time transmitter settings. These mirror the backend's query
// constraints so a bad value never reaches the serial bus.

func (c *Client) TxPower(ctx context.Context, uid model.TransmitterUID) (int, error) {
	var res struct {
		TxPower int `json:"txpower"`
	}
	if err := c.getUID(ctx, uid, "/tx_power", nil, &res); err != nil {
		return 0, err
	}
	return res.TxPower, nil
}

func (c *Client) SetTxPower(ctx context.Context, uid model.TransmitterUID, power int) error {
	if power < 0 || power > 24 {
		return fmt.Errorf("tx power %d outside [0,24]", power)
	}
	return c.putUID(ctx, uid, "/tx_power", intQuery("txpower", power), nil)
}

// AccessTime is the discovery window, in minutes, the transmitter keeps open
// for adapters after commissioning.
func (c *Client) AccessTime(ctx context.Context, uid model.TransmitterUID) (int, error) {
	var res struct {
		AccessTime int `json:"access_time"`
	}
	if err := c.getUID(ctx, uid, "/access_time", nil, &res); err != nil {
		return 0, err
	}
	return res.AccessTime, nil
}

func (c *Client) SetAccessTime(ctx context.Context, uid model.TransmitterUID, minutes int) error {
	if minutes < 1 || minutes > 30 {
		return fmt.Errorf("access time %d outside [1,30] minutes", minutes)
	}
	return c.putUID(ctx, uid, "/access_time", intQuery("access_time", minutes), nil)
}

func (c *Client) Band(ctx context.Context, uid model.TransmitterUID) (int, error) {
	var res struct {
		Band int `json:"band"`
	}
	if err := c.getUID(ctx, uid, "/band", nil, &res); err != nil {
		return 0, err
	}
	return res.Band, nil
}

func (c *Client) SetBand(ctx context.Context, uid model.TransmitterUID, band int) error {
	if band < 0 || band > 3 {
		return fmt.Errorf("frequency band %d outside [0,3]", band)
	}
	return c.putUID(ctx, uid, "/band", intQuery("band", band), nil)
}

// DimChannelCount reports how many 0-10V analog inputs the transmitter reads.
func (c *Client) DimChannelCount(ctx context.Context, uid model.TransmitterUID) (int, error) {
	var res struct {
		ChannelCount int `json:"channel_count"`
	}
	if err := c.getUID(ctx, uid, "/dim_channel", nil, &res); err != nil {
		return 0, err
	}
	return res.ChannelCount, nil
}

func (c *Client) SetDimChannelCount(ctx context.Context, uid model.TransmitterUID, count int) error {
	if count < 1 || count > 2 {
		return fmt.Errorf("analog channel count %d outside [1,2]", count)
	}
	return c.putUID(ctx, uid, "/dim_channel", intQuery("channel_count", count), nil)
}

func (c *Client) StartupControl(ctx context.Context, uid model.TransmitterUID) (StartupControl, error) {
	var sc StartupControl
	if err := c.getUID(ctx, uid, "/startup_control", nil, &sc); err != nil {
		return StartupControl{}, err
	}
	return sc, nil
}

func (c *Client) SetStartupControl(ctx context.Context, uid model.TransmitterUID, sc StartupControl) error {
	if sc.DefaultDimming < 0 || sc.DefaultDimming > 100 {
		return fmt.Errorf("default dimming %d outside [0,100]", sc.DefaultDimming)
	}
	return c.putUID(ctx, uid, "/startup_control", nil, sc)
}

func (c *Client) ModbusAddress(ctx context.Context, uid model.TransmitterUID) (int, error) {
	var res struct {
		Address int `json:"address"`
	}
	if err := c.getUID(ctx, uid, "/modbus_rtu_node_address", nil, &res); err != nil {
		return 0, err
	}
	return res.Address, nil
}

func (c *Client) SetModbusAddress(ctx context.Context, uid model.TransmitterUID, address int) error {
	if address < 1 || address > 255 {
		return fmt.Errorf("modbus node address %d outside [1,255]", address)
	}
	return c.putUID(ctx, uid, "/modbus_rtu_node_address", intQuery("address", address), nil)
}

func (c *Client) IPAddress(ctx context.Context, uid model.TransmitterUID) (IPConfig, error) {
	var cfg IPConfig
	if err := c.getUID(ctx, uid, "/ip_address", nil, &cfg); err != nil {
		return IPConfig{}, err
	}
	return cfg, nil
}

func (c *Client) SetIPAddress(ctx context.Context, uid model.TransmitterUID, cfg IPConfig) error {
	if !cfg.Dynamic && (cfg.Address == nil || cfg.Netmask == nil || cfg.Gateway == nil) {
		return fmt.Errorf("static ip config requires address, netmask and gateway")
	}
	return c.putUID(ctx, uid, "/ip_address", nil, cfg)
}

// Reboot power-cycles the transmitter. The serial link stays silent for about
// ten seconds afterwards.
func (c *Client) Reboot(ctx context.Context, uid model.TransmitterUID) error {
	return c.postUID(ctx, uid, "/reboot", nil, nil)
}

func intQuery(key string, v int) url.Values {
	query := url.Values{}
	query.Set(key, strconv.Itoa(v))
	return query
}
