package lighting

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// Per-fixture and group dimming. Adapter serial numbers (STA UIDs) are 12 hex
// characters; groups run 1 through 8.

const staUIDLength = 12

func checkStaUID(staUID string) error {
	if len(staUID) != staUIDLength {
		return fmt.Errorf("adapter uid %q is not %d characters", staUID, staUIDLength)
	}
	return nil
}

func checkGroup(group int) error {
	if group < 1 || group > 8 {
		return fmt.Errorf("group id %d outside [1,8]", group)
	}
	return nil
}

// DimSingle pins one fixture to its own dimming vector, overriding broadcast.
func (c *Client) DimSingle(ctx context.Context, uid model.TransmitterUID, staUID string, d model.Dimming) error {
	if err := checkStaUID(staUID); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return c.putUID(ctx, uid, "/dim_single/"+staUID, nil, d)
}

// DisableDimSingle returns one fixture to broadcast dimming.
func (c *Client) DisableDimSingle(ctx context.Context, uid model.TransmitterUID, staUID string) error {
	if err := checkStaUID(staUID); err != nil {
		return err
	}
	return c.postUID(ctx, uid, "/disable_dim_single/"+staUID, nil, nil)
}

// StaGroup reads the dimming group one adapter belongs to.
func (c *Client) StaGroup(ctx context.Context, uid model.TransmitterUID, staUID string) (int, error) {
	if err := checkStaUID(staUID); err != nil {
		return 0, err
	}
	var res struct {
		GroupID int `json:"group_id"`
	}
	if err := c.getUID(ctx, uid, "/group/"+staUID, nil, &res); err != nil {
		return 0, err
	}
	return res.GroupID, nil
}

// SetStaGroup assigns one adapter to a dimming group.
func (c *Client) SetStaGroup(ctx context.Context, uid model.TransmitterUID, staUID string, group int) error {
	if err := checkStaUID(staUID); err != nil {
		return err
	}
	if err := checkGroup(group); err != nil {
		return err
	}
	return c.putUID(ctx, uid, "/group/"+staUID, intQuery("group", group), nil)
}

// AllStaGroups reads every adapter's group assignment in one sweep.
func (c *Client) AllStaGroups(ctx context.Context, uid model.TransmitterUID) (GroupAssignments, error) {
	var res GroupAssignments
	if err := c.getUID(ctx, uid, "/groups", nil, &res); err != nil {
		return GroupAssignments{}, err
	}
	return res, nil
}

// DimGroup pins a whole group to the given dimming vector.
func (c *Client) DimGroup(ctx context.Context, uid model.TransmitterUID, group int, d model.Dimming) error {
	if err := checkGroup(group); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return c.putUID(ctx, uid, "/dim_group", intQuery("group", group), d)
}

// DisableGroupDimming returns a whole group to broadcast dimming.
func (c *Client) DisableGroupDimming(ctx context.Context, uid model.TransmitterUID, group int) error {
	if err := checkGroup(group); err != nil {
		return err
	}
	if !uid.Valid() {
		return ErrNoTransmitter
	}
	// Path shape differs from the other group endpoints on the backend.
	return c.post(ctx, "/disable_group_dimming/"+string(uid), intQuery("group", group), nil)
}

// Whitelist reads the PLC STA whitelist.
func (c *Client) Whitelist(ctx context.Context, uid model.TransmitterUID) ([]string, error) {
	var res struct {
		Whitelist []string `json:"whitelist"`
	}
	if err := c.getUID(ctx, uid, "/whitelist", nil, &res); err != nil {
		return nil, err
	}
	return res.Whitelist, nil
}

// SetWhitelist replaces the PLC STA whitelist. The backend clears the old list
// first, so a failure can leave the transmitter with no whitelist at all.
func (c *Client) SetWhitelist(ctx context.Context, uid model.TransmitterUID, staList []string) error {
	for _, sta := range staList {
		if err := checkStaUID(sta); err != nil {
			return err
		}
	}
	return c.postUID(ctx, uid, "/whitelist", nil, staList)
}

// ClearWhitelist removes the PLC STA whitelist entirely.
func (c *Client) ClearWhitelist(ctx context.Context, uid model.TransmitterUID) error {
	if !uid.Valid() {
		return ErrNoTransmitter
	}
	return c.do(ctx, http.MethodDelete, uidPath(uid, "/whitelist"), nil, nil, nil)
}

// AdapterStatus reads one adapter's status report, including its power meter.
func (c *Client) AdapterStatus(ctx context.Context, uid model.TransmitterUID, staUID string) (AdapterStatus, error) {
	if err := checkStaUID(staUID); err != nil {
		return AdapterStatus{}, err
	}
	var res AdapterStatus
	if err := c.getUID(ctx, uid, "/status/"+staUID, nil, &res); err != nil {
		return AdapterStatus{}, err
	}
	return res, nil
}
