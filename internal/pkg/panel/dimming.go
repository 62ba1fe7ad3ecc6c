package panel

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// DimmingView mirrors the transmitter's 3-channel broadcast dimming vector.
//
// Two values exist per channel: the committed level the backend has confirmed
// and the visual level tracking the operator's slider. Sliding moves the
// visual value only and never touches the network; releasing the slider
// commits one full-vector write carrying the released value for that channel
// and the committed values for the rest.
type DimmingView struct {
	client DimmingAPI
	log    *zap.Logger

	mu        sync.Mutex
	uid       model.TransmitterUID
	gen       uint64
	state     model.SyncState
	committed model.Dimming
	visual    model.Dimming
	busy      bool
}

func NewDimmingView(client DimmingAPI, log *zap.Logger) *DimmingView {
	if log == nil {
		log = zap.L()
	}
	return &DimmingView{
		client: client,
		log:    log,
		state:  model.StateDisabled,
	}
}

// SetUID installs a new transmitter. Uncommitted visual state belongs to the
// old transmitter and is dropped before the reload. Implements UIDListener.
func (v *DimmingView) SetUID(ctx context.Context, uid model.TransmitterUID) {
	v.mu.Lock()
	v.uid = uid
	v.gen++
	gen := v.gen
	v.committed = model.Dimming{}
	v.visual = model.Dimming{}
	if !uid.Valid() {
		v.state = model.StateDisabled
		v.mu.Unlock()
		return
	}
	v.state = model.StateLoading
	v.mu.Unlock()

	_ = v.load(ctx, uid, gen)
}

// Refresh re-reads the committed vector, discarding visual edits.
func (v *DimmingView) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if !v.uid.Valid() {
		v.mu.Unlock()
		return ErrDisabled
	}
	if v.busy {
		v.mu.Unlock()
		return ErrViewBusy
	}
	uid := v.uid
	gen := v.gen
	v.state = model.StateLoading
	v.mu.Unlock()

	return v.load(ctx, uid, gen)
}

func (v *DimmingView) load(ctx context.Context, uid model.TransmitterUID, gen uint64) error {
	d, err := v.client.DimBroadcast(ctx, uid)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.log.Debug("discarding stale dimming response", zap.String("uid", uid.String()))
		return ErrStale
	}
	if err != nil {
		v.log.Error("dimming load failed", zap.String("uid", uid.String()), zap.Error(err))
		v.state = model.StateFailed
		return err
	}
	v.committed = d
	v.visual = d
	v.state = model.StateSynced
	return nil
}

func checkChannel(channel, raw int) error {
	if channel < 0 || channel >= model.DimmingChannels {
		return fmt.Errorf("dimming channel %d outside [0,%d)", channel, model.DimmingChannels)
	}
	if raw < 0 || raw > model.DimmingMax {
		return fmt.Errorf("dimming level %d outside [0,%d]", raw, model.DimmingMax)
	}
	return nil
}

// Slide moves one channel's visual value while the operator drags. Zero
// network traffic; the committed record is untouched until Commit.
func (v *DimmingView) Slide(channel, raw int) error {
	if err := checkChannel(channel, raw); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.uid.Valid() {
		return ErrDisabled
	}
	v.visual = v.visual.WithLevel(channel, raw)
	return nil
}

// Commit writes the released value for one channel together with the last
// committed values for the others, as a single full-vector PUT.
func (v *DimmingView) Commit(ctx context.Context, channel, raw int) error {
	if err := checkChannel(channel, raw); err != nil {
		return err
	}

	v.mu.Lock()
	if !v.uid.Valid() {
		v.mu.Unlock()
		return ErrDisabled
	}
	if v.busy || v.state == model.StateLoading {
		v.mu.Unlock()
		return ErrViewBusy
	}
	uid := v.uid
	gen := v.gen
	next := v.committed.WithLevel(channel, raw)
	v.visual = next
	v.state = model.StateDirty
	v.busy = true
	v.mu.Unlock()

	err := v.client.SetDimBroadcast(ctx, uid, next)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	if gen != v.gen {
		v.log.Debug("discarding stale dimming write result", zap.String("uid", uid.String()))
		return ErrStale
	}
	if err != nil {
		v.log.Error("dimming write failed, view stays dirty",
			zap.String("uid", uid.String()),
			zap.Int("channel", channel),
			zap.Error(err))
		return err
	}
	v.committed = next
	v.state = model.StateSynced
	return nil
}

// DimmingSnapshot is a point-in-time copy for rendering. Percent renders the
// visual levels, which is what the label beside each slider shows.
type DimmingSnapshot struct {
	UID       model.TransmitterUID          `json:"uid"`
	State     model.SyncState               `json:"state"`
	Committed model.Dimming                 `json:"committed"`
	Visual    model.Dimming                 `json:"visual"`
	Percent   [model.DimmingChannels]string `json:"percent"`
	Busy      bool                          `json:"busy"`
}

func (v *DimmingView) Snapshot() DimmingSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return DimmingSnapshot{
		UID:       v.uid,
		State:     v.state,
		Committed: v.committed,
		Visual:    v.visual,
		Percent:   v.visual.PercentStrings(),
		Busy:      v.busy,
	}
}
