package panel

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// ControlModeView mirrors the transmitter's five external control flags.
//
// Lifecycle: disabled while the UID is a sentinel, loading after a UID change,
// synced once the record arrives. A toggle flips the local flag immediately
// and holds the view dirty until the backend confirms the write; a failed
// write stays dirty rather than reverting or claiming success. One mutating
// call runs at a time, and any completion whose UID generation is outdated is
// discarded.
type ControlModeView struct {
	client ControlModeAPI
	log    *zap.Logger

	mu    sync.Mutex
	uid   model.TransmitterUID
	gen   uint64
	state model.SyncState
	mode  model.ControlMode
	busy  bool
}

func NewControlModeView(client ControlModeAPI, log *zap.Logger) *ControlModeView {
	if log == nil {
		log = zap.L()
	}
	return &ControlModeView{
		client: client,
		log:    log,
		state:  model.StateDisabled,
	}
}

// SetUID installs a new transmitter, drops pending local edits and reloads.
// Implements UIDListener.
func (v *ControlModeView) SetUID(ctx context.Context, uid model.TransmitterUID) {
	v.mu.Lock()
	v.uid = uid
	v.gen++
	gen := v.gen
	if !uid.Valid() {
		v.state = model.StateDisabled
		v.mu.Unlock()
		return
	}
	v.state = model.StateLoading
	v.mu.Unlock()

	_ = v.load(ctx, uid, gen)
}

// Refresh re-reads the record from the backend.
func (v *ControlModeView) Refresh(ctx context.Context) error {
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

// load runs the GET outside the lock and applies the result field-for-field,
// unless the view has moved to another UID generation meanwhile.
func (v *ControlModeView) load(ctx context.Context, uid model.TransmitterUID, gen uint64) error {
	cm, err := v.client.ControlMode(ctx, uid)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		v.log.Debug("discarding stale control mode response", zap.String("uid", uid.String()))
		return ErrStale
	}
	if err != nil {
		v.log.Error("control mode load failed", zap.String("uid", uid.String()), zap.Error(err))
		v.state = model.StateFailed
		return err
	}
	v.mode = cm.Normalize()
	v.state = model.StateSynced
	return nil
}

// Toggle flips one editable flag and writes the full five-flag record. The
// button interface is refused: it is always on at the transmitter.
func (v *ControlModeView) Toggle(ctx context.Context, iface model.ControlInterface) error {
	if !iface.Known() {
		return fmt.Errorf("unknown control interface %q", iface)
	}
	if !iface.Editable() {
		return ErrReadOnly
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
	next := v.mode.WithFlag(iface, !v.mode.Flag(iface)).Normalize()
	v.mode = next
	v.state = model.StateDirty
	v.busy = true
	v.mu.Unlock()

	err := v.client.SetControlMode(ctx, uid, next)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = false
	if gen != v.gen {
		v.log.Debug("discarding stale control mode write result", zap.String("uid", uid.String()))
		return ErrStale
	}
	if err != nil {
		v.log.Error("control mode write failed, view stays dirty",
			zap.String("uid", uid.String()),
			zap.String("interface", iface.String()),
			zap.Error(err))
		return err
	}
	v.state = model.StateSynced
	return nil
}

// Reset reverts the transmitter to its default control modes, then re-reads
// the record. The view never assumes what the post-reset flags are.
func (v *ControlModeView) Reset(ctx context.Context) error {
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
	v.state = model.StateLoading
	v.busy = true
	v.mu.Unlock()

	err := v.client.ResetControlMode(ctx, uid)

	v.mu.Lock()
	v.busy = false
	if gen != v.gen {
		v.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		v.log.Error("control mode reset failed", zap.String("uid", uid.String()), zap.Error(err))
		v.state = model.StateFailed
		v.mu.Unlock()
		return err
	}
	v.mu.Unlock()

	return v.load(ctx, uid, gen)
}

// ControlModeSnapshot is a point-in-time copy for rendering.
type ControlModeSnapshot struct {
	UID   model.TransmitterUID `json:"uid"`
	State model.SyncState      `json:"state"`
	Mode  model.ControlMode    `json:"control_mode"`
	Busy  bool                 `json:"busy"`
}

func (v *ControlModeView) Snapshot() ControlModeSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return ControlModeSnapshot{
		UID:   v.uid,
		State: v.state,
		Mode:  v.mode,
		Busy:  v.busy,
	}
}
