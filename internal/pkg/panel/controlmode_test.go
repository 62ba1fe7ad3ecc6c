package panel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

const uidA = model.TransmitterUID("048BE6E1")

func TestControlModeSentinelMakesNoCalls(t *testing.T) {
	var calls atomic.Int64
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			calls.Add(1)
			return model.ControlMode{}, nil
		},
		SetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
			calls.Add(1)
			return nil
		},
		ResetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) error {
			calls.Add(1)
			return nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()

	v.SetUID(ctx, model.UIDError)
	assert.Equal(t, model.StateDisabled, v.Snapshot().State)

	assert.ErrorIs(t, v.Toggle(ctx, model.InterfaceModbus), ErrDisabled)
	assert.ErrorIs(t, v.Refresh(ctx), ErrDisabled)
	assert.ErrorIs(t, v.Reset(ctx), ErrDisabled)

	v.SetUID(ctx, "")
	assert.Equal(t, model.StateDisabled, v.Snapshot().State)

	assert.EqualValues(t, 0, calls.Load())
}

func TestControlModeButtonPresentedTrue(t *testing.T) {
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{Analog: true, Button: false}, nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	v.SetUID(context.Background(), uidA)

	snap := v.Snapshot()
	assert.Equal(t, model.StateSynced, snap.State)
	assert.True(t, snap.Mode.Button, "button is presented on even when the wire says off")
	assert.True(t, snap.Mode.Analog)
}

func TestControlModeToggleWritesFullRecord(t *testing.T) {
	var puts []model.ControlMode
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{Analog: true, Button: false, Bacnet: true}, nil
		},
		SetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
			puts = append(puts, cm)
			return nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()
	v.SetUID(ctx, uidA)

	require.NoError(t, v.Toggle(ctx, model.InterfaceModbus))

	require.Len(t, puts, 1, "one toggle, one write")
	want := model.ControlMode{Analog: true, Button: true, Modbus: true, Bacnet: true}
	assert.Equal(t, want, puts[0], "full record with only modbus flipped and button held true")

	snap := v.Snapshot()
	assert.Equal(t, model.StateSynced, snap.State)
	assert.Equal(t, want, snap.Mode)
}

func TestControlModeToggleButtonRefused(t *testing.T) {
	var calls atomic.Int64
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{}, nil
		},
		SetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
			calls.Add(1)
			return nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()
	v.SetUID(ctx, uidA)

	assert.ErrorIs(t, v.Toggle(ctx, model.InterfaceButton), ErrReadOnly)
	assert.Error(t, v.Toggle(ctx, model.ControlInterface("bogus")))
	assert.EqualValues(t, 0, calls.Load())
}

func TestControlModeFailedWriteStaysDirty(t *testing.T) {
	writeErr := errors.New("lighting backend returned 500: serial write failed")
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{Analog: true}, nil
		},
		SetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
			return writeErr
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()
	v.SetUID(ctx, uidA)

	err := v.Toggle(ctx, model.InterfaceDebug)
	assert.ErrorIs(t, err, writeErr)

	snap := v.Snapshot()
	assert.Equal(t, model.StateDirty, snap.State, "failed write neither reverts nor claims success")
	assert.True(t, snap.Mode.Debug, "local flip stays visible")
}

func TestControlModeStaleResponseDiscarded(t *testing.T) {
	const uidB = model.TransmitterUID("11223344")
	aEntered := make(chan struct{})
	aRelease := make(chan struct{})

	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			if uid == uidA {
				close(aEntered)
				<-aRelease
				return model.ControlMode{Debug: true}, nil
			}
			return model.ControlMode{Analog: true}, nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		v.SetUID(ctx, uidA)
	}()
	<-aEntered

	// The transmitter changes while A's load is still in flight.
	v.SetUID(ctx, uidB)
	snap := v.Snapshot()
	require.Equal(t, model.StateSynced, snap.State)
	require.True(t, snap.Mode.Analog)

	close(aRelease)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stale load never returned")
	}

	snap = v.Snapshot()
	assert.Equal(t, uidB, snap.UID)
	assert.True(t, snap.Mode.Analog, "late response for the old uid must not overwrite the new state")
	assert.False(t, snap.Mode.Debug)
}

func TestControlModeOverlappingWriteRefused(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var writes atomic.Int64

	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{}, nil
		},
		SetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
			writes.Add(1)
			close(entered)
			<-release
			return nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()
	v.SetUID(ctx, uidA)

	first := make(chan error, 1)
	go func() {
		first <- v.Toggle(ctx, model.InterfaceModbus)
	}()
	<-entered

	assert.ErrorIs(t, v.Toggle(ctx, model.InterfaceAnalog), ErrViewBusy)
	assert.ErrorIs(t, v.Reset(ctx), ErrViewBusy)

	close(release)
	select {
	case err := <-first:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first write never returned")
	}
	assert.EqualValues(t, 1, writes.Load())
}

func TestControlModeReset(t *testing.T) {
	var order []string
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			order = append(order, "get")
			if len(order) > 2 {
				// Post-reset record: the backend turned everything on.
				return model.ControlMode{Analog: true, Button: true, Modbus: true, Bacnet: true, Debug: true}, nil
			}
			return model.ControlMode{Analog: true}, nil
		},
		ResetControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) error {
			order = append(order, "reset")
			return nil
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	ctx := context.Background()
	v.SetUID(ctx, uidA)

	require.NoError(t, v.Reset(ctx))
	assert.Equal(t, []string{"get", "reset", "get"}, order, "reset posts, then re-reads; no assumed value")

	snap := v.Snapshot()
	assert.Equal(t, model.StateSynced, snap.State)
	assert.Equal(t, model.ControlMode{Analog: true, Button: true, Modbus: true, Bacnet: true, Debug: true}, snap.Mode)
}

func TestControlModeLoadFailure(t *testing.T) {
	mock := &MockLightingService{
		ControlModeFunc: func(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
			return model.ControlMode{}, errors.New("lighting backend returned 503: Transmitter busy")
		},
	}
	v := NewControlModeView(mock, zaptest.NewLogger(t))
	v.SetUID(context.Background(), uidA)

	assert.Equal(t, model.StateFailed, v.Snapshot().State, "failure is distinct from still-loading")
}
