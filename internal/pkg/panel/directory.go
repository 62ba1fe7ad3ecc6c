// Package panel owns the synchronization state between the operator panel and
// the lighting backend: which transmitter is active, what the control-mode and
// dimming records look like, and which sensor readings are on screen. Each
// view is an explicit state machine. Responses that arrive for a transmitter
// that has since changed are discarded, and a sentinel UID suppresses every
// transmitter-scoped request.
package panel

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

// Directory resolves and owns the active transmitter UID.
type Directory struct {
	client DirectoryAPI
	log    *zap.Logger

	mu        sync.Mutex
	uid       model.TransmitterUID
	state     model.SyncState
	listeners []UIDListener
}

func NewDirectory(client DirectoryAPI, log *zap.Logger) *Directory {
	if log == nil {
		log = zap.L()
	}
	return &Directory{
		client: client,
		log:    log,
		state:  model.StateLoading,
	}
}

// Subscribe registers a listener for UID updates. Not safe to call after the
// first Resolve has been dispatched.
func (d *Directory) Subscribe(l UIDListener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Resolve asks the backend which transmitter answers on the LoRa network and
// fans the result out to subscribers. Any failure, including an unusable
// address in a 200 response, stores the ERROR sentinel. No retry until the
// next call.
func (d *Directory) Resolve(ctx context.Context) model.TransmitterUID {
	d.mu.Lock()
	d.state = model.StateLoading
	d.mu.Unlock()

	uid, err := d.client.ListCCO(ctx)

	d.mu.Lock()
	switch {
	case err != nil:
		d.log.Error("transmitter resolution failed", zap.Error(err))
		d.uid = model.UIDError
		d.state = model.StateFailed
	case !uid.Valid():
		d.log.Error("backend answered with unusable transmitter uid", zap.String("uid", uid.String()))
		d.uid = model.UIDError
		d.state = model.StateFailed
	default:
		d.uid = uid
		d.state = model.StateSynced
	}
	current := d.uid
	listeners := make([]UIDListener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, l := range listeners {
		l.SetUID(ctx, current)
	}
	return current
}

// Rescan re-resolves on operator request. Identical to Resolve; the separate
// name marks the manual path.
func (d *Directory) Rescan(ctx context.Context) model.TransmitterUID {
	return d.Resolve(ctx)
}

// UID returns the last resolved UID, which may be a sentinel.
func (d *Directory) UID() model.TransmitterUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.uid
}

// State reports the directory's own lifecycle state.
func (d *Directory) State() model.SyncState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
