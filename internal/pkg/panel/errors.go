package panel

import "errors"

var (
	// ErrDisabled means the view holds no usable transmitter UID. No request
	// was made.
	ErrDisabled = errors.New("view disabled: no usable transmitter")

	// ErrViewBusy refuses a call while another exchange for the same view is
	// still in flight.
	ErrViewBusy = errors.New("view busy: request already in flight")

	// ErrStale means the transmitter changed while the call was in flight and
	// its result was discarded. The outcome on the old transmitter is unknown.
	ErrStale = errors.New("response discarded: transmitter changed mid-flight")

	// ErrReadOnly refuses toggling an interface the operator may not edit.
	ErrReadOnly = errors.New("control interface is read-only")

	// ErrUnknownSensor means the requested ID is not in the loaded catalog.
	ErrUnknownSensor = errors.New("unknown sensor id")
)
