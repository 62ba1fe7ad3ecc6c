package lighting

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrBusy is the transmitter-busy condition. The backend answers 503 while the
// serial bus is occupied by another exchange (whitelist rebuild, topology scan).
var ErrBusy = errors.New("transmitter busy")

// ErrNoTransmitter means the caller passed an empty or sentinel UID. No request
// is made in that case.
var ErrNoTransmitter = errors.New("no usable transmitter")

// StatusError is any non-2xx answer from the lighting backend. Detail carries
// the backend's {"detail": ...} payload when one was present.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("lighting backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("lighting backend returned %d: %s", e.StatusCode, e.Detail)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrBusy && e.StatusCode == http.StatusServiceUnavailable
}

// detailOf pulls the detail field out of an error body. FastAPI sends a string
// for HTTPException and a list for validation errors, so fall back to the raw
// JSON when it is not a string.
func detailOf(body []byte) string {
	var probe struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(probe.Detail, &s); err == nil {
		return s
	}
	return string(probe.Detail)
}
