package lighting

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

func TestListCCO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/lighting/list_cco", r.URL.Path)
		assert.Equal(t, "0.5", r.URL.Query().Get("timeout"))
		_ = json.NewEncoder(w).Encode(map[string]string{"address": "048BE6E1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	uid, err := c.ListCCO(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.TransmitterUID("048BE6E1"), uid)
}

func TestListCCOTransportError(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.ListCCO(context.Background())
	require.Error(t, err)
	var serr *StatusError
	assert.False(t, errors.As(err, &serr), "transport failures carry no status")
}

func TestListCCOBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "LoRa response timeout"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListCCO(context.Background())
	require.Error(t, err)
	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	assert.Equal(t, "LoRa response timeout", serr.Detail)
}

func TestListCCOMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListCCO(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestBusyMapsToErrBusy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Transmitter busy"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ControlMode(context.Background(), "048BE6E1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBusy)
}

func TestSentinelUIDMakesNoRequest(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.ControlMode(ctx, model.UIDError)
	assert.ErrorIs(t, err, ErrNoTransmitter)
	_, err = c.DimBroadcast(ctx, "")
	assert.ErrorIs(t, err, ErrNoTransmitter)
	assert.ErrorIs(t, c.SetControlMode(ctx, model.UIDError, model.ControlMode{}), ErrNoTransmitter)
	assert.ErrorIs(t, c.ResetControlMode(ctx, ""), ErrNoTransmitter)
	assert.ErrorIs(t, c.Reboot(ctx, model.UIDError), ErrNoTransmitter)

	assert.EqualValues(t, 0, calls.Load())
}

func TestControlModeRoundTrip(t *testing.T) {
	var gotBody model.ControlMode
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/lighting/048BE6E1/control_mode", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"analog":true,"button":false,"modbus":false,"bacnet":true,"debug":false}`))
		case http.MethodPut:
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	cm, err := c.ControlMode(context.Background(), "048BE6E1")
	require.NoError(t, err)
	assert.True(t, cm.Analog)
	assert.False(t, cm.Button, "client reports the wire value untouched")
	assert.True(t, cm.Bacnet)

	want := cm.Normalize().WithFlag(model.InterfaceModbus, true)
	require.NoError(t, c.SetControlMode(context.Background(), "048BE6E1", want))
	assert.Equal(t, want, gotBody)
}

func TestSetDimBroadcastValidatesFirst(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.SetDimBroadcast(context.Background(), "048BE6E1", model.Dimming{Levels: [3]int{0, 0, 1001}})
	require.Error(t, err)
	assert.EqualValues(t, 0, calls.Load())
}

func TestDimBroadcastRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"dimming_levels":[550,550,0]}`))
		case http.MethodPut:
			var d model.Dimming
			require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
			assert.Equal(t, [3]int{100, 550, 0}, d.Levels)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	d, err := c.DimBroadcast(context.Background(), "048BE6E1")
	require.NoError(t, err)
	assert.Equal(t, [3]int{550, 550, 0}, d.Levels)

	require.NoError(t, c.SetDimBroadcast(context.Background(), "048BE6E1", d.WithLevel(0, 100)))
}

func TestSensorEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/lighting/sensor/names":
			_, _ = w.Write([]byte(`{"sensor_names":["Air Temperature","Humidity","CO2"]}`))
		case "/api/lighting/sensor/single_measurement":
			assert.Equal(t, "1", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"result":"54.2"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	names, err := c.SensorNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Air Temperature", "Humidity", "CO2"}, names)

	value, err := c.SingleMeasurement(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "54.2", value)
}

func TestSerialTimeoutForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2.5", r.URL.Query().Get("timeout"))
		_, _ = w.Write([]byte(`{"address":"048BE6E1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithSerialTimeout(2.5))
	_, err := c.ListCCO(context.Background())
	require.NoError(t, err)
}

func TestRangeGuardsMakeNoRequest(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	uid := model.TransmitterUID("048BE6E1")

	assert.Error(t, c.SetTxPower(ctx, uid, 25))
	assert.Error(t, c.SetAccessTime(ctx, uid, 0))
	assert.Error(t, c.SetBand(ctx, uid, 4))
	assert.Error(t, c.SetDimChannelCount(ctx, uid, 3))
	assert.Error(t, c.SetModbusAddress(ctx, uid, 256))
	assert.Error(t, c.SetStaGroup(ctx, uid, "AABBCCDDEEFF", 9))
	assert.Error(t, c.DimSingle(ctx, uid, "short", model.Dimming{}))
	assert.EqualValues(t, 0, calls.Load())
}

func TestGroupAssignmentsEmptyBackendShape(t *testing.T) {
	var g GroupAssignments
	require.NoError(t, json.Unmarshal([]byte(`{"sta_uids":"","group_ids":""}`), &g))
	assert.Empty(t, g.StaUIDs)
	assert.Empty(t, g.GroupIDs)

	require.NoError(t, json.Unmarshal([]byte(`{"sta_uids":["AABBCCDDEEFF"],"group_ids":[3]}`), &g))
	assert.Equal(t, []string{"AABBCCDDEEFF"}, g.StaUIDs)
	assert.Equal(t, []int{3}, g.GroupIDs)
}
