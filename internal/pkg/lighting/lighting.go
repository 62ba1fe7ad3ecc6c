// Package lighting is a typed client for the Agrolux lighting backend, the
// HTTP bridge in front of the transmitter's LoRa serial link. Every
// transmitter-scoped call refuses to fire when the UID is the ERROR sentinel,
// and every request forwards the backend's serial read timeout.
package lighting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
)

const (
	basePath = "/api/lighting"

	// DefaultTimeout bounds the whole HTTP exchange.
	DefaultTimeout = 10 * time.Second
	// DefaultSerialTimeout is the backend's serial read timeout in seconds,
	// forwarded as the timeout query parameter.
	DefaultSerialTimeout = 0.5
)

type Client struct {
	baseURL       string
	httpClient    *http.Client
	serialTimeout float64
	log           *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithSerialTimeout(seconds float64) Option {
	return func(c *Client) {
		c.serialTimeout = seconds
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: DefaultTimeout},
		serialTimeout: DefaultSerialTimeout,
		log:           zap.L(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) url(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if query.Get("timeout") == "" {
		query.Set("timeout", strconv.FormatFloat(c.serialTimeout, 'f', -1, 64))
	}
	return c.baseURL + basePath + path + "?" + query.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		serr := &StatusError{StatusCode: res.StatusCode, Detail: detailOf(raw)}
		c.log.Warn("lighting backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("detail", serr.Detail))
		return serr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, in any) error {
	return c.do(ctx, http.MethodPut, path, query, in, nil)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, in any) error {
	return c.do(ctx, http.MethodPost, path, query, in, nil)
}

func uidPath(uid model.TransmitterUID, rest string) string {
	return "/" + string(uid) + rest
}

// Transmitter-scoped helpers. The sentinel guard lives here so no UID-scoped
// request can ever fire without a usable transmitter.

func (c *Client) getUID(ctx context.Context, uid model.TransmitterUID, rest string, query url.Values, out any) error {
	if !uid.Valid() {
		return ErrNoTransmitter
	}
	return c.get(ctx, uidPath(uid, rest), query, out)
}

func (c *Client) putUID(ctx context.Context, uid model.TransmitterUID, rest string, query url.Values, in any) error {
	if !uid.Valid() {
		return ErrNoTransmitter
	}
	return c.put(ctx, uidPath(uid, rest), query, in)
}

func (c *Client) postUID(ctx context.Context, uid model.TransmitterUID, rest string, query url.Values, in any) error {
	if !uid.Valid() {
		return ErrNoTransmitter
	}
	return c.post(ctx, uidPath(uid, rest), query, in)
}

// ListCCO resolves the serial number of the transmitter currently answering on
// the LoRa network.
func (c *Client) ListCCO(ctx context.Context) (model.TransmitterUID, error) {
	var res struct {
		Address string `json:"address"`
	}
	if err := c.get(ctx, "/list_cco", nil, &res); err != nil {
		return "", err
	}
	return model.TransmitterUID(res.Address), nil
}

// ControlMode reads the five external control flags as the transmitter reports
// them. Callers that present the record should normalize it first.
func (c *Client) ControlMode(ctx context.Context, uid model.TransmitterUID) (model.ControlMode, error) {
	var cm model.ControlMode
	if err := c.getUID(ctx, uid, "/control_mode", nil, &cm); err != nil {
		return model.ControlMode{}, err
	}
	return cm, nil
}

// SetControlMode writes the full five-flag record. The transmitter keeps
// button control on regardless of the payload.
func (c *Client) SetControlMode(ctx context.Context, uid model.TransmitterUID, cm model.ControlMode) error {
	return c.putUID(ctx, uid, "/control_mode", nil, cm)
}

// ResetControlMode reverts the transmitter to 0-10V dimming.
func (c *Client) ResetControlMode(ctx context.Context, uid model.TransmitterUID) error {
	return c.postUID(ctx, uid, "/reset_control_mode", nil, nil)
}

// DimBroadcast reads the broadcast dimming vector on the 0-1000 scale.
func (c *Client) DimBroadcast(ctx context.Context, uid model.TransmitterUID) (model.Dimming, error) {
	var d model.Dimming
	if err := c.getUID(ctx, uid, "/dim_broadcast", nil, &d); err != nil {
		return model.Dimming{}, err
	}
	return d, nil
}

// SetDimBroadcast writes the full broadcast dimming vector. Out-of-range
// levels are refused before any request is made.
func (c *Client) SetDimBroadcast(ctx context.Context, uid model.TransmitterUID, d model.Dimming) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return c.putUID(ctx, uid, "/dim_broadcast", nil, d)
}

// SensorNames lists the configured environmental sensors in backend order.
func (c *Client) SensorNames(ctx context.Context) ([]string, error) {
	var res struct {
		SensorNames []string `json:"sensor_names"`
	}
	if err := c.get(ctx, "/sensor/names", nil, &res); err != nil {
		return nil, err
	}
	return res.SensorNames, nil
}

// SingleMeasurement pulls one on-demand reading for the sensor at the given
// backend index.
func (c *Client) SingleMeasurement(ctx context.Context, id int) (string, error) {
	query := url.Values{}
	query.Set("id", strconv.Itoa(id))
	var res struct {
		Result string `json:"result"`
	}
	if err := c.get(ctx, "/sensor/single_measurement", query, &res); err != nil {
		return "", err
	}
	return res.Result, nil
}
