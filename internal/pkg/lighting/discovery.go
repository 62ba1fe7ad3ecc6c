package lighting

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wrenzh/agrolux-panel/internal/pkg/model"
	"github.com/wrenzh/agrolux-panel/pkg/sockets"
)

// DiscoverySession is one running whitelist rebuild. The transmitter reboots,
// then searches for adapters until the access window ends or Stop is called.
type DiscoverySession struct {
	conn sockets.Connection

	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Done is closed when the stream ends, for any reason.
func (s *DiscoverySession) Done() <-chan struct{} {
	return s.done
}

// Err reports why the stream ended. Nil for a normal backend close.
func (s *DiscoverySession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop asks the transmitter to cut the search short. Progress lines may keep
// arriving while the backend winds down.
func (s *DiscoverySession) Stop() error {
	return s.conn.Send(sockets.Msg{Body: []byte("STOP")})
}

// Close abandons the stream without stopping the transmitter-side search.
func (s *DiscoverySession) Close() error {
	err := s.conn.Close()
	s.finish(nil)
	return err
}

func (s *DiscoverySession) finish(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.once.Do(func() {
		close(s.done)
	})
}

// NetworkDiscovery reboots the transmitter and rebuilds its adapter whitelist,
// streaming raw progress lines to handle as they arrive.
func (c *Client) NetworkDiscovery(ctx context.Context, uid model.TransmitterUID, handle func(line string)) (*DiscoverySession, error) {
	if !uid.Valid() {
		return nil, ErrNoTransmitter
	}
	wsURL, err := c.discoveryURL(uid)
	if err != nil {
		return nil, err
	}

	s := &DiscoverySession{done: make(chan struct{})}
	s.conn = sockets.New(
		sockets.OnMessage(func(b []byte, _ sockets.Connection) {
			if handle != nil {
				handle(string(b))
			}
		}),
		sockets.OnError(func(err error) {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
			s.finish(err)
		}),
	)
	if err := s.conn.Dial(ctx, wsURL, ""); err != nil {
		return nil, err
	}
	c.log.Info("network discovery started", zap.String("uid", string(uid)))
	return s, nil
}

func (c *Client) discoveryURL(uid model.TransmitterUID) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("cannot derive websocket url from scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + basePath + uidPath(uid, "/network_discovery")
	q := u.Query()
	q.Set("timeout", strconv.FormatFloat(c.serialTimeout, 'f', -1, 64))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
