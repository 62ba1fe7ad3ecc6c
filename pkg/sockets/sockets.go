package sockets

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Connection interface {
	Dial(ctx context.Context, url, subprotocol string) error
	Send(msg Msg) error
	io.Closer
}

type Conn struct {
	mu               sync.Mutex
	ws               *websocket.Conn
	closed           bool
	sslSkipVerify    bool
	pingIntervalSecs int
	pingMsg          []byte
	onError          func(err error)
	onMessage        func([]byte, Connection)
	onConnected      func(Connection)
}

func New(opts ...func(*Conn)) Connection {
	c := &Conn{closed: true}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Msg is the message structure.
type Msg struct {
	Body []byte
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
	return nil
}

// close must be called with mu held.
func (c *Conn) close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.ws != nil {
		c.ws.Close()
	}
}

func (c *Conn) Send(msg Msg) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("closed connection")
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, msg.Body); err != nil {
		c.close()
		if c.onError != nil {
			go c.onError(err)
		}
		return err
	}
	return nil
}

func (c *Conn) Dial(ctx context.Context, url, subprotocol string) error {
	dialer := &websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.sslSkipVerify,
		},
	}
	if subprotocol != "" {
		dialer.Subprotocols = []string{subprotocol}
	}
	conn, res, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if res != nil {
			res.Body.Close()
		}
		return err
	}

	c.mu.Lock()
	c.ws = conn
	c.closed = false
	c.mu.Unlock()

	if c.onConnected != nil {
		go c.onConnected(c)
	}
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				wasClosed := c.closed
				c.close()
				c.mu.Unlock()
				if !wasClosed && c.onError != nil {
					c.onError(err)
				}
				return
			}
			c.onMsg(msg)
		}
	}()
	c.setupPing()
	return nil
}

func (c *Conn) onMsg(msg []byte) {
	// Fire OnMessage every time.
	if c.onMessage != nil {
		c.onMessage(msg, c)
	}
}

func (c *Conn) setupPing() {
	if c.pingIntervalSecs > 0 && len(c.pingMsg) > 0 {
		ticker := time.NewTicker(time.Second * time.Duration(c.pingIntervalSecs))
		go func() {
			defer ticker.Stop()
			for {
				<-ticker.C // wait for tick
				if c.Send(Msg{c.pingMsg}) != nil {
					return
				}
			}
		}()
	}
}
