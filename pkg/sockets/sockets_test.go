package sockets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

func echoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			mt, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			if err := ws.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	}
}

func TestConnEcho(t *testing.T) {
	srv := httptest.NewServer(echoHandler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	connected := make(chan struct{}, 1)
	received := make(chan []byte, 1)

	conn := New(
		OnConnected(func(c Connection) { connected <- struct{}{} }),
		OnMessage(func(b []byte, c Connection) { received <- b }),
	)
	require.NoError(t, conn.Dial(context.Background(), wsURL, ""))
	defer conn.Close()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("connected callback never fired")
	}

	require.NoError(t, conn.Send(Msg{Body: []byte("scan")}))
	select {
	case msg := <-received:
		assert.Equal(t, "scan", string(msg))
	case <-time.After(2 * time.Second):
		t.Fatal("no message echoed back")
	}
}

func TestConnDialError(t *testing.T) {
	conn := New()
	err := conn.Dial(context.Background(), "ws://127.0.0.1:1", "")
	require.Error(t, err)
	// never connected, so sends must refuse
	assert.Error(t, conn.Send(Msg{Body: []byte("scan")}))
}

func TestConnSendAfterClose(t *testing.T) {
	srv := httptest.NewServer(echoHandler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn := New()
	require.NoError(t, conn.Dial(context.Background(), wsURL, ""))
	require.NoError(t, conn.Close())
	assert.Error(t, conn.Send(Msg{Body: []byte("scan")}))
}
