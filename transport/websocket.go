// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// WebSocketDialer opens gateway connections over websocket. The zero
// value is ready to use.
type WebSocketDialer struct {
	// HandshakeTimeout bounds the websocket upgrade handshake.
	// Zero means 10 seconds.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds each frame write on connections opened by
	// this dialer. Zero means 10 seconds.
	WriteTimeout time.Duration
}

var _ Dialer = (*WebSocketDialer)(nil)

// Dial connects to the gateway at url (a ws:// or wss:// endpoint).
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: orDefault(d.HandshakeTimeout, defaultHandshakeTimeout),
		Proxy:            http.ProxyFromEnvironment,
	}

	conn, response, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if response != nil {
			response.Body.Close()
			return nil, fmt.Errorf("transport: dial %s: %w (http %d)", url, err, response.StatusCode)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}

	return &wsConn{
		conn:         conn,
		writeTimeout: orDefault(d.WriteTimeout, defaultWriteTimeout),
	}, nil
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// wsConn adapts a websocket connection to the Conn interface. writeMu
// serializes all data writes so concurrent senders never interleave
// frames on the wire.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ Conn = (*wsConn)(nil)

func (c *wsConn) Send(data []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if c.closed.Load() {
			return ErrClosed
		}
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

func (c *wsConn) Receive() (Frame, error) {
	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return Frame{}, &CloseStatus{Code: closeErr.Code, Reason: closeErr.Text}
		}
		if c.closed.Load() {
			return Frame{}, ErrClosed
		}
		return Frame{}, fmt.Errorf("transport: read: %w", err)
	}
	return Frame{Binary: messageType == websocket.BinaryMessage, Data: data}, nil
}

// Close performs a best-effort closing handshake and tears down the
// underlying socket. The first call wins; later calls return the same
// result.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		deadline := time.Now().Add(c.writeTimeout)
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		// WriteControl is safe concurrently with WriteMessage, so the
		// close frame does not need writeMu.
		_ = c.conn.WriteControl(websocket.CloseMessage, message, deadline)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
