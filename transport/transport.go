// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by Send and Receive after Close, or when the
// stream was torn down locally.
var ErrClosed = errors.New("transport: connection closed")

// Frame is one inbound message. Binary frames carry compressed event
// payloads when compression was negotiated; text frames carry plain
// JSON.
type Frame struct {
	Binary bool
	Data   []byte
}

// Conn is a single bidirectional frame stream to the gateway.
//
// Send is safe for concurrent use; implementations serialize writes so
// that frames are never interleaved on the wire. Receive must only be
// called from a single goroutine. Close is idempotent and promptly
// unblocks a pending Receive.
type Conn interface {
	// Send writes one outbound text frame. Fails with [ErrClosed]
	// after Close.
	Send(data []byte) error

	// Receive blocks until the next inbound frame, returning
	// [*CloseStatus] if the peer closed the stream with a status
	// code, or another error if the stream died without one.
	Receive() (Frame, error)

	// Close tears down the stream. Safe to call multiple times and
	// from any goroutine.
	Close() error
}

// Dialer opens gateway connections.
type Dialer interface {
	// Dial connects to the gateway at url. The context bounds only
	// the dial itself, not the life of the returned Conn.
	Dial(ctx context.Context, url string) (Conn, error)
}

// CloseStatus reports that the peer closed the connection with a
// protocol status code. It is returned by Receive once the closing
// handshake is observed.
type CloseStatus struct {
	// Code is the numeric close code from the wire.
	Code int

	// Reason is the optional human-readable close reason.
	Reason string
}

func (e *CloseStatus) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transport: connection closed with code %d", e.Code)
	}
	return fmt.Sprintf("transport: connection closed with code %d: %s", e.Code, e.Reason)
}
