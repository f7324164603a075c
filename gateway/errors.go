// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotConnected is returned by Send when no connection is live.
	ErrNotConnected = errors.New("gateway: not connected")

	// ErrAlreadyRunning is returned when Connect, Run, or
	// ConnectInBackground is called while a previous call is still
	// driving the connection.
	ErrAlreadyRunning = errors.New("gateway: already running")
)

// HandshakeError reports that the first frame of a connection was not
// the expected hello. It is always fatal: the supervisor never retries
// a handshake failure.
type HandshakeError struct {
	// Got is the type discriminator of the offending first frame,
	// empty when the frame did not decode at all.
	Got string
}

func (e *HandshakeError) Error() string {
	if e.Got == "" {
		return "gateway: handshake: first frame is not a valid envelope"
	}
	return fmt.Sprintf("gateway: handshake: expected hello, got %q", e.Got)
}

// CloseError reports that a connection attempt ended with a close
// code. The supervisor classifies the code via the client's
// [ClosePolicy] to decide between resuming, reconnecting fresh, and
// giving up.
type CloseError struct {
	// Code is the close code: either received from the gateway or
	// synthesized locally (see [CloseHeartbeatTimeout]).
	Code int

	// Reason is the optional human-readable close reason.
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("gateway: closed with code %d", e.Code)
	}
	return fmt.Sprintf("gateway: closed with code %d: %s", e.Code, e.Reason)
}

// TimeoutError reports that ConnectInBackground's readiness wait
// exceeded its deadline. It is deliberately distinct from [CloseError]:
// a timeout says nothing about why the gateway has not become ready,
// and the background connection keeps running after it is returned.
type TimeoutError struct {
	// Timeout is the deadline that elapsed.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gateway: timed out after %v waiting for ready", e.Timeout)
}
