// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vox-im/vox-go/event"
	"github.com/vox-im/vox-go/transport"
)

// heartbeatFrame is the payloadless heartbeat envelope. Its shape
// never varies, so it is encoded once.
var heartbeatFrame = []byte(`{"type":"heartbeat"}`)

// connectOnce runs a single connection attempt to completion: dial,
// handshake, heartbeat, receive loop. It returns nil only for a clean
// shutdown requested through Close; every other exit is an error,
// carrying a *CloseError when the gateway ended the connection with a
// close code.
func (c *Client) connectOnce(ctx context.Context, signal *readySignal) error {
	if c.isClosed() {
		return nil
	}

	conn, err := c.dialer.Dial(ctx, c.endpoint)
	if err != nil {
		return fmt.Errorf("gateway: dial %s: %w", c.endpoint, err)
	}

	a := &attempt{
		client:     c,
		signal:     signal,
		conn:       conn,
		generation: c.adoptConn(conn),
		done:       make(chan struct{}),
	}
	defer c.releaseConn(a.generation)
	defer conn.Close()

	// Unblock the receive loop when the caller cancels or closes.
	// The transport contract is that Close interrupts a pending
	// Receive.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-c.closedChannel():
			conn.Close()
		case <-a.done:
		}
	}()

	return a.run(ctx)
}

// attempt owns the state of one connection attempt. Nothing here is
// shared with a later attempt; the generation token is the only link
// back to the client-level connection slot.
type attempt struct {
	client     *Client
	signal     *readySignal
	conn       transport.Conn
	generation uint64

	// interval is the server-assigned heartbeat cadence from hello.
	interval time.Duration

	// lastAck is the wall time of the most recent heartbeat_ack (or
	// of the handshake, before the first ack), as unix nanoseconds.
	lastAck atomic.Int64

	// closeReason is set by the heartbeat loop before it force-closes
	// a silent connection, so the receive loop can report the
	// synthesized close instead of a bare transport error.
	closeReason atomic.Pointer[CloseError]

	// done ends the watcher and heartbeat goroutines when the attempt
	// unwinds.
	done chan struct{}
}

func (a *attempt) run(ctx context.Context) error {
	if err := a.handshake(ctx); err != nil {
		close(a.done)
		return err
	}

	heartbeatDone := make(chan struct{})
	go a.heartbeatLoop(heartbeatDone)

	err := a.receiveLoop(ctx)

	// Signal shutdown before waiting: the heartbeat loop blocks on
	// a.done between ticks.
	close(a.done)
	<-heartbeatDone
	return err
}

// handshake consumes the server's hello, adopts its heartbeat
// interval, and authenticates: a resume when session state is held, a
// fresh identify otherwise.
func (a *attempt) handshake(ctx context.Context) error {
	frame, err := a.conn.Receive()
	if err != nil {
		return a.exitError(ctx, err)
	}
	payload, ok := a.expand(frame)
	if !ok {
		return &HandshakeError{}
	}
	evt, err := event.Decode(payload)
	if err != nil {
		return &HandshakeError{}
	}
	hello, ok := evt.(*event.Hello)
	if !ok {
		return &HandshakeError{Got: evt.EventType()}
	}
	a.interval = hello.Interval()

	sessionID, lastSequence := a.client.sessionState()
	var auth []byte
	if sessionID != "" {
		a.client.logger.Info("resuming gateway session",
			"session_id", sessionID, "last_seq", lastSequence)
		auth, err = encodeClientFrame("resume", resumePayload{
			Token:     a.client.token,
			SessionID: sessionID,
			LastSeq:   lastSequence,
		})
	} else {
		auth, err = encodeClientFrame("identify", identifyPayload{
			Token:           a.client.token,
			ProtocolVersion: a.client.protocolVersion,
		})
	}
	if err != nil {
		return err
	}
	if err := a.conn.Send(auth); err != nil {
		return a.exitError(ctx, err)
	}

	// Liveness accounting starts at the handshake, not at the first
	// ack, so a server that never acks still trips the timeout.
	a.lastAck.Store(a.client.clock.Now().UnixNano())
	return nil
}

// heartbeatLoop sends a heartbeat every interval and force-closes the
// connection when the server has not acknowledged for more than twice
// the interval.
func (a *attempt) heartbeatLoop(loopDone chan<- struct{}) {
	defer close(loopDone)

	ticker := a.client.clock.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
		}
		if a.client.isClosed() {
			return
		}

		sinceAck := a.client.clock.Now().Sub(time.Unix(0, a.lastAck.Load()))
		if sinceAck > 2*a.interval {
			a.client.logger.Warn("heartbeat ack overdue, closing connection",
				"since_ack", sinceAck, "interval", a.interval)
			a.closeReason.Store(&CloseError{
				Code:   CloseHeartbeatTimeout,
				Reason: "heartbeat ack timeout",
			})
			a.conn.Close()
			return
		}

		if err := a.conn.Send(heartbeatFrame); err != nil {
			// The receive loop observes the same connection failure
			// and reports it.
			return
		}
	}
}

// receiveLoop decodes and dispatches inbound frames until the
// connection ends. Undecodable frames are dropped; the stream
// continues.
func (a *attempt) receiveLoop(ctx context.Context) error {
	for {
		frame, err := a.conn.Receive()
		if err != nil {
			return a.exitError(ctx, err)
		}
		payload, ok := a.expand(frame)
		if !ok {
			continue
		}
		evt, err := event.Decode(payload)
		if err != nil {
			a.client.logger.Warn("dropping undecodable gateway frame", "error", err)
			continue
		}

		if seq, ok := evt.Sequence(); ok {
			a.client.recordSequence(seq)
		}

		switch typed := evt.(type) {
		case *event.HeartbeatAck:
			a.lastAck.Store(a.client.clock.Now().UnixNano())
			continue
		case *event.Ready:
			a.client.recordSession(typed.SessionID)
			a.signal.fulfill(typed)
		case *event.Resumed:
			a.client.logger.Info("gateway session resumed",
				"session_id", a.client.SessionID())
		}

		a.client.handlers.dispatch(ctx, a.client.logger, evt)
	}
}

// expand returns the frame payload ready for decoding, decompressing
// binary frames with the configured codec. Frames that cannot be
// expanded are dropped rather than ending the connection.
func (a *attempt) expand(frame transport.Frame) ([]byte, bool) {
	if !frame.Binary {
		return frame.Data, true
	}
	if a.client.codec == nil {
		// Compression was not negotiated; treat the bytes as the
		// payload itself.
		return frame.Data, true
	}
	payload, err := a.client.codec.Decompress(frame.Data)
	if err != nil {
		a.client.logger.Warn("dropping frame that failed decompression",
			"codec", a.client.codec.Name(), "error", err)
		return nil, false
	}
	return payload, true
}

// exitError maps a transport failure to the attempt's result: nil
// after a requested Close, the synthesized liveness close if the
// heartbeat loop fired, the context error on cancellation, a
// *CloseError when the gateway closed with a code, and the raw
// failure otherwise.
func (a *attempt) exitError(ctx context.Context, err error) error {
	if a.client.isClosed() {
		return nil
	}
	if reason := a.closeReason.Load(); reason != nil {
		return reason
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var status *transport.CloseStatus
	if errors.As(err, &status) {
		return &CloseError{Code: status.Code, Reason: status.Reason}
	}
	return err
}
