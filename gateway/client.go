// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/vox-im/vox-go/event"
	"github.com/vox-im/vox-go/lib/clock"
	"github.com/vox-im/vox-go/lib/wirecodec"
	"github.com/vox-im/vox-go/transport"
)

const (
	defaultProtocolVersion = 1
	defaultBackoffBase     = 1 * time.Second
	defaultBackoffMax      = 60 * time.Second
	defaultReadyTimeout    = 30 * time.Second
)

// Config configures a Client. Endpoint and Token are required;
// everything else has working defaults.
type Config struct {
	// Endpoint is the gateway URL. The http and https schemes are
	// converted to ws and wss; a trailing slash is trimmed.
	Endpoint string

	// Token authenticates the identify and resume frames.
	Token string

	// ProtocolVersion is sent in the identify frame. Zero means
	// version 1.
	ProtocolVersion int

	// Codec enables frame compression. When set, its name is
	// negotiated through the endpoint's compress query parameter and
	// inbound binary frames are decompressed with it before decoding.
	// Nil disables compression.
	Codec wirecodec.Codec

	// Dialer opens gateway connections. Nil means a zero-value
	// [transport.WebSocketDialer].
	Dialer transport.Dialer

	// Clock drives heartbeats, reconnect backoff, and readiness
	// timeouts. Nil means the system clock.
	Clock clock.Clock

	// Logger receives connection lifecycle and handler failure logs.
	// Nil means slog.Default().
	Logger *slog.Logger

	// ClosePolicy classifies close codes for the reconnect loop.
	// Nil means [DefaultClosePolicy].
	ClosePolicy *ClosePolicy

	// BackoffBase is the reconnect delay after the first failure; it
	// doubles with each consecutive failure. Zero means 1 second.
	BackoffBase time.Duration

	// BackoffMax caps the exponential growth. The cap applies before
	// jitter, so an individual delay may reach 1.5× this value. Zero
	// means 60 seconds.
	BackoffMax time.Duration

	// MaxReconnectAttempts bounds consecutive failed attempts before
	// Run gives up and returns the last close error. Zero means no
	// bound.
	MaxReconnectAttempts int
}

// Client maintains a persistent gateway connection: it performs the
// identify/resume handshake, exchanges heartbeats, decodes inbound
// frames, and dispatches events to registered handlers. Run adds
// automatic reconnection governed by the close policy.
//
// A Client is safe for concurrent use. Exactly one of Connect, Run,
// or ConnectInBackground may drive it at a time; after it returns (or
// after Close) the client may be driven again, reusing any session
// state it still holds.
type Client struct {
	endpoint        string
	token           string
	protocolVersion int
	codec           wirecodec.Codec
	dialer          transport.Dialer
	clock           clock.Clock
	logger          *slog.Logger
	policy          *ClosePolicy
	backoffBase     time.Duration
	backoffMax      time.Duration
	maxAttempts     int

	handlers *handlerTable

	// mu guards the connection lifecycle and session state below.
	// Session fields are written only by the engine and supervisor;
	// handlers observe them through the read-only accessors.
	mu         sync.Mutex
	running    bool
	closed     bool
	closedCh   chan struct{}
	generation uint64
	conn       transport.Conn
	sessionID  string
	lastSeq    int64
}

// New validates config and returns a Client ready to be driven by
// Connect, Run, or ConnectInBackground.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, errors.New("gateway: config: Endpoint is required")
	}
	if config.Token == "" {
		return nil, errors.New("gateway: config: Token is required")
	}

	compression := ""
	if config.Codec != nil {
		compression = config.Codec.Name()
	}
	endpoint, err := normalizeEndpoint(config.Endpoint, compression)
	if err != nil {
		return nil, err
	}

	client := &Client{
		endpoint:        endpoint,
		token:           config.Token,
		protocolVersion: config.ProtocolVersion,
		codec:           config.Codec,
		dialer:          config.Dialer,
		clock:           config.Clock,
		logger:          config.Logger,
		policy:          config.ClosePolicy,
		backoffBase:     config.BackoffBase,
		backoffMax:      config.BackoffMax,
		maxAttempts:     config.MaxReconnectAttempts,
		handlers:        newHandlerTable(),
		closedCh:        make(chan struct{}),
	}
	if client.protocolVersion == 0 {
		client.protocolVersion = defaultProtocolVersion
	}
	if client.dialer == nil {
		client.dialer = &transport.WebSocketDialer{}
	}
	if client.clock == nil {
		client.clock = clock.Real()
	}
	if client.logger == nil {
		client.logger = slog.Default()
	}
	if client.policy == nil {
		client.policy = DefaultClosePolicy()
	}
	if client.backoffBase <= 0 {
		client.backoffBase = defaultBackoffBase
	}
	if client.backoffMax <= 0 {
		client.backoffMax = defaultBackoffMax
	}
	return client, nil
}

// On registers handler for an event type string, or for every
// dispatched event when eventType is [Wildcard]. Handlers bound to the
// same key run in registration order; wildcard handlers run after
// type-bound ones. The returned Registration removes the handler
// again.
func (c *Client) On(eventType string, handler Handler) *Registration {
	return c.handlers.add(eventType, handler)
}

// Send writes an arbitrary typed client frame {"type", "d"} to the
// live connection. data may be nil for frames without a payload.
// Returns [ErrNotConnected] when no connection is live.
func (c *Client) Send(frameType string, data any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	encoded, err := encodeClientFrame(frameType, data)
	if err != nil {
		return err
	}
	return conn.Send(encoded)
}

// SendTyping announces typing activity in a feed.
func (c *Client) SendTyping(feedID int64) error {
	return c.Send("typing_start", typingPayload{FeedID: feedID})
}

// UpdatePresence publishes the client's presence. customStatus is
// omitted from the frame when empty.
func (c *Client) UpdatePresence(status, customStatus string) error {
	return c.Send("presence_update", presencePayload{Status: status, CustomStatus: customStatus})
}

// SessionID returns the current session id, empty until a ready event
// establishes one.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// LastSequence returns the highest sequence number observed so far.
func (c *Client) LastSequence() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeq
}

// RestoreSession seeds the session state so the next connection
// attempt resumes instead of identifying, typically from a snapshot
// persisted by a previous process. It must be called before the
// client is driven.
func (c *Client) RestoreSession(sessionID string, lastSequence int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyRunning
	}
	c.sessionID = sessionID
	c.lastSeq = lastSequence
	return nil
}

// Close requests a clean shutdown: the closed flag stops the
// supervisor, heartbeat, and receive loops, and the live transport is
// closed to unblock any pending receive. Close is idempotent. A
// blocked Connect or Run returns nil once closure completes.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.closedCh)
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

// prepare transitions the client into the running state, resetting
// the closed flag and readiness signal from any previous run. Session
// state is deliberately preserved.
func (c *Client) prepare() (*readySignal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil, ErrAlreadyRunning
	}
	c.running = true
	c.closed = false
	c.closedCh = make(chan struct{})
	return newReadySignal(), nil
}

func (c *Client) finishRun() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// closedChannel returns the channel closed by Close for the current
// run.
func (c *Client) closedChannel() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closedCh
}

// adoptConn publishes conn as the live connection for Send and
// returns the generation token identifying this attempt.
func (c *Client) adoptConn(conn transport.Conn) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.conn = conn
	return c.generation
}

// releaseConn withdraws the published connection unless a newer
// attempt has already replaced it. A stale attempt must never clear
// its successor's connection.
func (c *Client) releaseConn(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == generation {
		c.conn = nil
	}
}

func (c *Client) sessionState() (sessionID string, lastSequence int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.lastSeq
}

// recordSequence raises the session's last sequence number. Sequence
// numbers never move backwards, even if the gateway replays an older
// event.
func (c *Client) recordSequence(seq int64) {
	c.mu.Lock()
	if seq > c.lastSeq {
		c.lastSeq = seq
	}
	c.mu.Unlock()
}

func (c *Client) recordSession(sessionID string) {
	c.mu.Lock()
	c.sessionID = sessionID
	c.mu.Unlock()
}

// resetSession discards session state so the next attempt identifies
// from scratch.
func (c *Client) resetSession() {
	c.mu.Lock()
	c.sessionID = ""
	c.lastSeq = 0
	c.mu.Unlock()
}

// readySignal is the one-shot readiness flag shared between the
// receive loop, the supervisor, and ConnectInBackground. The first
// fulfill or fail wins; every later call is a no-op.
type readySignal struct {
	once  sync.Once
	done  chan struct{}
	ready *event.Ready
	err   error
}

func newReadySignal() *readySignal {
	return &readySignal{done: make(chan struct{})}
}

func (s *readySignal) fulfill(ready *event.Ready) {
	s.once.Do(func() {
		s.ready = ready
		close(s.done)
	})
}

func (s *readySignal) fail(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}
