// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/vox-im/vox-go/event"
)

// Connect performs a single connection attempt and blocks until the
// connection ends. It returns nil only after [Client.Close]; any
// server- or network-initiated end is reported as an error, with no
// reconnection. Most callers want [Client.Run] instead.
func (c *Client) Connect(ctx context.Context) error {
	signal, err := c.prepare()
	if err != nil {
		return err
	}
	defer c.finishRun()
	return c.connectOnce(ctx, signal)
}

// Run maintains the connection until Close or a terminal failure.
// Closes classified resumable reconnect and resume the session;
// reconnectable closes discard it and identify afresh; fatal closes
// and non-close failures end Run with that error. Reconnect delays
// grow exponentially from BackoffBase to BackoffMax with multiplicative
// jitter in [0.5, 1.5). Run returns nil after [Client.Close].
func (c *Client) Run(ctx context.Context) error {
	signal, err := c.prepare()
	if err != nil {
		return err
	}
	return c.supervise(ctx, signal)
}

// ConnectInBackground starts Run in a goroutine and blocks until the
// first ready event, a terminal failure, or timeout (zero means 30
// seconds). On timeout it returns a *[TimeoutError] and the background
// connection keeps running; the gateway may still become ready later.
// Stop it with [Client.Close].
func (c *Client) ConnectInBackground(ctx context.Context, timeout time.Duration) (*event.Ready, error) {
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}
	signal, err := c.prepare()
	if err != nil {
		return nil, err
	}

	go func() {
		if err := c.supervise(ctx, signal); err != nil {
			c.logger.Error("background gateway connection ended", "error", err)
		}
	}()

	select {
	case <-signal.done:
		if signal.err != nil {
			return nil, signal.err
		}
		return signal.ready, nil
	case <-c.clock.After(timeout):
		return nil, &TimeoutError{Timeout: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// supervise drives connection attempts until a clean close, a terminal
// failure, or (when configured) the attempt budget is spent. Every
// failed attempt consumes budget and lengthens the backoff, regardless
// of how long the connection held between failures.
func (c *Client) supervise(ctx context.Context, signal *readySignal) error {
	defer c.finishRun()

	failures := 0
	for {
		err := c.connectOnce(ctx, signal)
		if err == nil {
			return nil
		}

		var closeErr *CloseError
		if !errors.As(err, &closeErr) {
			// Dial failures, cancellation, and transport errors
			// without a close code are not retried.
			signal.fail(err)
			return err
		}

		class := c.policy.Classify(closeErr.Code)
		if class == ClassFatal {
			signal.fail(closeErr)
			return closeErr
		}
		if class == ClassReconnectable {
			c.resetSession()
		}

		failures++
		if c.maxAttempts > 0 && failures >= c.maxAttempts {
			c.logger.Error("gateway reconnect budget exhausted",
				"attempts", failures, "code", closeErr.Code)
			signal.fail(closeErr)
			return closeErr
		}

		delay := backoffDelay(c.backoffBase, c.backoffMax, failures, 0.5+rand.Float64())
		c.logger.Info("gateway connection closed, reconnecting",
			"code", closeErr.Code,
			"reason", closeErr.Reason,
			"class", class,
			"delay", delay,
			"attempt", failures)

		select {
		case <-c.clock.After(delay):
		case <-c.closedChannel():
			return nil
		case <-ctx.Done():
			signal.fail(ctx.Err())
			return ctx.Err()
		}
	}
}

// backoffDelay computes the reconnect delay for the given consecutive
// failure count (1-based): base doubled failures-1 times, capped at
// max, then scaled by jitter. Because the cap applies before jitter,
// the result ranges over [0.5*max, 1.5*max) once the exponent
// saturates.
func backoffDelay(base, max time.Duration, failures int, jitter float64) time.Duration {
	delay := base
	for i := 1; i < failures; i++ {
		delay *= 2
		if delay >= max || delay <= 0 {
			delay = max
			break
		}
	}
	if delay > max {
		delay = max
	}
	return time.Duration(float64(delay) * jitter)
}
