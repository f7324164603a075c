// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway maintains a persistent client connection to a Vox
// gateway endpoint.
//
// A [Client] dials the endpoint, performs the hello/identify
// handshake, and then decodes inbound frames into [event.Event]
// values, dispatching each to handlers registered with [Client.On].
// Liveness is enforced with heartbeats at the server-assigned
// interval: if the server stops acknowledging for more than twice the
// interval, the client force-closes the connection with
// [CloseHeartbeatTimeout] and treats it like any other close.
//
// [Client.Run] adds supervision. When the gateway closes the
// connection, the close code is classified by a [ClosePolicy]:
// resumable closes reconnect and resume the session (replaying missed
// events from the last observed sequence number), reconnectable
// closes discard the session and identify afresh, and fatal closes
// end Run with a *[CloseError]. Reconnect delays grow exponentially
// with jitter.
//
// [Client.ConnectInBackground] is the fire-and-forget form: it starts
// Run in a goroutine and waits only for the first ready event,
// returning a *[TimeoutError] if readiness does not arrive in time
// while the connection keeps trying in the background.
//
// Time and transport are both pluggable ([Config].Clock and
// [Config].Dialer), so handshake, heartbeat, and reconnect behavior
// can be driven deterministically under test.
package gateway
