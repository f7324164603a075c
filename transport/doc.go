// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport abstracts the framed byte stream between a client
// and the gateway.
//
// [Conn] is a single bidirectional frame stream: Send writes one
// outbound frame, Receive blocks for the next inbound [Frame], Close
// tears the stream down and unblocks any pending Receive. Sends from
// concurrent goroutines are serialized by the implementation — the
// wire sees exactly one writer. [Dialer] opens Conns; the production
// implementation is [WebSocketDialer], tests substitute in-memory
// fakes.
//
// When the peer closes the stream with a protocol status code,
// Receive returns a [*CloseStatus] carrying the code and reason. All
// other Receive errors mean the stream died without a code (network
// fault, local close).
package transport
