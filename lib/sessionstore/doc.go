// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionstore persists gateway session snapshots so a new
// process can resume a session instead of identifying from scratch.
//
// A [Store] keeps one [Snapshot] file per endpoint under a directory.
// File names are the hex prefix of a keyed BLAKE3 hash of the endpoint
// URL, so tokens and URLs never appear on disk. Snapshots are encoded
// with [lib/codec]'s deterministic CBOR and written atomically
// (temporary file, fsync, rename), so a crash mid-save never corrupts
// an existing snapshot.
//
// A missing snapshot is a normal condition, not an error: [Store.Load]
// reports it with ok=false. Staleness is not checked here — a resume
// with an expired session is rejected by the gateway with a resumable
// close code, and the client falls back to a fresh identify on its
// own.
package sessionstore
