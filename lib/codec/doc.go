// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// The repository uses two serialization formats with a clear boundary:
//
//   - JSON for the wire: gateway frames are JSON envelopes (optionally
//     wrapped in a compression codec), and CLI output is JSON.
//   - CBOR for local state: on-disk session snapshots and any future
//     cache files.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC
// 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes.
//
// For buffer-oriented operations (files):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types serialized with this package carry `cbor` struct tags; types
// that cross the gateway wire carry `json` tags and never pass through
// here.
package codec
