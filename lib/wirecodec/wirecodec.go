// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package wirecodec provides the compression codecs negotiated for
// binary gateway frames.
//
// When a client connects with a compress query parameter, the gateway
// delivers event frames as compressed binary messages instead of text.
// Each frame is a self-contained compressed unit: no shared dictionary
// or streaming state spans frames, so a reconnect never desynchronizes
// the codec.
//
// Two algorithms are supported: zstd (better ratios for the JSON
// payloads the gateway emits) and lz4 (faster, lower CPU cost). Both
// use their self-describing container formats because wire frames do
// not carry an uncompressed-size header.
package wirecodec

// Codec compresses and decompresses binary gateway frames. A Codec is
// stateless across frames and safe for concurrent use.
type Codec interface {
	// Name returns the identifier sent in the connection URL's
	// compress query parameter ("zstd", "lz4").
	Name() string

	// Compress returns the compressed form of data.
	Compress(data []byte) ([]byte, error)

	// Decompress recovers the original bytes of a compressed frame.
	Decompress(data []byte) ([]byte, error)
}

// ForName returns the codec with the given negotiation name. Returns
// false when the name is not a supported codec.
func ForName(name string) (Codec, bool) {
	switch name {
	case "zstd":
		return Zstd(), true
	case "lz4":
		return LZ4(), true
	default:
		return nil, false
	}
}

// Names returns the negotiation names of all supported codecs.
func Names() []string {
	return []string{"zstd", "lz4"}
}
