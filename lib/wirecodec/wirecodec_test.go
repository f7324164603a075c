// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package wirecodec

import (
	"bytes"
	"strings"
	"testing"
)

// frame is a realistic gateway payload: repetitive JSON that every
// supported codec should shrink.
var frame = []byte(strings.Repeat(`{"type":"message_create","seq":42,"d":{"content":"hello"}}`, 64))

func TestRoundTrip(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			codec, ok := ForName(name)
			if !ok {
				t.Fatalf("ForName(%q) not found", name)
			}
			if got := codec.Name(); got != name {
				t.Fatalf("Name() = %q, want %q", got, name)
			}

			compressed, err := codec.Compress(frame)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if len(compressed) >= len(frame) {
				t.Fatalf("compressed size %d, want smaller than %d", len(compressed), len(frame))
			}

			restored, err := codec.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(restored, frame) {
				t.Fatalf("round trip mismatch: got %d bytes, want %d", len(restored), len(frame))
			}
		})
	}
}

func TestForNameUnknown(t *testing.T) {
	if codec, ok := ForName("gzip"); ok {
		t.Fatalf("ForName(\"gzip\") = %v, want not found", codec.Name())
	}
	if _, ok := ForName(""); ok {
		t.Fatal("ForName(\"\") should not resolve")
	}
}

func TestDecompressCorruptInput(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			codec, _ := ForName(name)
			if _, err := codec.Decompress([]byte("not a compressed frame")); err == nil {
				t.Fatal("Decompress of garbage should fail")
			}
		})
	}
}

func TestDecompressEmptyFrame(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			codec, _ := ForName(name)
			compressed, err := codec.Compress(nil)
			if err != nil {
				t.Fatalf("Compress(nil): %v", err)
			}
			restored, err := codec.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if len(restored) != 0 {
				t.Fatalf("restored %d bytes, want 0", len(restored))
			}
		})
	}
}
