// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// sampleSnapshot is a representative on-disk state record using cbor
// struct tags (the convention for purely-local types).
type sampleSnapshot struct {
	Endpoint  string `cbor:"endpoint"`
	SessionID string `cbor:"session_id,omitempty"`
	LastSeq   int64  `cbor:"last_seq"`
}

// sampleDual uses json struct tags (the convention for types that
// also cross the wire, relying on fxamacker's json-tag fallback).
type sampleDual struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleSnapshot{
		Endpoint:  "wss://gateway.vox.example",
		SessionID: "sess-91f2",
		LastSeq:   42,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleSnapshot
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	snapshot := sampleSnapshot{
		Endpoint:  "wss://gateway.vox.example",
		SessionID: "sess-07aa",
		LastSeq:   7,
	}

	first, err := Marshal(snapshot)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(snapshot)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestEncoderDecoderStreamRoundtrip(t *testing.T) {
	snapshots := []sampleSnapshot{
		{Endpoint: "wss://a.vox.example", SessionID: "sess-1", LastSeq: 1},
		{Endpoint: "wss://b.vox.example", SessionID: "sess-2", LastSeq: 2},
		{Endpoint: "wss://c.vox.example", LastSeq: 0},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, snapshot := range snapshots {
		if err := encoder.Encode(snapshot); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range snapshots {
		var got sampleSnapshot
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode snapshot %d: %v", i, err)
		}
		if got != want {
			t.Errorf("snapshot %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	original := sampleDual{Version: 3, Name: "gateway"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleDual
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("json-tag roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withSession := sampleSnapshot{Endpoint: "wss://a", SessionID: "sess-1", LastSeq: 1}
	withoutSession := sampleSnapshot{Endpoint: "wss://a", LastSeq: 1}

	dataWith, err := Marshal(withSession)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutSession)
	if err != nil {
		t.Fatal(err)
	}

	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var snapshot sampleSnapshot
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &snapshot); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestAnyTargetDecodesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"status": "online", "count": int64(3)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	asMap, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("any target decoded to %T, want map[string]any", decoded)
	}
	if got, want := asMap["status"], "online"; got != want {
		t.Errorf("status = %v, want %v", got, want)
	}
}

func TestByteStringRoundtrip(t *testing.T) {
	type envelope struct {
		Payload []byte `cbor:"payload"`
	}

	original := envelope{Payload: []byte(`{"key":"value"}`)}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded envelope
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !bytes.Equal(decoded.Payload, original.Payload) {
		t.Errorf("byte string roundtrip: got %q, want %q", decoded.Payload, original.Payload)
	}
}

func BenchmarkMarshal(b *testing.B) {
	snapshot := sampleSnapshot{
		Endpoint:  "wss://gateway.vox.example",
		SessionID: "sess-91f2",
		LastSeq:   42,
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(snapshot)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	snapshot := sampleSnapshot{
		Endpoint:  "wss://gateway.vox.example",
		SessionID: "sess-91f2",
		LastSeq:   42,
	}
	data, err := Marshal(snapshot)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		var decoded sampleSnapshot
		Unmarshal(data, &decoded)
	}
}
