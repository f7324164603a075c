// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeError reports a frame that could not be decoded: malformed
// JSON, a non-object envelope, or a payload that does not match the
// registered schema for its type. Receive loops log and skip such
// frames; a DecodeError never justifies tearing down the connection.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "event: decode: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// envelope is the wire shape shared by every frame.
type envelope struct {
	Type string          `json:"type"`
	Seq  *int64          `json:"seq"`
	D    json.RawMessage `json:"d"`
}

// Decode parses a raw frame into a typed event.
//
// An unknown type discriminator is not an error: it yields an
// [Unknown] carrying the discriminator and a best-effort decoding of
// the payload. Errors are reserved for frames that are structurally
// broken — invalid JSON, a non-object envelope, or a payload that
// contradicts the schema of a known type — and are always of type
// [*DecodeError].
//
// The returned event retains data as its Meta.Raw; callers must not
// mutate the slice afterwards.
func Decode(data []byte) (Event, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &DecodeError{Err: fmt.Errorf("frame is not a JSON object")}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &DecodeError{Err: err}
	}

	meta := Meta{Type: env.Type, Seq: env.Seq, Raw: data}

	reg, known := registry[env.Type]
	if !known {
		unknown := &Unknown{Meta: meta}
		if payloadPresent(env.D) {
			// Best effort: a non-object payload leaves Payload nil
			// rather than failing the frame.
			_ = json.Unmarshal(env.D, &unknown.Payload)
		}
		return unknown, nil
	}

	evt := reg.factory()
	evt.(metaSetter).setMeta(meta)

	if payloadPresent(env.D) {
		if err := json.Unmarshal(env.D, evt); err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("%s payload: %w", env.Type, err)}
		}
		bindLooseKeys(evt, reg, env)
	}

	return evt, nil
}

// bindLooseKeys handles the payload keys that field tags alone cannot
// express: the extra bucket of types that declare one, and the per-
// type remaps of the payload's own "type" key.
func bindLooseKeys(evt Event, reg registration, env envelope) {
	carrier, carries := evt.(extraCarrier)
	remap, remaps := payloadTypeRemaps[env.Type]
	if !carries && !remaps {
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(env.D, &payload); err != nil {
		// The typed unmarshal above already accepted this payload,
		// so it is an object; a map decoding cannot fail on it.
		return
	}

	if carries {
		extra := make(map[string]any)
		for key, value := range payload {
			if _, bound := reg.boundKeys[key]; !bound {
				extra[key] = value
			}
		}
		carrier.setExtra(extra)
	}

	if remaps {
		if kind, ok := payload["type"].(string); ok {
			remap(evt, kind)
		}
	}
}

// payloadPresent reports whether a frame carried a usable d value.
// Absent and null payloads leave the event at its zero values.
func payloadPresent(d json.RawMessage) bool {
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}
