// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package event

import "encoding/json"

// Event is a decoded gateway frame. Concrete event types embed [Meta]
// and add their payload fields; [Unknown] carries frames whose type
// string has no registered schema.
type Event interface {
	// EventType returns the envelope's type discriminator.
	EventType() string

	// Sequence returns the envelope's sequence number. ok is false
	// when the frame carried none. Any frame class may or may not
	// carry one; callers must check ok rather than assume.
	Sequence() (seq int64, ok bool)

	// RawFrame returns the complete frame as received, before any
	// payload binding. Callers must not mutate it.
	RawFrame() json.RawMessage
}

// Meta holds the envelope fields shared by every event. Payload
// binding never touches these: the json tags exclude them so that a
// payload key named "type" or "seq" cannot clobber envelope state.
// They are populated from the envelope by [Decode].
type Meta struct {
	// Type is the envelope discriminator string.
	Type string `json:"-"`

	// Seq is the envelope sequence number, nil when the frame
	// carried none.
	Seq *int64 `json:"-"`

	// Raw is the complete frame as received, for logging and
	// diagnostics.
	Raw json.RawMessage `json:"-"`
}

// EventType returns the envelope's type discriminator.
func (m Meta) EventType() string { return m.Type }

// Sequence returns the envelope's sequence number and whether the
// frame carried one.
func (m Meta) Sequence() (int64, bool) {
	if m.Seq == nil {
		return 0, false
	}
	return *m.Seq, true
}

// RawFrame returns the complete frame as received.
func (m Meta) RawFrame() json.RawMessage { return m.Raw }

func (m *Meta) setMeta(meta Meta) { *m = meta }

// metaSetter is satisfied by every type that embeds Meta. Decode uses
// it to stamp envelope state onto freshly allocated events; register
// enforces it at init time.
type metaSetter interface {
	setMeta(Meta)
}

// Unknown is the fallback for frames whose type string has no
// registered schema. Payload holds the frame's d object decoded as a
// generic map, nil when d was absent, null, or not an object.
//
// Unknown is a normal dispatchable event: wildcard handlers observe
// it like any other, which lets tooling log event types the catalog
// does not know yet.
type Unknown struct {
	Meta

	Payload map[string]any `json:"-"`
}

var _ Event = (*Unknown)(nil)
