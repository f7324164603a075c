// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"reflect"
	"strings"
)

// registration describes one known event type: how to allocate its
// typed value and which payload keys bind to named fields.
type registration struct {
	factory   func() Event
	boundKeys map[string]struct{}
}

// registry maps envelope type discriminators to their registrations.
// It is populated by init in catalog.go and never mutated afterwards,
// so lookups need no locking.
var registry = make(map[string]registration)

// register adds a known event type to the registry. Panics on
// duplicate discriminators or on factories whose events do not embed
// [Meta] — both are programming errors caught at init.
func register(eventType string, factory func() Event) {
	if eventType == "" {
		panic("event: register with empty type string")
	}
	if _, exists := registry[eventType]; exists {
		panic("event: duplicate registration for " + eventType)
	}
	prototype := factory()
	if _, ok := prototype.(metaSetter); !ok {
		panic("event: " + eventType + " does not embed Meta")
	}
	registry[eventType] = registration{
		factory:   factory,
		boundKeys: boundPayloadKeys(prototype),
	}
}

// boundPayloadKeys reflects over a concrete event struct once at
// registration time and collects the json tag of every bound field.
// The extra bucket in Decode excludes these keys, so the set defines
// "unrecognized" for types that carry one.
func boundPayloadKeys(evt Event) map[string]struct{} {
	keys := make(map[string]struct{})
	structType := reflect.TypeOf(evt).Elem()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		keys[name] = struct{}{}
	}
	if _, ok := evt.(extraCarrier); ok {
		// A literal "extra" key on the wire must not leak into the
		// bucket of unbound keys.
		keys["extra"] = struct{}{}
	}
	return keys
}

// extraCarrier is implemented by event types that declare an Extra
// bucket for payload keys not bound to a named field.
type extraCarrier interface {
	setExtra(map[string]any)
}
