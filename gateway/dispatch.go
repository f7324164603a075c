// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vox-im/vox-go/event"
)

// Wildcard is the registration key that matches every dispatched
// event type.
const Wildcard = "*"

// Handler processes one dispatched event. The context is the one
// passed to Connect or Run. A returned error is logged and never
// affects other handlers or the connection; handlers must not block
// indefinitely, since events on a connection are dispatched one at a
// time.
type Handler func(ctx context.Context, evt event.Event) error

// Registration identifies one registered handler so it can be removed
// again.
type Registration struct {
	table     *handlerTable
	eventType string
	id        uint64
}

// Remove unregisters the handler. Safe to call more than once, and
// concurrently with dispatch: an in-flight invocation completes, later
// events no longer reach it.
func (r *Registration) Remove() {
	r.table.remove(r.eventType, r.id)
}

// handlerTable is an ordered multimap from event-type strings (plus
// the wildcard key) to handlers. Registration order is preserved per
// key; dispatch snapshots under the lock so handlers can register and
// remove entries freely.
type handlerTable struct {
	mu     sync.Mutex
	nextID uint64
	byType map[string][]handlerEntry
}

type handlerEntry struct {
	id      uint64
	handler Handler
}

func newHandlerTable() *handlerTable {
	return &handlerTable{byType: make(map[string][]handlerEntry)}
}

func (t *handlerTable) add(eventType string, handler Handler) *Registration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.byType[eventType] = append(t.byType[eventType], handlerEntry{id: t.nextID, handler: handler})
	return &Registration{table: t, eventType: eventType, id: t.nextID}
}

func (t *handlerTable) remove(eventType string, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := t.byType[eventType]
	for i, entry := range entries {
		if entry.id == id {
			t.byType[eventType] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// snapshot returns the handlers for one event in invocation order:
// type-bound handlers first, wildcard handlers after, each group in
// registration order.
func (t *handlerTable) snapshot(eventType string) []Handler {
	t.mu.Lock()
	defer t.mu.Unlock()

	typed := t.byType[eventType]
	wildcard := t.byType[Wildcard]
	if len(typed)+len(wildcard) == 0 {
		return nil
	}

	handlers := make([]Handler, 0, len(typed)+len(wildcard))
	for _, entry := range typed {
		handlers = append(handlers, entry.handler)
	}
	for _, entry := range wildcard {
		handlers = append(handlers, entry.handler)
	}
	return handlers
}

// dispatch runs every handler bound to the event's type, then every
// wildcard handler, sequentially. Each invocation is isolated: an
// error or panic is logged and the remaining handlers still run.
// Nothing escapes to the receive loop.
func (t *handlerTable) dispatch(ctx context.Context, logger *slog.Logger, evt event.Event) {
	for _, handler := range t.snapshot(evt.EventType()) {
		invoke(ctx, logger, handler, evt)
	}
}

func invoke(ctx context.Context, logger *slog.Logger, handler Handler, evt event.Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("event handler panicked",
				"event_type", evt.EventType(),
				"panic", recovered)
		}
	}()
	if err := handler(ctx, evt); err != nil {
		logger.Error("event handler failed",
			"event_type", evt.EventType(),
			"error", err)
	}
}
