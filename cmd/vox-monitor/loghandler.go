// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// programLogHandler is a slog.Handler that routes log records into the
// bubbletea program as messages, so client and session logging shows
// up in the dashboard footer instead of corrupting the alt-screen
// display. Records below the configured level are silently dropped, as
// are records arriving before SetProgram is called.
//
// All handlers derived via WithAttrs/WithGroup share the same program
// pointer, so a single SetProgram call propagates to every derived
// handler.
type programLogHandler struct {
	level   slog.Level
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	groups  []string
}

func newProgramLogHandler(level slog.Level) *programLogHandler {
	return &programLogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the bubbletea program that receives log messages.
// Safe to call from any goroutine.
func (handler *programLogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

func (handler *programLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle formats the record as a one-line summary, "message (key=value,
// ...)", and sends it to the program.
func (handler *programLogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}

	summary := record.Message
	var attrParts []string
	for _, attr := range handler.attrs {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
		return true
	})
	if len(attrParts) > 0 {
		summary += " ("
		for index, part := range attrParts {
			if index > 0 {
				summary += ", "
			}
			summary += part
		}
		summary += ")"
	}

	program.Send(logNoticeMsg{summary: summary, level: record.Level})
	return nil
}

// WithAttrs returns a derived handler with the attributes appended. It
// shares the atomic program pointer, so SetProgram on the root handler
// propagates automatically.
func (handler *programLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &programLogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   append(sliceClone(handler.attrs), attrs...),
		groups:  sliceClone(handler.groups),
	}
}

// WithGroup returns a derived handler with the group name appended,
// sharing the same atomic program pointer.
func (handler *programLogHandler) WithGroup(name string) slog.Handler {
	return &programLogHandler{
		level:   handler.level,
		program: handler.program,
		attrs:   sliceClone(handler.attrs),
		groups:  append(sliceClone(handler.groups), name),
	}
}

// sliceClone returns a shallow copy of a slice. Avoids aliasing when
// building derived handlers.
func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
