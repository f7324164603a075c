// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func sizedModel(t *testing.T, width, height int) model {
	t.Helper()
	m := newModel("wss://gateway.vox.im")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(model)
}

func testEvent(eventType string, seq int64) eventMsg {
	return eventMsg{
		eventType: eventType,
		seq:       seq,
		hasSeq:    true,
		frame:     `{"type":"` + eventType + `"}`,
		received:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewModel(t *testing.T) {
	m := newModel("wss://gateway.vox.im")
	if m.state != "connecting" {
		t.Errorf("state = %q, want %q", m.state, "connecting")
	}
	if !m.follow {
		t.Error("follow mode should start enabled")
	}
	if m.View() != "Loading..." {
		t.Errorf("pre-size View = %q, want Loading...", m.View())
	}
}

func TestModelCountsEvents(t *testing.T) {
	m := sizedModel(t, 120, 30)

	for seq := int64(1); seq <= 3; seq++ {
		updated, _ := m.Update(testEvent("message_create", seq))
		m = updated.(model)
	}
	updated, _ := m.Update(testEvent("typing_start", 4))
	m = updated.(model)

	if m.counts["message_create"] != 3 {
		t.Errorf("message_create count = %d, want 3", m.counts["message_create"])
	}
	if m.counts["typing_start"] != 1 {
		t.Errorf("typing_start count = %d, want 1", m.counts["typing_start"])
	}
	if m.totalCount != 4 {
		t.Errorf("totalCount = %d, want 4", m.totalCount)
	}
	if m.lastSeq != 4 {
		t.Errorf("lastSeq = %d, want 4", m.lastSeq)
	}
}

func TestModelLastSequenceNeverRegresses(t *testing.T) {
	m := sizedModel(t, 120, 30)

	updated, _ := m.Update(testEvent("message_create", 10))
	m = updated.(model)
	updated, _ = m.Update(testEvent("message_create", 4))
	m = updated.(model)

	if m.lastSeq != 10 {
		t.Errorf("lastSeq = %d, want 10 after an older replay", m.lastSeq)
	}
}

func TestModelView(t *testing.T) {
	m := sizedModel(t, 160, 30)

	updated, _ := m.Update(connStateMsg{state: "connected", sessionID: "sess-42"})
	m = updated.(model)
	updated, _ = m.Update(testEvent("message_create", 7))
	m = updated.(model)

	view := m.View()
	if !strings.Contains(view, "vox-monitor") {
		t.Error("view is missing the status bar title")
	}
	if !strings.Contains(view, "connected") {
		t.Error("view is missing the connection state")
	}
	if !strings.Contains(view, "sess-42") {
		t.Error("view is missing the session id")
	}
	if !strings.Contains(view, "message_create") {
		t.Error("view is missing the event row")
	}
	if !strings.Contains(view, "[q] quit") {
		t.Error("view is missing the key help")
	}
}

func TestModelFeedCap(t *testing.T) {
	m := sizedModel(t, 120, 30)

	for seq := int64(0); seq < maxFeedRows+50; seq++ {
		updated, _ := m.Update(testEvent("message_create", seq))
		m = updated.(model)
	}

	if len(m.rows) != maxFeedRows {
		t.Errorf("feed holds %d rows, want cap of %d", len(m.rows), maxFeedRows)
	}
	if len(m.rendered) != maxFeedRows {
		t.Errorf("rendered feed holds %d rows, want cap of %d", len(m.rendered), maxFeedRows)
	}
	// The oldest rows fell off the front.
	if got := m.rows[0].seq; got != 50 {
		t.Errorf("oldest retained seq = %d, want 50", got)
	}
}

func TestModelNoticeReplacesHelp(t *testing.T) {
	m := sizedModel(t, 120, 30)

	updated, command := m.Update(logNoticeMsg{summary: "reconnecting to gateway", level: slog.LevelWarn})
	m = updated.(model)
	if command == nil {
		t.Fatal("expected a fade command after a log notice")
	}
	if !strings.Contains(m.View(), "reconnecting to gateway") {
		t.Error("view is missing the log notice")
	}

	updated, _ = m.Update(noticeFadeMsg{})
	m = updated.(model)
	if strings.Contains(m.View(), "reconnecting to gateway") {
		t.Error("notice survived its fade message")
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := sizedModel(t, 120, 30)

	_, command := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q produced no command")
	}
	if message := command(); message != (tea.QuitMsg{}) {
		t.Errorf("q produced %T, want tea.QuitMsg", message)
	}
}

func TestModelGatewayStopped(t *testing.T) {
	m := sizedModel(t, 120, 30)
	stopErr := errors.New("gateway: authentication failed")

	updated, command := m.Update(gatewayStoppedMsg{err: stopErr})
	m = updated.(model)

	if m.runErr != stopErr {
		t.Errorf("runErr = %v, want the stop error", m.runErr)
	}
	if m.state != "stopped" {
		t.Errorf("state = %q, want stopped", m.state)
	}
	if command == nil {
		t.Fatal("expected a quit command")
	}
	if message := command(); message != (tea.QuitMsg{}) {
		t.Errorf("stop produced %T, want tea.QuitMsg", message)
	}
}

func TestModelRatePruning(t *testing.T) {
	m := sizedModel(t, 120, 30)

	old := time.Now().Add(-2 * time.Minute)
	updated, _ := m.Update(eventMsg{eventType: "typing_start", frame: "{}", received: old})
	m = updated.(model)
	updated, _ = m.Update(eventMsg{eventType: "typing_start", frame: "{}", received: time.Now()})
	m = updated.(model)

	updated, _ = m.Update(rateTickMsg{})
	m = updated.(model)

	if len(m.rateTimes) != 1 {
		t.Errorf("rate window holds %d samples, want 1 after pruning", len(m.rateTimes))
	}
}
