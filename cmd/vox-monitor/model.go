// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// maxFeedRows caps the scrollback buffer. Older rows fall off the top.
const maxFeedRows = 2000

// noticeFadeDelay is how long a log notice stays in the footer before
// the help line returns.
const noticeFadeDelay = 5 * time.Second

// rateWindow is the sliding window for the events-per-minute figure.
const rateWindow = time.Minute

// Colors use ANSI 256-color codes for broad terminal compatibility,
// tuned for dark backgrounds.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))  // blue
	liveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114")) // green
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // amber
	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
)

// eventMsg delivers one gateway event to the dashboard.
type eventMsg struct {
	eventType string
	seq       int64
	hasSeq    bool
	frame     string
	received  time.Time
}

// connStateMsg reports a connection state change (connected, resumed).
type connStateMsg struct {
	state     string
	sessionID string
}

// logNoticeMsg delivers a slog record summary for the footer.
type logNoticeMsg struct {
	summary string
	level   slog.Level
}

// noticeFadeMsg clears the footer notice after a delay.
type noticeFadeMsg struct{}

// gatewayStoppedMsg reports that the client's Run loop returned.
type gatewayStoppedMsg struct {
	err error
}

// rateTickMsg drives the periodic events-per-minute refresh.
type rateTickMsg struct{}

// eventRow is a received event retained for the scrollback feed. Rows
// are re-rendered on resize so truncation tracks the terminal width.
type eventRow struct {
	received  time.Time
	eventType string
	seq       int64
	hasSeq    bool
	frame     string
}

// model is the top-level bubbletea model for the event dashboard: a
// status bar, a scrolling event feed in a viewport, and a footer that
// alternates between key help and log notices.
type model struct {
	endpoint string

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Connection state for the status bar.
	state     string
	sessionID string
	lastSeq   int64
	hasSeq    bool

	// Event feed.
	viewport viewport.Model
	rows     []eventRow
	rendered []string
	follow   bool

	// Counters for the footer and status bar.
	counts     map[string]int
	totalCount int
	rateTimes  []time.Time

	// Footer notice from the log handler.
	notice      string
	noticeLevel slog.Level

	// Error carried out of the program when the gateway stops.
	runErr error
}

func newModel(endpoint string) model {
	return model{
		endpoint: endpoint,
		state:    "connecting",
		follow:   true,
		counts:   make(map[string]int),
	}
}

func (m model) Init() tea.Cmd {
	return rateTick()
}

func rateTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return rateTickMsg{}
	})
}

func (m model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		switch message.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "g":
			m.viewport.GotoTop()
			m.follow = false

		case "G":
			m.viewport.GotoBottom()
			m.follow = true

		default:
			// Everything else (arrows, pgup/pgdown, j/k) scrolls the
			// feed. Landing on the last row re-enables follow mode.
			var command tea.Cmd
			m.viewport, command = m.viewport.Update(message)
			m.follow = m.viewport.AtBottom()
			return m, command
		}

	case tea.MouseMsg:
		var command tea.Cmd
		m.viewport, command = m.viewport.Update(message)
		m.follow = m.viewport.AtBottom()
		return m, command

	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		m.viewport.Width = m.width
		// Status bar, separator, and footer each take one row.
		m.viewport.Height = m.height - 3
		m.rerenderRows()
		m.viewport.SetContent(strings.Join(m.rendered, "\n"))
		if m.follow {
			m.viewport.GotoBottom()
		}

	case eventMsg:
		m.appendEvent(message)

	case connStateMsg:
		m.state = message.state
		m.sessionID = message.sessionID

	case logNoticeMsg:
		m.notice = message.summary
		m.noticeLevel = message.level
		return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
			return noticeFadeMsg{}
		})

	case noticeFadeMsg:
		m.notice = ""

	case rateTickMsg:
		m.pruneRates(time.Now())
		return m, rateTick()

	case gatewayStoppedMsg:
		m.runErr = message.err
		m.state = "stopped"
		return m, tea.Quit
	}
	return m, nil
}

// appendEvent adds one event to the feed, updates the counters, and
// keeps the viewport pinned to the bottom while follow mode is on.
func (m *model) appendEvent(message eventMsg) {
	m.rows = append(m.rows, eventRow{
		received:  message.received,
		eventType: message.eventType,
		seq:       message.seq,
		hasSeq:    message.hasSeq,
		frame:     message.frame,
	})
	m.rendered = append(m.rendered, m.renderRow(m.rows[len(m.rows)-1]))
	if len(m.rows) > maxFeedRows {
		m.rows = m.rows[1:]
		m.rendered = m.rendered[1:]
	}

	m.counts[message.eventType]++
	m.totalCount++
	m.rateTimes = append(m.rateTimes, message.received)
	m.pruneRates(message.received)

	if message.hasSeq && message.seq > m.lastSeq {
		m.lastSeq = message.seq
		m.hasSeq = true
	}

	m.viewport.SetContent(strings.Join(m.rendered, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// pruneRates drops rate samples that left the sliding window.
func (m *model) pruneRates(now time.Time) {
	cutoff := now.Add(-rateWindow)
	start := 0
	for start < len(m.rateTimes) && m.rateTimes[start].Before(cutoff) {
		start++
	}
	m.rateTimes = m.rateTimes[start:]
}

// renderRow formats one feed line: time, sequence, type, payload,
// truncated to the terminal width.
func (m *model) renderRow(row eventRow) string {
	seq := "     -"
	if row.hasSeq {
		seq = fmt.Sprintf("%6d", row.seq)
	}
	line := fmt.Sprintf("%s %s %s %s",
		faintStyle.Render(row.received.Format("15:04:05")),
		faintStyle.Render(seq),
		typeStyle.Render(fmt.Sprintf("%-24s", row.eventType)),
		row.frame)
	if m.width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.width, "…")
}

func (m *model) rerenderRows() {
	m.rendered = m.rendered[:0]
	for _, row := range m.rows {
		m.rendered = append(m.rendered, m.renderRow(row))
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sections := []string{
		m.renderStatusBar(),
		m.viewport.View(),
		borderStyle.Render(strings.Repeat("─", m.width)),
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

// renderStatusBar builds the top line: name, connection state, and
// session details, with the gap filled by separator characters.
func (m model) renderStatusBar() string {
	stateStyle := pendingStyle
	switch m.state {
	case "connected", "resumed":
		stateStyle = liveStyle
	case "stopped":
		stateStyle = problemStyle
	}

	left := fmt.Sprintf("%s %s %s %s ",
		borderStyle.Render("───"),
		headerStyle.Render("vox-monitor"),
		borderStyle.Render("─"),
		stateStyle.Render(m.state))
	leftWidth := 3 + 1 + lipgloss.Width("vox-monitor") + 3 + lipgloss.Width(m.state) + 1

	details := m.endpoint
	if m.sessionID != "" {
		details += fmt.Sprintf("  session %s", m.sessionID)
	}
	if m.hasSeq {
		details += fmt.Sprintf("  seq %d", m.lastSeq)
	}
	details += fmt.Sprintf("  %d ev/min", len(m.rateTimes))
	right := " " + faintStyle.Render(details) + " " + borderStyle.Render("─")
	rightWidth := 1 + lipgloss.Width(details) + 2

	fillCount := m.width - leftWidth - rightWidth
	if fillCount < 1 {
		fillCount = 1
	}
	fill := borderStyle.Render(strings.Repeat("─", fillCount))

	return left + fill + right
}

// renderFooter shows the most recent log notice when one is active,
// otherwise key help and the event counters.
func (m model) renderFooter() string {
	if m.notice != "" {
		style := pendingStyle
		if m.noticeLevel >= slog.LevelError {
			style = problemStyle
		}
		return style.Render(ansi.Truncate(" "+m.notice, m.width, "…"))
	}

	help := fmt.Sprintf(" [q] quit  ↑↓ scroll  G follow  %d events", m.totalCount)
	if !m.follow {
		help += "  (scrolled)"
	}
	if top := m.topTypes(3); top != "" {
		help += "   " + top
	}
	return helpStyle.Render(ansi.Truncate(help, m.width, "…"))
}

// topTypes returns the n most frequent event types as "type:count"
// pairs, highest count first, ties broken by name.
func (m model) topTypes(n int) string {
	type typeCount struct {
		eventType string
		count     int
	}
	ranked := make([]typeCount, 0, len(m.counts))
	for eventType, count := range m.counts {
		ranked = append(ranked, typeCount{eventType, count})
	}
	slices.SortFunc(ranked, func(a, b typeCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return strings.Compare(a.eventType, b.eventType)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	parts := make([]string, len(ranked))
	for index, entry := range ranked {
		parts[index] = fmt.Sprintf("%s:%d", entry.eventType, entry.count)
	}
	return strings.Join(parts, "  ")
}
