// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// vox-monitor is a terminal dashboard for a live gateway event stream:
// a scrolling feed of raw frames, per-type counters, the session
// cursor, and connection state, updating as events arrive.
//
// The monitor takes only the shared connection flags; there is no
// filtering — it shows everything, which is the point when you are
// debugging what a gateway actually sends. Use vox-tail for scripted
// consumption.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/vox-im/vox-go/cmd/internal/cli"
	"github.com/vox-im/vox-go/event"
	"github.com/vox-im/vox-go/gateway"
	"github.com/vox-im/vox-go/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var connection cli.Connection

	flagSet := pflag.NewFlagSet("vox-monitor", pflag.ContinueOnError)
	connection.AddFlags(flagSet)
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Vox binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("vox-monitor")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}

	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := connection.ResolveConfig()
	if err != nil {
		return err
	}

	// Logs route into the TUI footer; writing them to stderr would
	// corrupt the alt-screen display.
	level, err := cli.ParseLevel(connection.LogLevel)
	if err != nil {
		return err
	}
	handler := newProgramLogHandler(level)
	logger := slog.New(handler)

	client, err := cli.NewClient(cfg, logger)
	if err != nil {
		return err
	}
	store, err := cli.AttachSessionStore(client, cfg, logger)
	if err != nil {
		return err
	}

	program := tea.NewProgram(newModel(cfg.Endpoint), tea.WithAltScreen())
	handler.SetProgram(program)

	client.On(gateway.Wildcard, func(ctx context.Context, evt event.Event) error {
		seq, hasSeq := evt.Sequence()
		frame := string(evt.RawFrame())
		var compact bytes.Buffer
		if err := json.Compact(&compact, evt.RawFrame()); err == nil {
			frame = compact.String()
		}
		program.Send(eventMsg{
			eventType: evt.EventType(),
			seq:       seq,
			hasSeq:    hasSeq,
			frame:     frame,
			received:  time.Now(),
		})
		return nil
	})
	client.On("ready", func(ctx context.Context, evt event.Event) error {
		ready := evt.(*event.Ready)
		program.Send(connStateMsg{state: "connected", sessionID: ready.SessionID})
		return nil
	})
	client.On("resumed", func(ctx context.Context, evt event.Event) error {
		program.Send(connStateMsg{state: "resumed", sessionID: client.SessionID()})
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Drive the connection behind the TUI. When Run returns (signal,
	// auth failure, attempts exhausted), the dashboard quits itself.
	go func() {
		program.Send(gatewayStoppedMsg{err: client.Run(ctx)})
	}()

	finalModel, err := program.Run()
	client.Close()
	cli.SaveSessionSnapshot(store, client, cfg, logger)
	if err != nil {
		return err
	}

	if m, ok := finalModel.(model); ok && m.runErr != nil && !errors.Is(m.runErr, context.Canceled) {
		return m.runErr
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Vox event monitor — live terminal dashboard for a gateway stream.

Connects to the Vox gateway and shows every event as it arrives: a
scrolling feed of raw frames with timestamps and sequence numbers,
per-type counters, the events-per-minute rate, and the connection
state. Scroll with the arrow keys; G jumps back to the live tail.

Configuration comes from the YAML file named by $VOX_CONFIG or
--config; flags override file values.

Usage:
  vox-monitor [flags]

Examples:
  # Watch a gateway
  vox-monitor --endpoint wss://gateway.vox.im --token-file ~/.vox/token

  # Resume across restarts with compressed transport
  vox-monitor --compress zstd --session-dir ~/.vox/sessions

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
