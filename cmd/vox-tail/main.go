// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// vox-tail streams gateway events to stdout, one JSON frame per line.
//
// Events print exactly as the gateway sent them (compacted to a single
// line), so the output pipes cleanly into jq, grep, or a file. Use
// --types or a --filter-file to narrow the stream to the event types
// you care about. With --session-dir the tool saves its session cursor
// on exit and resumes from it next time, replaying the events missed
// in between.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

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
	var types []string
	var filterFile string
	var noColor bool

	flagSet := pflag.NewFlagSet("vox-tail", pflag.ContinueOnError)
	connection.AddFlags(flagSet)
	flagSet.StringSliceVar(&types, "types", nil, "event type globs to print (e.g. 'message_*')")
	flagSet.StringVar(&filterFile, "filter-file", "", "JSONC file with include/exclude type globs")
	flagSet.BoolVar(&noColor, "no-color", false, "disable syntax highlighting")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other Vox binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("vox-tail")
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
	logger, err := cli.NewLogger(connection.LogLevel)
	if err != nil {
		return err
	}
	client, err := cli.NewClient(cfg, logger)
	if err != nil {
		return err
	}

	filter, err := buildFilter(types, filterFile)
	if err != nil {
		return err
	}
	out := &printer{out: os.Stdout, color: colorEnabled(noColor)}

	client.On(gateway.Wildcard, func(ctx context.Context, evt event.Event) error {
		if !filter.allow(evt.EventType()) {
			return nil
		}
		return out.print(evt.RawFrame())
	})

	store, err := cli.AttachSessionStore(client, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("connecting to gateway", "endpoint", cfg.Endpoint)
	err = client.Run(ctx)
	cli.SaveSessionSnapshot(store, client, cfg, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// colorEnabled decides whether to highlight output: never when
// --no-color is set or stdout is not a terminal, and only when the
// terminal advertises color support.
func colorEnabled(noColor bool) bool {
	if noColor {
		return false
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Vox event tail — stream gateway events to stdout as JSON lines.

Connects to the Vox gateway, subscribes to the event stream, and
prints every event as a single JSON line. Filter the stream with
--types (glob patterns) or a JSONC --filter-file with include and
exclude lists; exclude wins over include.

Configuration comes from the YAML file named by $VOX_CONFIG or
--config; flags override file values.

Usage:
  vox-tail [flags]

Examples:
  # Stream everything
  vox-tail --endpoint wss://gateway.vox.im --token-file ~/.vox/token

  # Only message events, resuming across restarts
  vox-tail --types 'message_*' --session-dir ~/.vox/sessions

  # Compressed transport with a reusable filter file
  vox-tail --compress zstd --filter-file filters.jsonc

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
