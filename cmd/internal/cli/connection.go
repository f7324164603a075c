// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vox-im/vox-go/gateway"
	"github.com/vox-im/vox-go/lib/config"
	"github.com/vox-im/vox-go/lib/wirecodec"
)

// Connection holds the flags every Vox tool uses to reach a gateway.
type Connection struct {
	ConfigPath string
	Endpoint   string
	Token      string
	TokenFile  string
	Compress   string
	SessionDir string
	LogLevel   string

	flagSet *pflag.FlagSet
}

// AddFlags binds the shared connection flags to flagSet.
func (c *Connection) AddFlags(flagSet *pflag.FlagSet) {
	c.flagSet = flagSet
	flagSet.StringVar(&c.ConfigPath, "config", "", "path to YAML config file (default: $VOX_CONFIG)")
	flagSet.StringVar(&c.Endpoint, "endpoint", "", "gateway URL, ws(s) or http(s) (overrides config)")
	flagSet.StringVar(&c.Token, "token", "", "authentication token (overrides config)")
	flagSet.StringVar(&c.TokenFile, "token-file", "", "file holding the authentication token (overrides config)")
	flagSet.StringVar(&c.Compress, "compress", "", "payload compression: zstd or lz4 (overrides config)")
	flagSet.StringVar(&c.SessionDir, "session-dir", "", "directory for session snapshots (overrides config)")
	flagSet.StringVar(&c.LogLevel, "log-level", "info", "log level: debug, info, warn, or error")
}

func (c *Connection) changed(name string) bool {
	return c.flagSet != nil && c.flagSet.Changed(name)
}

// ResolveConfig merges the config file (if any) with the flag
// overrides and validates the result. Flags win over file values; a
// --token or --token-file override displaces the other token source so
// the two never conflict.
func (c *Connection) ResolveConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case c.ConfigPath != "":
		cfg, err = config.LoadFile(c.ConfigPath)
	case os.Getenv("VOX_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}

	if c.changed("endpoint") {
		cfg.Endpoint = c.Endpoint
	}
	if c.changed("token") {
		cfg.Token = c.Token
		cfg.TokenFile = ""
	}
	if c.changed("token-file") {
		cfg.TokenFile = c.TokenFile
		cfg.Token = ""
	}
	if c.changed("compress") {
		cfg.Compression = c.Compress
	}
	if c.changed("session-dir") {
		cfg.SessionDir = c.SessionDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewClient builds a gateway client from resolved configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) (*gateway.Client, error) {
	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, err
	}

	var codec wirecodec.Codec
	if cfg.Compression != "" {
		named, ok := wirecodec.ForName(cfg.Compression)
		if !ok {
			return nil, fmt.Errorf("unknown compression codec %q (supported: %s)",
				cfg.Compression, strings.Join(wirecodec.Names(), ", "))
		}
		codec = named
	}

	// Validate vetted the duration strings already.
	backoffBase, _ := cfg.Backoff.BaseDuration()
	backoffMax, _ := cfg.Backoff.MaxDuration()

	return gateway.New(gateway.Config{
		Endpoint:             cfg.Endpoint,
		Token:                token,
		ProtocolVersion:      cfg.ProtocolVersion,
		Codec:                codec,
		Logger:               logger,
		BackoffBase:          backoffBase,
		BackoffMax:           backoffMax,
		MaxReconnectAttempts: cfg.Backoff.MaxAttempts,
	})
}
