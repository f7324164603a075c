// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by the Vox command-line tools.
type Config struct {
	// Endpoint is the gateway URL to connect to. http(s) schemes are
	// accepted and rewritten to ws(s) by the client.
	Endpoint string `yaml:"endpoint"`

	// Token is the authentication token, inline. Mutually exclusive
	// with TokenFile.
	Token string `yaml:"token"`

	// TokenFile is a path to a file holding the authentication token.
	// Surrounding whitespace in the file is ignored.
	TokenFile string `yaml:"token_file"`

	// Compression names the payload codec to request from the gateway.
	// Empty means uncompressed JSON; "zstd" and "lz4" are supported.
	Compression string `yaml:"compression"`

	// ProtocolVersion is the gateway protocol version to identify
	// with. Default: 1.
	ProtocolVersion int `yaml:"protocol_version"`

	// Backoff tunes the reconnect schedule.
	Backoff BackoffConfig `yaml:"backoff"`

	// SessionDir is the directory session snapshots are kept in so a
	// restarted tool can resume instead of identifying from scratch.
	// Empty disables session persistence.
	SessionDir string `yaml:"session_dir"`
}

// BackoffConfig tunes the delay between reconnect attempts.
type BackoffConfig struct {
	// Base is the delay before the first reconnect, as a duration
	// string. Each further failure doubles it. Default: 1s.
	Base string `yaml:"base"`

	// Max caps the doubled delay, as a duration string. Default: 60s.
	Max string `yaml:"max"`

	// MaxAttempts gives up after this many consecutive failed
	// attempts. 0 retries forever.
	MaxAttempts int `yaml:"max_attempts"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file; the endpoint and token
// still have to come from the file or from flags.
func Default() *Config {
	return &Config{
		ProtocolVersion: 1,
		Backoff: BackoffConfig{
			Base: "1s",
			Max:  "60s",
		},
	}
}

// Load loads configuration from the VOX_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if VOX_CONFIG is not set, this
// fails. This ensures deterministic, auditable configuration with no
// hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("VOX_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("VOX_CONFIG environment variable not set; " +
			"set it to the path of your vox.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values. The only expansion performed is
// ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.TokenFile = expandVars(c.TokenFile, vars)
	c.SessionDir = expandVars(c.SessionDir, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// compressionNames are the codecs the client can request.
var compressionNames = []string{"", "zstd", "lz4"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Endpoint == "" {
		errs = append(errs, fmt.Errorf("endpoint is required"))
	}

	if c.Token != "" && c.TokenFile != "" {
		errs = append(errs, fmt.Errorf("token and token_file are mutually exclusive"))
	}

	if !contains(compressionNames, c.Compression) {
		errs = append(errs, fmt.Errorf("compression must be one of: %v", compressionNames[1:]))
	}

	if c.ProtocolVersion < 1 {
		errs = append(errs, fmt.Errorf("protocol_version must be at least 1"))
	}

	if _, err := c.Backoff.BaseDuration(); err != nil {
		errs = append(errs, fmt.Errorf("backoff.base: %w", err))
	}
	if _, err := c.Backoff.MaxDuration(); err != nil {
		errs = append(errs, fmt.Errorf("backoff.max: %w", err))
	}
	if c.Backoff.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("backoff.max_attempts must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ResolveToken returns the authentication token, reading TokenFile if
// the token is not inline.
func (c *Config) ResolveToken() (string, error) {
	if c.Token != "" && c.TokenFile != "" {
		return "", fmt.Errorf("token and token_file are mutually exclusive")
	}
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", fmt.Errorf("no token configured; set token, token_file, or --token")
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", c.TokenFile, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", c.TokenFile)
	}
	return token, nil
}

// BaseDuration parses the Base field. Empty means the 1s default.
func (b BackoffConfig) BaseDuration() (time.Duration, error) {
	return parseDuration(b.Base, time.Second)
}

// MaxDuration parses the Max field. Empty means the 60s default.
func (b BackoffConfig) MaxDuration() (time.Duration, error) {
	return parseDuration(b.Max, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %s must be positive", s)
	}
	return d, nil
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
