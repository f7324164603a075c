// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vox.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ProtocolVersion != 1 {
		t.Errorf("expected protocol_version=1, got %d", cfg.ProtocolVersion)
	}
	if cfg.Backoff.Base != "1s" {
		t.Errorf("expected backoff.base=1s, got %s", cfg.Backoff.Base)
	}
	if cfg.Backoff.Max != "60s" {
		t.Errorf("expected backoff.max=60s, got %s", cfg.Backoff.Max)
	}
	if cfg.Backoff.MaxAttempts != 0 {
		t.Errorf("expected backoff.max_attempts=0, got %d", cfg.Backoff.MaxAttempts)
	}
	if cfg.Compression != "" {
		t.Errorf("expected no compression by default, got %s", cfg.Compression)
	}
}

func TestLoad_RequiresVoxConfig(t *testing.T) {
	t.Setenv("VOX_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when VOX_CONFIG not set, got nil")
	}

	expectedMsg := "VOX_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithVoxConfig(t *testing.T) {
	configPath := writeConfig(t, `
endpoint: wss://gateway.vox.test
token: vat_from_file
compression: zstd
`)
	t.Setenv("VOX_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Endpoint != "wss://gateway.vox.test" {
		t.Errorf("expected endpoint=wss://gateway.vox.test, got %s", cfg.Endpoint)
	}
	if cfg.Compression != "zstd" {
		t.Errorf("expected compression=zstd, got %s", cfg.Compression)
	}
}

func TestLoadFile(t *testing.T) {
	configPath := writeConfig(t, `
endpoint: https://vox.example/gateway

token: vat_secret

compression: lz4
protocol_version: 2

backoff:
  base: 500ms
  max: 2m
  max_attempts: 5

session_dir: /var/lib/vox/sessions
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Endpoint != "https://vox.example/gateway" {
		t.Errorf("expected endpoint=https://vox.example/gateway, got %s", cfg.Endpoint)
	}
	if cfg.Token != "vat_secret" {
		t.Errorf("expected token=vat_secret, got %s", cfg.Token)
	}
	if cfg.Compression != "lz4" {
		t.Errorf("expected compression=lz4, got %s", cfg.Compression)
	}
	if cfg.ProtocolVersion != 2 {
		t.Errorf("expected protocol_version=2, got %d", cfg.ProtocolVersion)
	}
	if cfg.Backoff.MaxAttempts != 5 {
		t.Errorf("expected max_attempts=5, got %d", cfg.Backoff.MaxAttempts)
	}
	if cfg.SessionDir != "/var/lib/vox/sessions" {
		t.Errorf("expected session_dir=/var/lib/vox/sessions, got %s", cfg.SessionDir)
	}

	base, err := cfg.Backoff.BaseDuration()
	if err != nil || base != 500*time.Millisecond {
		t.Errorf("BaseDuration() = %v, %v, want 500ms", base, err)
	}
	max, err := cfg.Backoff.MaxDuration()
	if err != nil || max != 2*time.Minute {
		t.Errorf("MaxDuration() = %v, %v, want 2m", max, err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing config file, got nil")
	}
}

func TestLoadFileKeepsDefaultsForOmittedFields(t *testing.T) {
	configPath := writeConfig(t, `
endpoint: wss://gateway.vox.test
token: vat_secret
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.ProtocolVersion != 1 {
		t.Errorf("expected default protocol_version=1, got %d", cfg.ProtocolVersion)
	}
	if cfg.Backoff.Base != "1s" {
		t.Errorf("expected default backoff.base=1s, got %s", cfg.Backoff.Base)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	// Environment variables must NOT override config file values; the
	// file is the single source of truth.
	t.Setenv("VOX_ENDPOINT", "wss://env.vox.test")
	t.Setenv("VOX_TOKEN", "vat_from_env")

	configPath := writeConfig(t, `
endpoint: wss://file.vox.test
token: vat_from_file
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Endpoint != "wss://file.vox.test" {
		t.Errorf("expected endpoint from file, got %s (env vars should not override)", cfg.Endpoint)
	}
	if cfg.Token != "vat_from_file" {
		t.Errorf("expected token from file, got %s (env vars should not override)", cfg.Token)
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := writeConfig(t, `
endpoint: wss://gateway.vox.test
token: vat_secret
token_file: ""
session_dir: ${HOME}/vox/sessions
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	want := filepath.Join(home, "vox", "sessions")
	if cfg.SessionDir != want {
		t.Errorf("expected session_dir=%s, got %s", want, cfg.SessionDir)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/vox",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/vox",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Endpoint = "wss://gateway.vox.test"
		cfg.Token = "vat_secret"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "missing endpoint",
			modify: func(c *Config) {
				c.Endpoint = ""
			},
			wantErr: true,
		},
		{
			name: "token and token_file both set",
			modify: func(c *Config) {
				c.TokenFile = "/etc/vox/token"
			},
			wantErr: true,
		},
		{
			name: "unknown compression",
			modify: func(c *Config) {
				c.Compression = "brotli"
			},
			wantErr: true,
		},
		{
			name: "zero protocol version",
			modify: func(c *Config) {
				c.ProtocolVersion = 0
			},
			wantErr: true,
		},
		{
			name: "unparseable backoff base",
			modify: func(c *Config) {
				c.Backoff.Base = "soon"
			},
			wantErr: true,
		},
		{
			name: "negative backoff max",
			modify: func(c *Config) {
				c.Backoff.Max = "-5s"
			},
			wantErr: true,
		},
		{
			name: "negative max attempts",
			modify: func(c *Config) {
				c.Backoff.MaxAttempts = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveTokenInline(t *testing.T) {
	cfg := Default()
	cfg.Token = "vat_inline"

	token, err := cfg.ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "vat_inline" {
		t.Errorf("expected token=vat_inline, got %s", token)
	}
}

func TestResolveTokenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  vat_file_token\n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	cfg := Default()
	cfg.TokenFile = path

	token, err := cfg.ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken failed: %v", err)
	}
	if token != "vat_file_token" {
		t.Errorf("expected trimmed token=vat_file_token, got %q", token)
	}
}

func TestResolveTokenErrors(t *testing.T) {
	emptyFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(emptyFile, []byte("\n  \n"), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "nothing configured",
			modify: func(c *Config) {},
		},
		{
			name: "both inline and file",
			modify: func(c *Config) {
				c.Token = "vat_inline"
				c.TokenFile = emptyFile
			},
		},
		{
			name: "missing file",
			modify: func(c *Config) {
				c.TokenFile = filepath.Join(t.TempDir(), "absent")
			},
		},
		{
			name: "empty file",
			modify: func(c *Config) {
				c.TokenFile = emptyFile
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			if _, err := cfg.ResolveToken(); err == nil {
				t.Error("expected ResolveToken to fail, got nil error")
			}
		})
	}
}
