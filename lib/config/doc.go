// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the Vox
// command-line tools.
//
// Configuration is loaded from a single file specified by either the
// VOX_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// The token may be given inline (token) or as a file path
// (token_file); [Config.ResolveToken] performs the file read and
// rejects ambiguous configurations that set both. Variable expansion
// is performed on path fields after loading: ${HOME} and
// ${VAR:-default} patterns are expanded. No other environment
// variables override config values.
//
// Key exports:
//
//   - [Config] -- endpoint, token, compression, backoff, session_dir
//   - [Default] -- returns a Config with the client defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other Vox packages.
package config
