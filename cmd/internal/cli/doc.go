// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli carries the plumbing shared by the Vox command-line
// tools: the gateway connection flags, config resolution with
// flag-over-file precedence, client construction, logger setup, and
// session snapshot wiring.
//
// Each tool creates a [Connection], binds it to its flag set with
// [Connection.AddFlags], and calls [Connection.ResolveConfig] after
// parsing. The resolved [config.Config] is the single place connection
// parameters live; flags never bypass it.
package cli
