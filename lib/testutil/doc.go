// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Vox packages.
//
// [RequireReceive], [RequireSend], and [RequireClosed] encapsulate the
// timeout safety valve pattern (select with time.After fallback) so
// that individual tests do not need direct time.After calls. These are
// the only place in the test suite where real wall-clock timeouts are
// used; everything else injects a fake clock.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no Vox-internal dependencies.
package testutil
