// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/vox-im/vox-go/event"
	"github.com/vox-im/vox-go/gateway"
	"github.com/vox-im/vox-go/lib/config"
	"github.com/vox-im/vox-go/lib/sessionstore"
)

// AttachSessionStore wires session persistence into a client before it
// runs: a saved snapshot for the configured endpoint is restored so the
// first connect attempts a resume, and every ready refreshes the
// snapshot on disk. Returns the store for a final save at shutdown, or
// nil when the config has no session directory.
//
// An unreadable snapshot is logged and ignored; it must not keep the
// tool from connecting fresh.
func AttachSessionStore(client *gateway.Client, cfg *config.Config, logger *slog.Logger) (*sessionstore.Store, error) {
	if cfg.SessionDir == "" {
		return nil, nil
	}

	store := sessionstore.New(cfg.SessionDir)
	snapshot, ok, err := store.Load(cfg.Endpoint)
	if err != nil {
		logger.Warn("discarding unreadable session snapshot", "error", err)
		if err := store.Clear(cfg.Endpoint); err != nil {
			logger.Warn("removing unreadable session snapshot failed", "error", err)
		}
	} else if ok {
		if err := client.RestoreSession(snapshot.SessionID, snapshot.LastSequence); err != nil {
			return nil, err
		}
		logger.Info("resuming saved session",
			"session_id", snapshot.SessionID,
			"last_seq", snapshot.LastSequence)
	}

	client.On("ready", func(ctx context.Context, evt event.Event) error {
		ready := evt.(*event.Ready)
		return store.Save(sessionstore.Snapshot{
			Endpoint:     cfg.Endpoint,
			SessionID:    ready.SessionID,
			LastSequence: client.LastSequence(),
			SavedAt:      time.Now(),
		})
	})

	return store, nil
}

// SaveSessionSnapshot persists the client's current session cursor.
// Call at shutdown so the next invocation resumes where this one
// stopped. A nil store or a client without an established session is a
// no-op.
func SaveSessionSnapshot(store *sessionstore.Store, client *gateway.Client, cfg *config.Config, logger *slog.Logger) {
	if store == nil || client.SessionID() == "" {
		return
	}
	if err := store.Save(sessionstore.Snapshot{
		Endpoint:     cfg.Endpoint,
		SessionID:    client.SessionID(),
		LastSequence: client.LastSequence(),
		SavedAt:      time.Now(),
	}); err != nil {
		logger.Warn("saving session snapshot failed", "error", err)
	}
}
