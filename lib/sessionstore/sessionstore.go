// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/vox-im/vox-go/lib/codec"
)

// Snapshot is the resumable state of one gateway session.
type Snapshot struct {
	// Endpoint is the normalized gateway URL the session belongs to.
	Endpoint string `cbor:"endpoint"`
	// SessionID is the identifier the gateway assigned in the ready
	// event.
	SessionID string `cbor:"session_id"`
	// LastSequence is the highest event sequence number the client
	// observed before the snapshot was taken.
	LastSequence int64 `cbor:"last_seq"`
	// SavedAt is when the snapshot was written. Informational only;
	// the store never rejects a snapshot for age.
	SavedAt time.Time `cbor:"saved_at"`
}

// endpointKey is the BLAKE3 key for hashing endpoint URLs into file
// names. The key provides domain separation from any other BLAKE3 use;
// its bytes are the ASCII domain name zero-padded to the required 32
// bytes.
var endpointKey = [32]byte{
	'v', 'o', 'x', '.', 's', 'e', 's', 's', 'i', 'o', 'n', '.',
	'e', 'n', 'd', 'p', 'o', 'i', 'n', 't',
}

// Store persists session snapshots under a directory, one file per
// endpoint.
type Store struct {
	dir string
}

// New returns a store rooted at dir. The directory is created on the
// first save, not here, so constructing a store is side-effect free.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file the snapshot for endpoint is kept in.
func (s *Store) Path(endpoint string) string {
	return filepath.Join(s.dir, fileName(endpoint))
}

// fileName derives a fixed-width file name from an endpoint URL. Keyed
// hashing keeps the URL itself (which may embed deployment details)
// out of directory listings.
func fileName(endpoint string) string {
	hasher, err := blake3.NewKeyed(endpointKey[:])
	if err != nil {
		panic("sessionstore: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(endpoint))
	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest[:8]) + ".session"
}

// Save writes snapshot to the store, replacing any previous snapshot
// for the same endpoint. The write is atomic: the snapshot is written
// to a temporary file, synced, and renamed into place, so a reader
// never observes a partial snapshot and a crash mid-save leaves the
// previous one intact.
func (s *Store) Save(snapshot Snapshot) error {
	if snapshot.Endpoint == "" {
		return errors.New("sessionstore: snapshot endpoint is empty")
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating session store directory: %w", err)
	}

	data, err := codec.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshaling session snapshot: %w", err)
	}

	path := s.Path(snapshot.Endpoint)
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}

	// Sync the directory so the rename itself survives a power
	// failure. Best effort: some filesystems reject directory syncs.
	if dir, err := os.Open(s.dir); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}

// Load reads the snapshot for endpoint. A missing snapshot is a normal
// condition reported as ok=false with a nil error; an unreadable or
// undecodable snapshot is an error.
func (s *Store) Load(endpoint string) (Snapshot, bool, error) {
	data, err := os.ReadFile(s.Path(endpoint))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("reading session snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := codec.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("parsing session snapshot: %w", err)
	}
	return snapshot, true, nil
}

// Clear removes the snapshot for endpoint, if one exists. Clearing an
// endpoint that has no snapshot is not an error.
func (s *Store) Clear(endpoint string) error {
	if err := os.Remove(s.Path(endpoint)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session snapshot: %w", err)
	}
	return nil
}
