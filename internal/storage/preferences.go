// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/util"
)

// FileName is the preferences file inside the config directory.
const FileName = "preferences.json"

// =============================================================================
// PREFERENCES
// =============================================================================

// Preferences is what survives a restart.
type Preferences struct {
	// Selection is the selected document key, nil when nothing is selected.
	Selection *model.DocumentKey `json:"selection,omitempty"`
	// APIKey is the user's key in clear text. It is sealed on disk.
	APIKey string `json:"-"`
}

// SelectionKey returns the selection or the zero key.
func (p Preferences) SelectionKey() model.DocumentKey {
	if p.Selection == nil {
		return model.DocumentKey{}
	}
	return *p.Selection
}

// WithSelection returns p with key stored (or cleared for the zero key).
func (p Preferences) WithSelection(key model.DocumentKey) Preferences {
	if key.IsZero() {
		p.Selection = nil
		return p
	}
	k := key
	p.Selection = &k
	return p
}

// onDisk is the serialized form.
type onDisk struct {
	Version   int                `json:"version"`
	Selection *model.DocumentKey `json:"selection,omitempty"`
	APIKey    string             `json:"api_key,omitempty"`
}

const currentVersion = 1

// =============================================================================
// STORE
// =============================================================================

// Sealer protects the API key at rest. See internal/security.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

// Store reads and writes the preferences file.
type Store struct {
	mu     sync.Mutex
	path   string
	sealer Sealer
}

// NewStore creates a store for the file at path. A nil sealer stores the key
// in clear text.
func NewStore(path string, sealer Sealer) *Store {
	return &Store{path: path, sealer: sealer}
}

// NewStoreInDir creates a store for FileName inside dir.
func NewStoreInDir(dir string, sealer Sealer) *Store {
	return NewStore(filepath.Join(dir, FileName), sealer)
}

// Path returns the preferences file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the preferences. A missing file yields empty preferences.
func (s *Store) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Preferences{}, nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	var disk onDisk
	if err := json.Unmarshal(data, &disk); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}

	prefs := Preferences{Selection: disk.Selection}
	if disk.Selection != nil && disk.Selection.IsZero() {
		prefs.Selection = nil
	}

	prefs.APIKey = disk.APIKey
	if s.sealer != nil && disk.APIKey != "" {
		key, err := s.sealer.Open(disk.APIKey)
		if err != nil {
			// The selection is still usable; the ciphertext is not a key.
			prefs.APIKey = ""
			return prefs, fmt.Errorf("failed to decrypt api key: %w", err)
		}
		prefs.APIKey = key
	}
	return prefs, nil
}

// Save writes prefs atomically with 0600 permissions.
func (s *Store) Save(prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	disk := onDisk{Version: currentVersion, Selection: prefs.Selection, APIKey: prefs.APIKey}
	if s.sealer != nil && prefs.APIKey != "" {
		sealed, err := s.sealer.Seal(prefs.APIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt api key: %w", err)
		}
		disk.APIKey = sealed
	}

	data, err := json.MarshalIndent(disk, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
