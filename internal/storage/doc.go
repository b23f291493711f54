// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists user preferences: the selected document and the
// API key.
//
// # Storage Location
//
// Preferences live in ~/.docsnav/preferences.json, written atomically with
// 0600 permissions. The API key is sealed with internal/security before it
// touches disk.
//
// # Key Types
//
//   - Store: Load and Save of Preferences
//   - Watcher: fsnotify-based reload when another process writes the file
//
// # Usage
//
//	store := storage.NewStoreInDir(dir, sealer)
//	prefs, err := store.Load()
//	prefs = prefs.WithSelection(doc.Key())
//	err = store.Save(prefs)
package storage
