// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/security"
)

var keyA = model.DocumentKey{Name: "A", Version: "1", Location: model.LocationLocal}

func TestLoad_MissingFile(t *testing.T) {
	store := NewStoreInDir(t.TempDir(), nil)
	prefs, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, prefs.Selection)
	assert.Empty(t, prefs.APIKey)
}

func TestSaveLoad_Plain(t *testing.T) {
	store := NewStoreInDir(t.TempDir(), nil)
	require.NoError(t, store.Save(Preferences{APIKey: "k"}.WithSelection(keyA)))

	prefs, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, keyA, prefs.SelectionKey())
	assert.Equal(t, "k", prefs.APIKey)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSave_SealsAPIKey(t *testing.T) {
	dir := t.TempDir()
	sealer, err := security.NewKeyFileSealer(filepath.Join(dir, "master.key"))
	require.NoError(t, err)

	store := NewStoreInDir(dir, sealer)
	require.NoError(t, store.Save(Preferences{APIKey: "sk-very-secret"}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-very-secret")
	assert.Contains(t, string(raw), security.EncryptedPrefix)

	prefs, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-very-secret", prefs.APIKey)
}

func TestWithSelection_ZeroClears(t *testing.T) {
	p := Preferences{}.WithSelection(keyA).WithSelection(model.DocumentKey{})
	assert.Nil(t, p.Selection)
	assert.True(t, p.SelectionKey().IsZero())
}

func TestLoad_Corrupt(t *testing.T) {
	store := NewStoreInDir(t.TempDir(), nil)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{nope"), 0600))
	_, err := store.Load()
	assert.Error(t, err)
}

func TestLoad_WrongKeyDropsAPIKey(t *testing.T) {
	dir := t.TempDir()
	writer, err := security.NewKeyFileSealer(filepath.Join(dir, "master.key"))
	require.NoError(t, err)
	require.NoError(t, NewStoreInDir(dir, writer).Save(Preferences{APIKey: "sk-very-secret"}.WithSelection(keyA)))

	reader, err := security.NewKeyFileSealer(filepath.Join(t.TempDir(), "master.key"))
	require.NoError(t, err)

	prefs, err := NewStoreInDir(dir, reader).Load()
	require.Error(t, err)
	assert.Empty(t, prefs.APIKey)
	assert.False(t, strings.HasPrefix(prefs.APIKey, security.EncryptedPrefix))
	assert.Equal(t, keyA, prefs.SelectionKey())
}

func TestWatcher_ReportsExternalWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreInDir(dir, nil)

	w, err := NewWatcher(store, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	other := NewStoreInDir(dir, nil)
	require.NoError(t, other.Save(Preferences{}.WithSelection(keyA)))

	select {
	case prefs := <-w.Changes():
		assert.Equal(t, keyA, prefs.SelectionKey())
	case <-time.After(3 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreInDir(dir, nil)

	w, err := NewWatcher(store, 20*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte(strings.Repeat("x", 10)), 0600))

	select {
	case <-w.Changes():
		t.Fatal("unexpected change")
	case <-time.After(200 * time.Millisecond):
	}
}
