// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events an atomic rename produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to the preferences file made by other docsnav
// processes.
//
// The parent directory is watched rather than the file: atomic writes replace
// the file by rename, which drops a watch on the old inode.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      zerolog.Logger
	changes  chan Preferences
}

// NewWatcher starts watching the directory of store's file.
func NewWatcher(store *Store, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		fw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		log:      log.With().Str("component", "prefs-watcher").Logger(),
		changes:  make(chan Preferences, 1),
	}, nil
}

// Changes delivers freshly loaded preferences after each settled change.
func (w *Watcher) Changes() <-chan Preferences {
	return w.changes
}

// Run processes events until ctx is done, then closes the watcher and the
// Changes channel.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)
	defer w.watcher.Close()

	target := filepath.Clean(w.store.Path())
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			prefs, err := w.store.Load()
			if err != nil {
				w.log.Warn().Err(err).Msg("reload preferences")
				continue
			}
			// Keep only the newest snapshot if the consumer lags.
			select {
			case <-w.changes:
			default:
			}
			w.changes <- prefs

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}
