// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/rs/zerolog"

	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/storage"
)

// Dispatch reduces actions into s in order.
func Dispatch(s state.AppState, actions ...state.Action) state.AppState {
	for _, act := range actions {
		s = state.Reduce(s, act)
	}
	return s
}

// Persister writes the selection and API key to the preferences store
// whenever they change.
type Persister struct {
	store *storage.Store
	last  storage.Preferences
	log   zerolog.Logger
}

// NewPersister starts from the preferences loaded at startup.
func NewPersister(store *storage.Store, loaded storage.Preferences, log zerolog.Logger) *Persister {
	return &Persister{store: store, last: loaded, log: log}
}

// Sync saves s's preferences if they differ from the last saved ones. It
// reports whether a write happened.
func (p *Persister) Sync(s state.AppState) (bool, error) {
	if p == nil || p.store == nil {
		return false, nil
	}
	next := storage.Preferences{APIKey: s.APIKey}.WithSelection(s.Selection)
	if next.SelectionKey() == p.last.SelectionKey() && next.APIKey == p.last.APIKey {
		return false, nil
	}
	if err := p.store.Save(next); err != nil {
		p.log.Error().Err(err).Msg("save preferences")
		return false, err
	}
	p.last = next
	return true, nil
}

// Observe records preferences that arrived from disk so Sync does not write
// them straight back.
func (p *Persister) Observe(prefs storage.Preferences) {
	if p != nil {
		p.last = prefs
	}
}
