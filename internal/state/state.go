// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state holds the typed application state and the pure reducer that
// every UI event and request completion goes through.
//
// Nothing in this package performs I/O. Effects live in internal/app and
// report back with actions.
package state

import (
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/modal"
	"github.com/jeranaias/docsnav/internal/nav"
)

// View is the main pane route.
type View int

const (
	ViewHome View = iota
	ViewAbout
)

// String returns the route name.
func (v View) String() string {
	if v == ViewAbout {
		return "about"
	}
	return "home"
}

// =============================================================================
// APP STATE
// =============================================================================

// AppState is the complete navigation state.
type AppState struct {
	// Catalog is the cached document listing. Nil means not loaded yet.
	Catalog []model.Document

	// Selection refers to a catalog entry by key. It is resolved against the
	// live catalog and cleared once the entry disappears.
	Selection model.DocumentKey

	// Conversations is the remote list in backend order. Nil means absent,
	// which triggers a fetch.
	Conversations []model.Conversation

	// ConversationID is the conversation-context key used by the chat pane.
	ConversationID string
	// Active is the loaded conversation, if any.
	Active *model.ConversationDetail

	Modals       modal.Set
	Nav          nav.Shell
	DocsListOpen bool
	View         View

	APIKey         string
	EmbeddingsName string

	// Dialog form state.
	Pending    model.DocumentKey
	KeyInput   string
	UploadPath string
	UploadName string

	// UploadStatus is the last upload progress line ("" when idle).
	UploadStatus string

	// LastError is a one-line diagnostic for the status bar.
	LastError string
}

// Init are the values known before the first frame.
type Init struct {
	Selection      model.DocumentKey
	APIKey         string
	EmbeddingsName string
	Class          nav.Class
}

// New returns the startup state.
func New(in Init) AppState {
	s := AppState{
		Selection:      in.Selection,
		APIKey:         in.APIKey,
		EmbeddingsName: in.EmbeddingsName,
		Modals:         modal.Initial(!in.Selection.IsZero()),
		Nav:            nav.Mount(in.Class),
		View:           ViewHome,
	}
	s.Pending = s.Selection
	return s
}

// SelectionSet reports whether a document is selected.
func (s AppState) SelectionSet() bool {
	return !s.Selection.IsZero()
}

// KeySet reports whether an API key is stored.
func (s AppState) KeySet() bool {
	return s.APIKey != ""
}

// CatalogLoaded reports whether the catalog has been fetched at least once.
func (s AppState) CatalogLoaded() bool {
	return s.Catalog != nil
}

// SelectedDocument resolves the selection against the catalog.
func (s AppState) SelectedDocument() (model.Document, bool) {
	if !s.SelectionSet() {
		return model.Document{}, false
	}
	return model.FindDocument(s.Catalog, s.Selection)
}

// Cancellable reports whether the dialog of kind k may be dismissed now.
func (s AppState) Cancellable(k modal.Kind) bool {
	return modal.Cancellable(k, modal.Context{KeySet: s.KeySet(), SelectionSet: s.SelectionSet()})
}
