// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package state

import (
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/modal"
	"github.com/jeranaias/docsnav/internal/nav"
)

// Action is an event the reducer applies.
type Action interface {
	isAction()
}

// =============================================================================
// REQUEST COMPLETIONS
// =============================================================================

// CatalogLoaded replaces the catalog wholesale.
type CatalogLoaded struct{ Docs []model.Document }

// DocumentDeleted removes one entry after a successful delete.
type DocumentDeleted struct{ Key model.DocumentKey }

// ConversationsLoaded replaces the conversation list.
type ConversationsLoaded struct{ Conversations []model.Conversation }

// ConversationLoaded makes a fetched conversation active.
type ConversationLoaded struct {
	ID     string
	Detail *model.ConversationDetail
}

// ConversationRenamed reports the truthiness of the rename response. On
// success the navigation context resets; the list refetch is issued by the
// caller.
type ConversationRenamed struct{ OK bool }

// UploadProgress updates the upload status line.
type UploadProgress struct{ Status string }

// RequestFailed records a caught failure for the status line.
type RequestFailed struct {
	Op  string
	Err error
}

// PreferencesReloaded applies preferences changed on disk by another process.
type PreferencesReloaded struct {
	Selection model.DocumentKey
	APIKey    string
}

// =============================================================================
// USER EVENTS
// =============================================================================

// SelectDocument overwrites the selection from the documents dropdown.
type SelectDocument struct{ Key model.DocumentKey }

// ToggleDocsList opens or collapses the documents dropdown.
type ToggleDocsList struct{}

// NewChat clears the active conversation.
type NewChat struct{}

// ShowView switches the main pane.
type ShowView struct{ View View }

// OpenModal shows a dialog.
type OpenModal struct{ Kind modal.Kind }

// CancelModal dismisses a dialog if it is cancellable.
type CancelModal struct{ Kind modal.Kind }

// PickPending sets the selection dialog's local choice.
type PickPending struct{ Key model.DocumentKey }

// SubmitSelection commits the selection dialog.
type SubmitSelection struct{}

// EditAPIKey updates the API key dialog input.
type EditAPIKey struct{ Value string }

// SubmitAPIKey commits the API key dialog.
type SubmitAPIKey struct{}

// EditUpload updates the upload dialog form.
type EditUpload struct{ Path, Name string }

// SubmitUpload commits the upload dialog. The upload itself is an effect.
type SubmitUpload struct{}

// Resize reports the viewport class after a terminal resize.
type Resize struct{ Class nav.Class }

// ToggleNav flips the sidebar.
type ToggleNav struct{}

// OutsideClick is a pointer press outside the sidebar.
type OutsideClick struct{}

func (CatalogLoaded) isAction()       {}
func (DocumentDeleted) isAction()     {}
func (ConversationsLoaded) isAction() {}
func (ConversationLoaded) isAction()  {}
func (ConversationRenamed) isAction() {}
func (UploadProgress) isAction()      {}
func (RequestFailed) isAction()       {}
func (PreferencesReloaded) isAction() {}
func (SelectDocument) isAction()      {}
func (ToggleDocsList) isAction()      {}
func (NewChat) isAction()             {}
func (ShowView) isAction()            {}
func (OpenModal) isAction()           {}
func (CancelModal) isAction()         {}
func (PickPending) isAction()         {}
func (SubmitSelection) isAction()     {}
func (EditAPIKey) isAction()          {}
func (SubmitAPIKey) isAction()        {}
func (EditUpload) isAction()          {}
func (SubmitUpload) isAction()        {}
func (Resize) isAction()              {}
func (ToggleNav) isAction()           {}
func (OutsideClick) isAction()        {}
