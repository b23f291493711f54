// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
)

// Intent is what a component asks the root model to do after a key press or
// click. Components never call the backend themselves.
type Intent interface {
	isIntent()
}

// Dispatch reduces actions into the application state.
type Dispatch struct{ Actions []state.Action }

// LoadConversation opens a conversation.
type LoadConversation struct{ ID string }

// RenameConversation renames a conversation.
type RenameConversation struct{ ID, Name string }

// DeleteConversation deletes a conversation.
type DeleteConversation struct{ ID string }

// DeleteDocument deletes a local document index.
type DeleteDocument struct{ Doc model.Document }

// StartUpload is emitted after the upload dialog was submitted with a valid
// form. The root model checks the reduced dialog state before starting.
type StartUpload struct{}

// OpenLink opens an external link.
type OpenLink struct{ Link nav.Link }

func (Dispatch) isIntent()           {}
func (LoadConversation) isIntent()   {}
func (RenameConversation) isIntent() {}
func (DeleteConversation) isIntent() {}
func (DeleteDocument) isIntent()     {}
func (StartUpload) isIntent()        {}
func (OpenLink) isIntent()           {}

func dispatch(actions ...state.Action) Intent {
	return Dispatch{Actions: actions}
}
