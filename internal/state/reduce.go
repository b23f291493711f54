// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package state

import (
	"strings"

	"github.com/jeranaias/docsnav/internal/catalog"
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/modal"
)

// Reduce applies a to s and returns the new state. It never performs I/O and
// never mutates slices reachable from s.
func Reduce(s AppState, a Action) AppState {
	switch a := a.(type) {

	// -------------------------------------------------------------------------
	// Request completions
	// -------------------------------------------------------------------------

	case CatalogLoaded:
		docs := a.Docs
		if docs == nil {
			docs = []model.Document{}
		}
		s.Catalog = docs
		s.LastError = ""
		return resolveSelection(s)

	case DocumentDeleted:
		if s.Catalog != nil {
			s.Catalog = catalog.Remove(s.Catalog, a.Key)
		}
		return resolveSelection(s)

	case ConversationsLoaded:
		convs := a.Conversations
		if convs == nil {
			convs = []model.Conversation{}
		}
		s.Conversations = convs
		return s

	case ConversationLoaded:
		s.Active = a.Detail
		s.ConversationID = a.ID
		s.View = ViewHome
		return s

	case ConversationRenamed:
		if !a.OK {
			return s
		}
		s.ConversationID = ""
		s.Active = nil
		s.View = ViewHome
		return s

	case UploadProgress:
		s.UploadStatus = a.Status
		return s

	case RequestFailed:
		if a.Err != nil {
			s.LastError = a.Op + ": " + a.Err.Error()
		}
		return s

	case PreferencesReloaded:
		s.APIKey = a.APIKey
		if a.Selection != s.Selection {
			s.Selection = a.Selection
			if s.SelectionSet() {
				s.Modals = s.Modals.With(modal.SelectDocs, s.Modals.SelectDocs.Close())
			} else {
				s.Modals = s.Modals.With(modal.SelectDocs, s.Modals.SelectDocs.Open())
			}
		}
		return resolveSelection(s)

	// -------------------------------------------------------------------------
	// Documents
	// -------------------------------------------------------------------------

	case SelectDocument:
		s.Selection = a.Key
		s.DocsListOpen = false
		return s

	case ToggleDocsList:
		s.DocsListOpen = !s.DocsListOpen
		return s

	// -------------------------------------------------------------------------
	// Conversations and routing
	// -------------------------------------------------------------------------

	case NewChat:
		s.Active = nil
		s.ConversationID = ""
		s.View = ViewHome
		return s

	case ShowView:
		s.View = a.View
		return s

	// -------------------------------------------------------------------------
	// Dialogs
	// -------------------------------------------------------------------------

	case OpenModal:
		switch a.Kind {
		case modal.SelectDocs:
			s.Pending = s.Selection
		case modal.APIKey:
			s.KeyInput = ""
		case modal.Upload:
			s.UploadPath, s.UploadName = "", ""
		}
		s.Modals = s.Modals.With(a.Kind, s.Modals.Get(a.Kind).Open())
		return s

	case CancelModal:
		s.Modals = s.Modals.With(a.Kind, s.Modals.Get(a.Kind).Cancel(s.Cancellable(a.Kind)))
		return s

	case PickPending:
		s.Pending = a.Key
		return s

	case SubmitSelection:
		valid := !s.Pending.IsZero()
		s.Modals = s.Modals.With(modal.SelectDocs, s.Modals.SelectDocs.Submit(valid))
		if valid {
			s.Selection = s.Pending
		}
		return s

	case EditAPIKey:
		s.KeyInput = a.Value
		return s

	case SubmitAPIKey:
		valid := modal.ValidAPIKey(s.KeyInput)
		s.Modals = s.Modals.With(modal.APIKey, s.Modals.APIKey.Submit(valid))
		if valid {
			s.APIKey = strings.TrimSpace(s.KeyInput)
			s.KeyInput = ""
		}
		return s

	case EditUpload:
		s.UploadPath, s.UploadName = a.Path, a.Name
		return s

	case SubmitUpload:
		valid := modal.ValidUpload(s.UploadPath, s.UploadName)
		s.Modals = s.Modals.With(modal.Upload, s.Modals.Upload.Submit(valid))
		if valid {
			s.UploadStatus = "uploading " + strings.TrimSpace(s.UploadName)
		}
		return s

	// -------------------------------------------------------------------------
	// Navigation shell
	// -------------------------------------------------------------------------

	case Resize:
		s.Nav = s.Nav.Resize(a.Class)
		return s

	case ToggleNav:
		s.Nav = s.Nav.Toggle()
		return s

	case OutsideClick:
		if s.Nav.ShouldDismiss(s.Modals.AnyActive()) {
			s.Nav = s.Nav.SetOpen(false)
			s.DocsListOpen = false
		}
		return s
	}

	return s
}

// resolveSelection drops a selection (and a pending dialog choice) that no
// longer names a catalog entry. A dropped selection reopens the selection
// dialog, which is then not cancellable. Before the first catalog load
// nothing is validated.
func resolveSelection(s AppState) AppState {
	if !s.CatalogLoaded() {
		return s
	}
	if !s.Pending.IsZero() {
		if _, ok := model.FindDocument(s.Catalog, s.Pending); !ok {
			s.Pending = model.DocumentKey{}
		}
	}
	if !s.SelectionSet() {
		return s
	}
	if _, ok := model.FindDocument(s.Catalog, s.Selection); ok {
		return s
	}
	s.Selection = model.DocumentKey{}
	s.Modals = s.Modals.With(modal.SelectDocs, s.Modals.SelectDocs.Open())
	return s
}
