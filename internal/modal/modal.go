// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package modal is the state machine shared by the API key, document
// selection and upload dialogs.
//
// Each dialog is either INACTIVE or ACTIVE and carries an error flag that is
// raised by a failed submit. Values are immutable: every transition returns a
// new Modal, so the reducer can hold them by value.
package modal

import "strings"

// Kind identifies one of the three dialogs.
type Kind int

const (
	APIKey Kind = iota
	SelectDocs
	Upload
)

// Kinds lists every dialog in display order.
var Kinds = []Kind{APIKey, SelectDocs, Upload}

// String returns the dialog name used in logs.
func (k Kind) String() string {
	switch k {
	case APIKey:
		return "api-key"
	case SelectDocs:
		return "select-docs"
	case Upload:
		return "upload"
	default:
		return "unknown"
	}
}

// State is the visibility of a dialog.
type State int

const (
	Inactive State = iota
	Active
)

// String returns "ACTIVE" or "INACTIVE".
func (s State) String() string {
	if s == Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// =============================================================================
// MODAL
// =============================================================================

// Modal is the state of a single dialog.
type Modal struct {
	Kind  Kind
	State State
	// Err is raised when a submit fails validation and cleared on commit or
	// cancel.
	Err bool
}

// New returns a dialog of kind k in state s with no error.
func New(k Kind, s State) Modal {
	return Modal{Kind: k, State: s}
}

// IsActive reports whether the dialog is shown.
func (m Modal) IsActive() bool {
	return m.State == Active
}

// Open shows the dialog.
func (m Modal) Open() Modal {
	m.State = Active
	m.Err = false
	return m
}

// Submit applies the outcome of validation. An invalid submit raises the error
// flag and leaves the dialog open; a valid one closes it and clears the flag.
func (m Modal) Submit(valid bool) Modal {
	if !valid {
		m.Err = true
		return m
	}
	m.State = Inactive
	m.Err = false
	return m
}

// Cancel closes the dialog if it may be dismissed. Otherwise it is a no-op.
func (m Modal) Cancel(cancellable bool) Modal {
	if !cancellable {
		return m
	}
	m.State = Inactive
	m.Err = false
	return m
}

// Close forces the dialog shut regardless of cancellability. Used when the
// committed value lands through another path (e.g. a preference reload).
func (m Modal) Close() Modal {
	m.State = Inactive
	m.Err = false
	return m
}

// =============================================================================
// CANCELLABILITY AND VALIDATION
// =============================================================================

// Context is the slice of application state cancellability depends on.
type Context struct {
	KeySet       bool
	SelectionSet bool
}

// Cancellable reports whether the dialog of kind k may be dismissed:
// the API key dialog once a key exists, the selection dialog once a
// selection exists, the upload dialog always.
func Cancellable(k Kind, c Context) bool {
	switch k {
	case APIKey:
		return c.KeySet
	case SelectDocs:
		return c.SelectionSet
	case Upload:
		return true
	default:
		return false
	}
}

// ValidAPIKey reports whether key is acceptable for submit.
func ValidAPIKey(key string) bool {
	return strings.TrimSpace(key) != ""
}

// ValidUpload reports whether the upload form is complete.
func ValidUpload(path, name string) bool {
	return strings.TrimSpace(path) != "" && strings.TrimSpace(name) != ""
}

// =============================================================================
// SET
// =============================================================================

// Set holds the three dialogs.
type Set struct {
	APIKey     Modal
	SelectDocs Modal
	Upload     Modal
}

// Initial returns the startup dialogs: the selection dialog is open iff there
// is no selection; the others start closed.
func Initial(selectionSet bool) Set {
	sel := Inactive
	if !selectionSet {
		sel = Active
	}
	return Set{
		APIKey:     New(APIKey, Inactive),
		SelectDocs: New(SelectDocs, sel),
		Upload:     New(Upload, Inactive),
	}
}

// Get returns the dialog of kind k.
func (s Set) Get(k Kind) Modal {
	switch k {
	case APIKey:
		return s.APIKey
	case SelectDocs:
		return s.SelectDocs
	default:
		return s.Upload
	}
}

// With returns s with the dialog of kind k replaced by m.
func (s Set) With(k Kind, m Modal) Set {
	m.Kind = k
	switch k {
	case APIKey:
		s.APIKey = m
	case SelectDocs:
		s.SelectDocs = m
	case Upload:
		s.Upload = m
	}
	return s
}

// AnyActive reports whether any dialog is shown.
func (s Set) AnyActive() bool {
	for _, k := range Kinds {
		if s.Get(k).IsActive() {
			return true
		}
	}
	return false
}

// Top returns the dialog that should receive input when more than one is
// open, in order of precedence: selection, API key, upload.
func (s Set) Top() (Modal, bool) {
	for _, k := range []Kind{SelectDocs, APIKey, Upload} {
		if m := s.Get(k); m.IsActive() {
			return m, true
		}
	}
	return Modal{}, false
}
