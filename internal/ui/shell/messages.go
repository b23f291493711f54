// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/storage"
)

// =============================================================================
// EFFECT MESSAGES
// =============================================================================

// Effect names. At most one conversations fetch is queued at a time.
const (
	effectCatalog       = "catalog"
	effectConversations = "conversations"
	effectConversation  = "conversation"
	effectRename        = "rename"
	effectDeleteConv    = "delete-conversation"
	effectDeleteDoc     = "delete-document"
	effectUpload        = "upload"
	effectOpenLink      = "open-link"
)

// ActionsMsg carries the actions an effect produced. Stale completions
// arrive with no actions.
type ActionsMsg struct {
	Effect  string
	Actions []state.Action
}

// PrefsMsg carries preferences another process wrote.
type PrefsMsg struct {
	Prefs storage.Preferences
}

// effect runs f off the UI goroutine and reports its actions.
func effect(name string, f func() []state.Action) tea.Cmd {
	return func() tea.Msg {
		return ActionsMsg{Effect: name, Actions: f()}
	}
}

// waitForPrefs delivers the next preferences change. A closed channel ends
// the loop.
func waitForPrefs(ch <-chan storage.Preferences) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		prefs, ok := <-ch
		if !ok {
			return nil
		}
		return PrefsMsg{Prefs: prefs}
	}
}
