// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI pieces of the docsnav TUI.

Components render from a state.AppState snapshot and never call the backend.
Key presses and clicks come back as an Intent the root model turns into
reducer actions or effects.

# Components

Header (header.go) - Title bar with the menu toggle and the selected source.
Sidebar (sidebar.go) - New Chat, conversations, the source docs dropdown,
dialog entries and external links.
Dialogs (dialogs.go) - Source selection, API key and upload dialogs.
ConversationPane (conversation.go) - Glamour-rendered conversation or About page.
StatusBar (statusbar.go) - Diagnostics, spinner and key help.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	keys := components.DefaultKeyMap()
	sidebar := components.NewSidebar(theme, keys, nav.Links(cfg.UI.Links))

	cmd, intent := sidebar.Update(keyMsg, appState)
	if d, ok := intent.(components.Dispatch); ok {
	    appState = app.Dispatch(appState, d.Actions...)
	}
*/
package components
