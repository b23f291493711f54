// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the docsnav TUI.

All colors use Lip Gloss AdaptiveColor so they follow the terminal's light or
dark background. The ui.theme setting can pin either one.

# Color System (colors.go)

  - Purple - selected rows and dialog borders
  - Cyan - header and the active conversation
  - Emerald - success and local documents
  - Rose - validation errors and the delete affordance
  - Amber - pending uploads and loading

Status markers ([OK], [X], [del]) accompany every color cue.

# Theme System (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme)
	row := theme.RowFocused.Render("react 18.2")

Styles are bound to a lipgloss renderer for the output they are drawn on, so
tests can build a theme over a bytes.Buffer and get plain text.

# Glyphs (glyphs.go)

Spinners for the bubbles spinner model and the ASCII glyphs of the header
and documents dropdown.
*/
package styles
