// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/ui/styles"
	"github.com/jeranaias/docsnav/internal/util"
)

// =============================================================================
// HEADER COMPONENT - Title bar with the menu toggle
// =============================================================================

// Header is the one-line title bar. Its left glyph toggles the sidebar.
type Header struct {
	Title string
	Width int
	theme *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "docsnav",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Height is always one row.
func (h *Header) Height() int {
	return 1
}

func toggleGlyph(open bool) string {
	if open {
		return styles.CloseGlyph
	}
	return styles.HamburgerGlyph
}

// ToggleRect is the clickable area of the menu toggle. The header's left
// padding puts it at column 1.
func (h *Header) ToggleRect(open bool) nav.Rect {
	return nav.Rect{X: 1, Y: 0, Width: len(toggleGlyph(open)), Height: 1}
}

// View renders the title bar: toggle, title and the selected source.
func (h *Header) View(s state.AppState) string {
	left := h.theme.Hamburger.Render(toggleGlyph(s.Nav.Open)) + " " +
		h.theme.HeaderTitle.Render(h.Title)

	source := "no source selected"
	if doc, ok := s.SelectedDocument(); ok {
		source = doc.Label()
	} else if s.SelectionSet() {
		source = s.Selection.Name
	}
	if s.View == state.ViewAbout {
		source = "about"
	}

	// Padding(0, 1) on both sides.
	inner := h.Width - 2
	if inner < 1 {
		inner = 1
	}
	room := inner - lipgloss.Width(left) - 1
	right := ""
	if room > 0 {
		right = util.TruncateWidth(source, room)
	}
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return h.theme.Header.Width(h.Width).MaxWidth(h.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}
