// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsnav/internal/nav"
)

// =============================================================================
// LAYOUT
// =============================================================================

// minPaneWidth keeps part of the main pane visible next to an open sidebar
// on narrow terminals, so there is somewhere to click outside it.
const minPaneWidth = 8

// layout sizes every component for a terminal of width x height.
func (m *Model) layout(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width, m.height = width, height

	m.header.SetWidth(width)
	m.status.SetWidth(width)
	m.dialogs.SetWidth(width)

	// The pane's width depends on the sidebar being open and is set per frame.
	m.sidebar.SetSize(m.navWidth(), m.bodyHeight())
}

// bodyHeight is the height between the header and the status bar.
func (m *Model) bodyHeight() int {
	h := m.height - m.header.Height() - m.status.Height(m.state)
	if h < 1 {
		return 1
	}
	return h
}

// navWidth is the sidebar width, capped on narrow terminals.
func (m *Model) navWidth() int {
	w := m.sidebarWidth
	if w <= 0 {
		w = 34
	}
	if w > m.width-minPaneWidth {
		w = m.width - minPaneWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

// sidebarRect is where the open sidebar is drawn.
func (m *Model) sidebarRect() nav.Rect {
	return nav.Rect{X: 0, Y: m.header.Height(), Width: m.navWidth(), Height: m.bodyHeight()}
}

// dialogRect is where the top dialog is drawn: centred in the body.
func (m *Model) dialogRect() nav.Rect {
	box := m.dialogs.View(m.state)
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	x := (m.width - w) / 2
	if x < 0 {
		x = 0
	}
	y := (m.bodyHeight() - h) / 2
	if y < 0 {
		y = 0
	}
	return nav.Rect{X: x, Y: m.header.Height() + y, Width: w, Height: h}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the header, the body and the status bar.
func (m Model) View() string {
	s := m.state
	body := m.bodyHeight()

	var main string
	if s.Modals.AnyActive() {
		main = m.viewDialog(body)
	} else {
		paneWidth := m.width
		var left string
		if s.Nav.Open {
			left = m.sidebar.View(s)
			paneWidth -= lipgloss.Width(left)
		}
		m.pane.SetSize(paneWidth, body)
		m.pane.Sync(s)
		main = lipgloss.JoinHorizontal(lipgloss.Top, left, m.pane.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(s),
		fitHeight(main, body),
		m.status.View(s),
	)
}

// viewDialog places the dialog box at dialogRect.
func (m Model) viewDialog(height int) string {
	box := m.dialogs.View(m.state)
	r := m.dialogRect()

	lines := make([]string, 0, height)
	for i := 0; i < r.Y-m.header.Height(); i++ {
		lines = append(lines, "")
	}
	pad := strings.Repeat(" ", r.X)
	for _, l := range strings.Split(box, "\n") {
		lines = append(lines, pad+l)
	}
	return strings.Join(lines, "\n")
}

// fitHeight pads or cuts s to exactly height lines.
func fitHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
