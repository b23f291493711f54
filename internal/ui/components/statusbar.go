// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/ui/styles"
	"github.com/jeranaias/docsnav/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar shows the last diagnostic or the pending work on the left and
// the key help on the right.
type StatusBar struct {
	Width int
	// Busy is true while any request is in flight.
	Busy bool

	theme   *styles.Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme, keys KeyMap) *StatusBar {
	h := help.New()
	h.Styles.ShortKey = theme.Help.Bold(true)
	h.Styles.ShortDesc = theme.Help
	h.Styles.FullKey = theme.Help.Bold(true)
	h.Styles.FullDesc = theme.Help

	sp := spinner.New(spinner.WithSpinner(styles.LineSpinner))
	sp.Style = theme.StatusBusy

	return &StatusBar{
		Width:   80,
		theme:   theme,
		keys:    keys,
		help:    h,
		spinner: sp,
	}
}

// SetWidth updates the bar width.
func (b *StatusBar) SetWidth(width int) {
	b.Width = width
	b.help.Width = width
}

// ToggleHelp switches between the short and the full key help.
func (b *StatusBar) ToggleHelp() {
	b.help.ShowAll = !b.help.ShowAll
}

// Tick starts the spinner.
func (b *StatusBar) Tick() tea.Cmd {
	return b.spinner.Tick
}

// Update advances the spinner.
func (b *StatusBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	b.spinner, cmd = b.spinner.Update(msg)
	return cmd
}

// Height returns the rendered height.
func (b *StatusBar) Height(s state.AppState) int {
	return lipgloss.Height(b.View(s))
}

// View renders the bar.
func (b *StatusBar) View(s state.AppState) string {
	t := b.theme

	helpView := b.help.ShortHelpView(b.keys.ShortHelp())
	room := b.Width - lipgloss.Width(helpView) - 3
	if room < 10 {
		helpView = ""
		room = b.Width - 2
	}

	var left string
	style := t.StatusBar
	switch {
	case s.LastError != "":
		left = styles.StatusIndicators.Error + " " + util.TruncateWidth(util.SingleLine(s.LastError), room-4)
		style = t.StatusErr
	case b.Busy:
		status := s.UploadStatus
		if status == "" {
			status = "loading"
		}
		left = b.spinner.View() + " " + util.TruncateWidth(status, room-2)
	case s.UploadStatus != "":
		left = util.TruncateWidth(s.UploadStatus, room)
	default:
		left = s.Nav.Class.String()
	}

	gap := b.Width - 2 - lipgloss.Width(left) - lipgloss.Width(helpView)
	if gap < 1 {
		gap = 1
	}
	bar := style.Width(b.Width).MaxWidth(b.Width).Render(left + strings.Repeat(" ", gap) + helpView)

	if !b.help.ShowAll {
		return bar
	}
	return b.help.FullHelpView(b.keys.FullHelp()) + "\n" + bar
}
