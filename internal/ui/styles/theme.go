// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted from the ui.theme setting.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styles for the TUI.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Dimensions for responsive layouts
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Hamburger   lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar        lipgloss.Style
	SectionTitle   lipgloss.Style
	Row            lipgloss.Style
	RowFocused     lipgloss.Style
	RowActive      lipgloss.Style
	RowMuted       lipgloss.Style
	DeleteMarker   lipgloss.Style
	Dropdown       lipgloss.Style
	SelectedSource lipgloss.Style
	Link           lipgloss.Style

	// ==========================================================================
	// MAIN PANE
	// ==========================================================================

	Main       lipgloss.Style
	MainTitle  lipgloss.Style
	Body       lipgloss.Style
	StatusBar  lipgloss.Style
	StatusErr  lipgloss.Style
	StatusBusy lipgloss.Style
	Help       lipgloss.Style

	// ==========================================================================
	// DIALOGS
	// ==========================================================================

	Modal          lipgloss.Style
	ModalTitle     lipgloss.Style
	ModalError     lipgloss.Style
	ModalHint      lipgloss.Style
	Option         lipgloss.Style
	OptionSelected lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style
}

// NewTheme creates a theme for stdout. mode is one of ModeAuto, ModeDark or
// ModeLight; anything else behaves like ModeAuto.
func NewTheme(mode string) *Theme {
	return NewThemeFor(os.Stdout, mode)
}

// NewThemeFor creates a theme for the terminal behind w.
func NewThemeFor(w io.Writer, mode string) *Theme {
	r := lipgloss.NewRenderer(w)
	profile := r.ColorProfile()

	isDark := r.HasDarkBackground()
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	}
	r.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
		renderer:     r,
	}
	t.initStyles()
	return t
}

// NewStyle returns a blank style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.NewStyle

	// Header
	t.Header = s().
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = s().
		Bold(true).
		Foreground(Purple)

	t.Hamburger = s().
		Bold(true).
		Foreground(Cyan)

	// Sidebar
	t.Sidebar = s().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SectionTitle = s().
		Bold(true).
		Foreground(TextSecondary).
		MarginTop(1)

	t.Row = s().
		Foreground(TextPrimary)

	t.RowFocused = s().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.RowActive = s().
		Foreground(Cyan).
		Bold(true)

	t.RowMuted = s().
		Foreground(TextMuted)

	t.DeleteMarker = s().
		Foreground(Rose)

	t.Dropdown = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)

	t.SelectedSource = s().
		Foreground(Purple).
		Bold(true)

	// Underline is the non-color cue for links
	t.Link = s().
		Foreground(LinkColor).
		Underline(true)

	// Main pane
	t.Main = s().
		Padding(0, 2)

	t.MainTitle = s().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.Body = s().
		Foreground(TextPrimary)

	t.StatusBar = s().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusErr = s().
		Foreground(Rose).
		Background(SurfaceDim).
		Bold(true).
		Padding(0, 1)

	t.StatusBusy = s().
		Foreground(Amber)

	t.Help = s().
		Foreground(TextMuted)

	// Dialogs
	t.Modal = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.ModalTitle = s().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)

	t.ModalError = s().
		Foreground(Rose).
		Bold(true)

	t.ModalHint = s().
		Foreground(TextMuted).
		Italic(true)

	t.Option = s().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.OptionSelected = s().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		PaddingLeft(2)

	t.Button = s().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 2)

	t.ButtonDisabled = s().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 2)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// RenderStatus renders an ok/failed line with its marker.
func (t *Theme) RenderStatus(ok bool, message string) string {
	if ok {
		return t.NewStyle().Foreground(Emerald).Bold(true).Render(StatusIndicators.Success + " " + message)
	}
	return t.NewStyle().Foreground(Rose).Bold(true).Render(StatusIndicators.Error + " " + message)
}
