// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/ui/styles"
)

// AboutMarkdown is the About page.
const AboutMarkdown = `# About

**docsnav** is a terminal client for a DocsGPT documentation assistant.

Pick a source library under *Source Docs*, browse your past conversations
and upload your own documentation to train a new source.

- Press **m** to show or hide the menu.
- Press **?** for every key binding.
`

// =============================================================================
// CONVERSATION PANE
// =============================================================================

// ConversationPane renders the main area: the active conversation, the About
// page, or the new-chat placeholder, as markdown in a scrollable viewport.
type ConversationPane struct {
	theme    *styles.Theme
	viewport viewport.Model
	renderer *glamour.TermRenderer

	// key identifies the rendered content so unchanged frames skip glamour.
	key string
}

// NewConversationPane creates an empty pane.
func NewConversationPane(theme *styles.Theme) *ConversationPane {
	p := &ConversationPane{
		theme:    theme,
		viewport: viewport.New(80, 20),
	}
	p.SetSize(80, 20)
	return p
}

// SetSize resizes the viewport and rebuilds the markdown renderer for the
// new wrap width.
func (p *ConversationPane) SetSize(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 1 {
		height = 1
	}
	if width == p.viewport.Width && height == p.viewport.Height && p.renderer != nil {
		return
	}
	p.viewport.Width = width
	p.viewport.Height = height

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.theme.GlamourStyle()),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		r = nil
	}
	p.renderer = r
	p.key = ""
}

// Markdown returns the markdown the pane shows for s.
func Markdown(s state.AppState) string {
	if s.View == state.ViewAbout {
		return AboutMarkdown
	}
	if s.Active != nil {
		return s.Active.Markdown()
	}

	var sb strings.Builder
	sb.WriteString("# New Chat\n\n")
	if doc, ok := s.SelectedDocument(); ok {
		fmt.Fprintf(&sb, "Asking about **%s**.\n", doc.Label())
	} else {
		sb.WriteString("No source documentation selected.\n")
	}
	if n := len(s.Conversations); n > 0 {
		fmt.Fprintf(&sb, "\nOpen one of your %d conversations from the menu.\n", n)
	}
	return sb.String()
}

func contentKey(s state.AppState) string {
	switch {
	case s.View == state.ViewAbout:
		return "about"
	case s.Active != nil:
		return fmt.Sprintf("conv:%s:%d", s.ConversationID, len(s.Active.Queries))
	}
	return fmt.Sprintf("home:%s:%d", s.Selection, len(s.Conversations))
}

// Sync re-renders the content when s shows something different.
func (p *ConversationPane) Sync(s state.AppState) {
	k := contentKey(s)
	if k == p.key {
		return
	}
	p.key = k

	md := Markdown(s)
	out := md
	if p.renderer != nil {
		if rendered, err := p.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	p.viewport.SetContent(out)
	p.viewport.GotoTop()
}

// Update scrolls the viewport.
func (p *ConversationPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd
}

// View renders the pane.
func (p *ConversationPane) View() string {
	return p.viewport.View()
}
