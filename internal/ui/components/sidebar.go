// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/docsnav/internal/catalog"
	"github.com/jeranaias/docsnav/internal/modal"
	"github.com/jeranaias/docsnav/internal/model"
	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/ui/styles"
	"github.com/jeranaias/docsnav/internal/util"
)

// =============================================================================
// SIDEBAR ITEMS
// =============================================================================

// ItemKind identifies what a sidebar row does.
type ItemKind int

const (
	ItemNewChat ItemKind = iota
	ItemConversation
	ItemSource
	ItemDocument
	ItemUpload
	ItemAPIKey
	ItemAbout
	ItemLink
)

// Item is one selectable sidebar row.
type Item struct {
	Kind         ItemKind
	Label        string
	Conversation model.Conversation
	Doc          model.Document
	Link         nav.Link
}

// Deletable reports whether the row shows a delete affordance. Only local
// documents can be deleted from the dropdown.
func (it Item) Deletable() bool {
	switch it.Kind {
	case ItemConversation:
		return true
	case ItemDocument:
		return it.Doc.IsLocal()
	}
	return false
}

// line is one rendered row. item is -1 for titles and placeholders.
type line struct {
	text  string
	item  int
	title bool
}

const (
	titleConversations = "Conversations"
	titleSourceDocs    = "Source Docs"
	placeholderLoading = "Loading..."
	placeholderNoDocs  = "No default documentation."
)

// layout builds the rows for s. The same layout drives rendering and click
// hit-testing.
func layout(s state.AppState, links []nav.Link) ([]Item, []line) {
	var (
		items []Item
		lines []line
	)
	add := func(it Item) {
		items = append(items, it)
		lines = append(lines, line{text: it.Label, item: len(items) - 1})
	}
	title := func(text string) {
		lines = append(lines, line{text: text, item: -1, title: true})
	}
	placeholder := func(text string) {
		lines = append(lines, line{text: text, item: -1})
	}

	add(Item{Kind: ItemNewChat, Label: "New Chat"})

	title(titleConversations)
	if s.Conversations == nil {
		placeholder(placeholderLoading)
	}
	for _, c := range s.Conversations {
		label := util.SingleLine(c.Name)
		if label == "" {
			label = c.ID
		}
		add(Item{Kind: ItemConversation, Label: label, Conversation: c})
	}

	title(titleSourceDocs)
	source := "Select"
	if doc, ok := s.SelectedDocument(); ok {
		source = doc.Label()
	} else if s.SelectionSet() {
		source = strings.TrimSpace(s.Selection.Name + " " + s.Selection.Version)
	}
	glyph := styles.ExpandGlyph
	if s.DocsListOpen {
		glyph = styles.CollapseGlyph
	}
	add(Item{Kind: ItemSource, Label: source + " " + glyph})

	if s.DocsListOpen {
		docs := catalog.FilterByModel(s.Catalog, s.EmbeddingsName)
		if len(docs) == 0 {
			placeholder(placeholderNoDocs)
		}
		for _, d := range docs {
			add(Item{Kind: ItemDocument, Label: d.Label(), Doc: d})
		}
	}

	add(Item{Kind: ItemUpload, Label: "Upload Documents"})
	add(Item{Kind: ItemAPIKey, Label: "Reset Key"})
	add(Item{Kind: ItemAbout, Label: "About"})
	for _, l := range links {
		add(Item{Kind: ItemLink, Label: l.Label, Link: l})
	}
	return items, lines
}

// =============================================================================
// SIDEBAR COMPONENT
// =============================================================================

// Sidebar renders the navigation shell's contents and turns key presses and
// clicks on its rows into intents.
type Sidebar struct {
	Width  int
	Height int

	theme *styles.Theme
	keys  KeyMap
	links []nav.Link

	cursor int
	offset int

	renaming bool
	renameID string
	rename   textinput.Model
}

// NewSidebar creates a sidebar listing links at the bottom.
func NewSidebar(theme *styles.Theme, keys KeyMap, links []nav.Link) *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "New name"
	ti.CharLimit = 200
	ti.Prompt = "> "

	return &Sidebar{
		Width:  34,
		Height: 20,
		theme:  theme,
		keys:   keys,
		links:  links,
		rename: ti,
	}
}

// SetSize updates the sidebar dimensions (border included).
func (sb *Sidebar) SetSize(width, height int) {
	sb.Width = width
	sb.Height = height
}

// contentWidth is the width inside padding and the right border.
func (sb *Sidebar) contentWidth() int {
	if w := sb.Width - 3; w > 1 {
		return w
	}
	return 1
}

// Renaming reports whether the rename input has focus.
func (sb *Sidebar) Renaming() bool {
	return sb.renaming
}

// Cursor returns the focused item index.
func (sb *Sidebar) Cursor() int {
	return sb.cursor
}

// Focused returns the focused item.
func (sb *Sidebar) Focused(s state.AppState) (Item, bool) {
	items, lines := layout(s, sb.links)
	sb.sync(items, lines)
	if len(items) == 0 {
		return Item{}, false
	}
	return items[sb.cursor], true
}

// sync clamps the cursor and scrolls so the focused row stays visible.
func (sb *Sidebar) sync(items []Item, lines []line) {
	if sb.cursor >= len(items) {
		sb.cursor = len(items) - 1
	}
	if sb.cursor < 0 {
		sb.cursor = 0
	}

	row := 0
	for i, l := range lines {
		if l.item == sb.cursor {
			row = i
			break
		}
	}
	height := sb.Height
	if height < 1 {
		height = 1
	}
	if row < sb.offset {
		sb.offset = row
	}
	if row >= sb.offset+height {
		sb.offset = row - height + 1
	}
	if last := len(lines) - height; sb.offset > last {
		sb.offset = last
	}
	if sb.offset < 0 {
		sb.offset = 0
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles a key press while the sidebar has focus.
func (sb *Sidebar) Update(msg tea.KeyMsg, s state.AppState) (tea.Cmd, Intent) {
	items, lines := layout(s, sb.links)
	sb.sync(items, lines)

	if sb.renaming {
		return sb.updateRename(msg)
	}

	switch {
	case key.Matches(msg, sb.keys.Up):
		if sb.cursor > 0 {
			sb.cursor--
		}
	case key.Matches(msg, sb.keys.Down):
		if sb.cursor < len(items)-1 {
			sb.cursor++
		}
	case key.Matches(msg, sb.keys.Open):
		return nil, sb.activate(items[sb.cursor])
	case key.Matches(msg, sb.keys.Delete):
		return nil, sb.delete(items[sb.cursor])
	case key.Matches(msg, sb.keys.Rename):
		it := items[sb.cursor]
		if it.Kind != ItemConversation {
			return nil, nil
		}
		sb.renaming = true
		sb.renameID = it.Conversation.ID
		sb.rename.SetValue(it.Conversation.Name)
		sb.rename.CursorEnd()
		return sb.rename.Focus(), nil
	case key.Matches(msg, sb.keys.Docs):
		return nil, dispatch(state.ToggleDocsList{})
	}
	sb.sync(items, lines)
	return nil, nil
}

func (sb *Sidebar) updateRename(msg tea.KeyMsg) (tea.Cmd, Intent) {
	switch msg.Type {
	case tea.KeyEnter:
		id, name := sb.renameID, sb.rename.Value()
		sb.stopRename()
		return nil, RenameConversation{ID: id, Name: name}
	case tea.KeyEsc:
		sb.stopRename()
		return nil, nil
	}
	var cmd tea.Cmd
	sb.rename, cmd = sb.rename.Update(msg)
	return cmd, nil
}

func (sb *Sidebar) stopRename() {
	sb.renaming = false
	sb.renameID = ""
	sb.rename.Blur()
	sb.rename.SetValue("")
}

func (sb *Sidebar) activate(it Item) Intent {
	switch it.Kind {
	case ItemNewChat:
		return dispatch(state.NewChat{})
	case ItemConversation:
		return LoadConversation{ID: it.Conversation.ID}
	case ItemSource:
		return dispatch(state.ToggleDocsList{})
	case ItemDocument:
		return dispatch(state.SelectDocument{Key: it.Doc.Key()})
	case ItemUpload:
		return dispatch(state.OpenModal{Kind: modal.Upload})
	case ItemAPIKey:
		return dispatch(state.OpenModal{Kind: modal.APIKey})
	case ItemAbout:
		return dispatch(state.ShowView{View: state.ViewAbout})
	case ItemLink:
		return OpenLink{Link: it.Link}
	}
	return nil
}

func (sb *Sidebar) delete(it Item) Intent {
	if !it.Deletable() {
		return nil
	}
	if it.Kind == ItemConversation {
		return DeleteConversation{ID: it.Conversation.ID}
	}
	return DeleteDocument{Doc: it.Doc}
}

// Click handles a left click at (x, y) relative to the sidebar's top-left
// corner. Clicking the delete marker of a deletable row deletes it.
func (sb *Sidebar) Click(x, y int, s state.AppState) Intent {
	if sb.renaming {
		return nil
	}
	items, lines := layout(s, sb.links)
	sb.sync(items, lines)

	row := y + sb.offset
	if y < 0 || row >= len(lines) || lines[row].item < 0 {
		return nil
	}
	sb.cursor = lines[row].item
	it := items[sb.cursor]

	if it.Deletable() {
		cw := sb.contentWidth()
		markerX := 1 + cw - len(styles.StatusIndicators.Delete)
		if x >= markerX && x < 1+cw {
			return sb.delete(it)
		}
	}
	return sb.activate(it)
}

// View renders the sidebar.
func (sb *Sidebar) View(s state.AppState) string {
	items, lines := layout(s, sb.links)
	sb.sync(items, lines)

	cw := sb.contentWidth()
	height := sb.Height
	if height < 1 {
		height = 1
	}

	rows := make([]string, 0, height)
	for i := sb.offset; i < len(lines) && len(rows) < height; i++ {
		rows = append(rows, sb.renderLine(s, items, lines[i], cw))
	}
	for len(rows) < height {
		rows = append(rows, "")
	}

	return sb.theme.Sidebar.Width(sb.Width - 1).Height(height).
		Render(strings.Join(rows, "\n"))
}

func (sb *Sidebar) renderLine(s state.AppState, items []Item, l line, cw int) string {
	t := sb.theme
	if l.item < 0 {
		if l.title {
			return t.SectionTitle.UnsetMarginTop().Render(util.TruncateWidth(l.text, cw))
		}
		return t.RowMuted.Render(util.TruncateWidth(l.text, cw))
	}

	it := items[l.item]
	focused := l.item == sb.cursor

	if sb.renaming && it.Kind == ItemConversation && it.Conversation.ID == sb.renameID {
		sb.rename.Width = cw - 3
		return sb.rename.View()
	}

	text := it.Label
	if it.Kind == ItemDocument {
		text = "  " + text
	}

	var marker string
	if it.Deletable() {
		marker = styles.StatusIndicators.Delete
		text = util.PadWidth(text, cw-len(marker)-1) + " "
	} else {
		text = util.PadWidth(text, cw)
	}

	style := t.Row
	switch {
	case focused:
		style = t.RowFocused
	case it.Kind == ItemConversation && it.Conversation.ID == s.ConversationID:
		style = t.RowActive
	case it.Kind == ItemDocument && it.Doc.Key() == s.Selection:
		style = t.SelectedSource
	case it.Kind == ItemLink:
		style = t.Link
	}

	out := style.Render(text)
	if marker != "" {
		out += t.DeleteMarker.Render(marker)
	}
	return out
}
