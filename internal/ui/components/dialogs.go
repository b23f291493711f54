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
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/ui/styles"
	"github.com/jeranaias/docsnav/internal/util"
)

// Inline validation messages.
const (
	ErrTextSelectDocs = "Please select Source Documentation"
	ErrTextAPIKey     = "Please enter a valid API key"
	ErrTextUpload     = "Please enter a file path and a job name"
)

const maxVisibleOptions = 8

// =============================================================================
// DIALOGS COMPONENT
// =============================================================================

// Dialogs renders whichever modal is on top and owns the inputs of the
// three forms. The form values themselves live in the application state and
// are kept in step through Edit actions.
type Dialogs struct {
	Width int

	theme *styles.Theme
	keys  KeyMap

	keyInput  textinput.Model
	pathInput textinput.Model
	nameInput textinput.Model
	// uploadField is 0 for the path input and 1 for the name input.
	uploadField int

	cursor int
}

// NewDialogs creates the dialog component.
func NewDialogs(theme *styles.Theme, keys KeyMap) *Dialogs {
	keyInput := textinput.New()
	keyInput.Placeholder = "API Key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.EchoCharacter = '*'
	keyInput.CharLimit = 256

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/docs.zip"
	pathInput.Prompt = "File: "

	nameInput := textinput.New()
	nameInput.Placeholder = "my-docs"
	nameInput.Prompt = "Name: "
	nameInput.CharLimit = 120

	return &Dialogs{
		Width:     60,
		theme:     theme,
		keys:      keys,
		keyInput:  keyInput,
		pathInput: pathInput,
		nameInput: nameInput,
	}
}

// SetWidth bounds the dialog box to the terminal width.
func (d *Dialogs) SetWidth(width int) {
	d.Width = width
}

// Reset prepares the form of kind k after the dialog became active.
func (d *Dialogs) Reset(k modal.Kind, s state.AppState) tea.Cmd {
	switch k {
	case modal.SelectDocs:
		d.cursor = 0
		for i, doc := range catalog.Selectable(s.Catalog) {
			if doc.Key() == s.Pending {
				d.cursor = i
				break
			}
		}
		return nil
	case modal.APIKey:
		d.keyInput.SetValue(s.KeyInput)
		return d.keyInput.Focus()
	case modal.Upload:
		d.pathInput.SetValue(s.UploadPath)
		d.nameInput.SetValue(s.UploadName)
		d.uploadField = 0
		d.nameInput.Blur()
		return d.pathInput.Focus()
	}
	return nil
}

// Update handles a key press while a dialog is on top.
func (d *Dialogs) Update(msg tea.KeyMsg, s state.AppState) (tea.Cmd, Intent) {
	top, ok := s.Modals.Top()
	if !ok {
		return nil, nil
	}

	if key.Matches(msg, d.keys.Cancel) {
		return nil, dispatch(state.CancelModal{Kind: top.Kind})
	}

	switch top.Kind {
	case modal.SelectDocs:
		return nil, d.updateSelect(msg, s)
	case modal.APIKey:
		return d.updateAPIKey(msg)
	case modal.Upload:
		return d.updateUpload(msg)
	}
	return nil, nil
}

func (d *Dialogs) updateSelect(msg tea.KeyMsg, s state.AppState) Intent {
	options := catalog.Selectable(s.Catalog)

	switch {
	case key.Matches(msg, d.keys.Open):
		return dispatch(state.SubmitSelection{})
	case key.Matches(msg, d.keys.Up):
		if len(options) == 0 {
			return nil
		}
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, d.keys.Down):
		if len(options) == 0 {
			return nil
		}
		if d.cursor < len(options)-1 {
			d.cursor++
		}
	default:
		return nil
	}
	d.cursor = clamp(d.cursor, len(options))
	return dispatch(state.PickPending{Key: options[d.cursor].Key()})
}

func (d *Dialogs) updateAPIKey(msg tea.KeyMsg) (tea.Cmd, Intent) {
	if key.Matches(msg, d.keys.Open) {
		return nil, dispatch(state.EditAPIKey{Value: d.keyInput.Value()}, state.SubmitAPIKey{})
	}
	var cmd tea.Cmd
	d.keyInput, cmd = d.keyInput.Update(msg)
	return cmd, dispatch(state.EditAPIKey{Value: d.keyInput.Value()})
}

func (d *Dialogs) updateUpload(msg tea.KeyMsg) (tea.Cmd, Intent) {
	switch {
	case key.Matches(msg, d.keys.NextField):
		return d.focusUploadField(1 - d.uploadField), nil
	case key.Matches(msg, d.keys.Open):
		if d.uploadField == 0 {
			return d.focusUploadField(1), nil
		}
		return nil, StartUpload{}
	}

	var cmd tea.Cmd
	if d.uploadField == 0 {
		d.pathInput, cmd = d.pathInput.Update(msg)
	} else {
		d.nameInput, cmd = d.nameInput.Update(msg)
	}
	return cmd, dispatch(state.EditUpload{Path: d.pathInput.Value(), Name: d.nameInput.Value()})
}

func (d *Dialogs) focusUploadField(field int) tea.Cmd {
	d.uploadField = field
	if field == 0 {
		d.nameInput.Blur()
		return d.pathInput.Focus()
	}
	d.pathInput.Blur()
	return d.nameInput.Focus()
}

// Click picks the option under (x, y), relative to the dialog box's top-left
// corner, when the selection dialog is on top.
func (d *Dialogs) Click(x, y int, s state.AppState) Intent {
	top, ok := s.Modals.Top()
	if !ok || top.Kind != modal.SelectDocs {
		return nil
	}
	options := catalog.Selectable(s.Catalog)
	end, start := d.optionWindow(len(options))
	// Border, top padding, title with its margin, description, blank line.
	row := y - 6
	if row < 0 || start+row >= end {
		return nil
	}
	d.cursor = start + row
	return dispatch(state.PickPending{Key: options[d.cursor].Key()})
}

// optionWindow returns the end and start of the visible option range.
func (d *Dialogs) optionWindow(n int) (end, start int) {
	d.cursor = clamp(d.cursor, n)
	start = 0
	if d.cursor >= maxVisibleOptions {
		start = d.cursor - maxVisibleOptions + 1
	}
	end = start + maxVisibleOptions
	if end > n {
		end = n
	}
	return end, start
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the top dialog, or "" when none is active.
func (d *Dialogs) View(s state.AppState) string {
	top, ok := s.Modals.Top()
	if !ok {
		return ""
	}

	var body string
	switch top.Kind {
	case modal.SelectDocs:
		body = d.viewSelect(s, top)
	case modal.APIKey:
		body = d.viewAPIKey(s, top)
	case modal.Upload:
		body = d.viewUpload(s, top)
	}
	return d.theme.Modal.Width(d.boxWidth()).Render(body)
}

func (d *Dialogs) boxWidth() int {
	w := d.Width - 4
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// innerWidth is the text width inside the box's border and padding.
func (d *Dialogs) innerWidth() int {
	return d.boxWidth() - 6
}

func (d *Dialogs) footer(s state.AppState, m modal.Modal, errText string) string {
	t := d.theme
	var parts []string
	if m.Err {
		parts = append(parts, t.ModalError.Render(errText))
	}
	hint := "Enter: Save"
	if s.Cancellable(m.Kind) {
		hint += "  Esc: Cancel"
	}
	parts = append(parts, t.ModalHint.Render(hint))
	return strings.Join(parts, "\n")
}

func (d *Dialogs) viewSelect(s state.AppState, m modal.Modal) string {
	t := d.theme
	iw := d.innerWidth()
	options := catalog.Selectable(s.Catalog)

	lines := []string{
		t.ModalTitle.Render("Select Source Documentation"),
		util.TruncateWidth("Please select the library of documentation to use.", iw),
		"",
	}

	switch {
	case s.Catalog == nil:
		lines = append(lines, t.RowMuted.Render(placeholderLoading))
	case len(options) == 0:
		lines = append(lines, t.RowMuted.Render(placeholderNoDocs))
	default:
		end, start := d.optionWindow(len(options))
		for _, doc := range options[start:end] {
			lines = append(lines, d.renderOption(doc, s.Pending, iw))
		}
		if end < len(options) {
			lines = append(lines, t.RowMuted.Render("  ..."))
		}
	}

	lines = append(lines, "", d.footer(s, m, ErrTextSelectDocs))
	return strings.Join(lines, "\n")
}

func (d *Dialogs) renderOption(doc model.Document, pending model.DocumentKey, width int) string {
	label := doc.Label()
	if doc.IsLocal() {
		label += " " + styles.StatusIndicators.Local
	}
	label = util.PadWidth(label, width-2)
	if doc.Key() == pending {
		return d.theme.OptionSelected.Render(label)
	}
	return d.theme.Option.Render(label)
}

func (d *Dialogs) viewAPIKey(s state.AppState, m modal.Modal) string {
	t := d.theme
	d.keyInput.Width = d.innerWidth() - 3
	return strings.Join([]string{
		t.ModalTitle.Render("API Key"),
		"Enter the API key the backend should use for your requests.",
		"",
		d.keyInput.View(),
		"",
		d.footer(s, m, ErrTextAPIKey),
	}, "\n")
}

func (d *Dialogs) viewUpload(s state.AppState, m modal.Modal) string {
	t := d.theme
	iw := d.innerWidth()
	d.pathInput.Width = iw - 7
	d.nameInput.Width = iw - 7

	lines := []string{
		t.ModalTitle.Render("Upload New Documentation"),
		"Upload a file to train a new source on.",
		"",
		d.pathInput.View(),
		d.nameInput.View(),
	}
	if s.UploadStatus != "" {
		lines = append(lines, "", t.StatusBusy.Render(util.TruncateWidth(s.UploadStatus, iw)))
	}
	lines = append(lines, "", d.footer(s, m, ErrTextUpload))
	return strings.Join(lines, "\n")
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
