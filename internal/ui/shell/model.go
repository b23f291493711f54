// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shell is the root Bubble Tea model of the docsnav TUI. It routes
// input to the components, reduces their intents into the application state
// and runs backend effects as commands.
package shell

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/jeranaias/docsnav/internal/app"
	"github.com/jeranaias/docsnav/internal/config"
	"github.com/jeranaias/docsnav/internal/modal"
	"github.com/jeranaias/docsnav/internal/nav"
	"github.com/jeranaias/docsnav/internal/state"
	"github.com/jeranaias/docsnav/internal/storage"
	"github.com/jeranaias/docsnav/internal/ui/components"
	"github.com/jeranaias/docsnav/internal/ui/styles"
)

// Options are the collaborators of the root model.
type Options struct {
	Config  *config.Config
	App     *app.App
	Persist *app.Persister
	Theme   *styles.Theme
	Log     zerolog.Logger

	// PrefChanges delivers preferences written by other processes. Optional.
	PrefChanges <-chan storage.Preferences
	// OpenURL opens external links. Defaults to nav.OpenBrowser.
	OpenURL nav.Opener
}

// Model is the root model.
type Model struct {
	state state.AppState
	opts  Options
	log   zerolog.Logger

	keys    components.KeyMap
	header  *components.Header
	sidebar *components.Sidebar
	dialogs *components.Dialogs
	pane    *components.ConversationPane
	status  *components.StatusBar

	width, height int
	breakpoint    int
	sidebarWidth  int

	// inflight counts running effects; the spinner runs while it is positive.
	inflight int
	// convsQueued is set between issuing a conversations fetch and its result.
	convsQueued bool
	// top is the dialog shown in the last frame, used to reset forms when a
	// different one comes up.
	top       modal.Kind
	topActive bool
}

// New creates the root model from the startup state.
func New(s state.AppState, opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(opts.Config.UI.Theme)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = nav.OpenBrowser
	}

	keys := components.DefaultKeyMap()
	theme := opts.Theme
	m := Model{
		state:        s,
		opts:         opts,
		log:          opts.Log.With().Str("component", "tui").Logger(),
		keys:         keys,
		header:       components.NewHeader(theme),
		sidebar:      components.NewSidebar(theme, keys, nav.Links(opts.Config.UI.Links)),
		dialogs:      components.NewDialogs(theme, keys),
		pane:         components.NewConversationPane(theme),
		status:       components.NewStatusBar(theme, keys),
		breakpoint:   opts.Config.UI.MobileBreakpoint,
		sidebarWidth: opts.Config.UI.SidebarWidth,
	}
	m.layout(80, 24)
	return m
}

// State returns the current application state.
func (m Model) State() state.AppState {
	return m.state
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init fetches the catalog and the conversation list and starts listening
// for preference changes.
func (m Model) Init() tea.Cmd {
	// The fetches are issued from Update so the in-flight count lives on
	// the model.
	return func() tea.Msg { return startMsg{} }
}

type startMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		cmds := []tea.Cmd{
			m.run(effectCatalog, m.opts.App.FetchCatalog),
			waitForPrefs(m.opts.PrefChanges),
		}
		if m.opts.App.NeedsConversations(m.state) {
			cmds = append(cmds, m.fetchConversations())
		}
		m.syncDialogs(&cmds)
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m.dispatch(state.Resize{Class: nav.ClassFor(msg.Width, m.breakpoint)})

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ActionsMsg:
		m.inflight--
		if m.inflight <= 0 {
			m.inflight = 0
			m.status.Busy = false
		}
		if msg.Effect == effectConversations {
			m.convsQueued = false
		}
		return m.dispatch(msg.Actions...)

	case PrefsMsg:
		m.opts.Persist.Observe(msg.Prefs)
		next, cmd := m.dispatch(state.PreferencesReloaded{
			Selection: msg.Prefs.SelectionKey(),
			APIKey:    msg.Prefs.APIKey,
		})
		return next, tea.Batch(cmd, waitForPrefs(m.opts.PrefChanges))

	case spinner.TickMsg:
		if m.inflight == 0 {
			return m, nil
		}
		return m, m.status.Update(msg)
	}

	return m, nil
}

// =============================================================================
// DISPATCH AND EFFECTS
// =============================================================================

// dispatch reduces actions, persists preferences and issues the follow-up
// effects the new state calls for.
func (m Model) dispatch(actions ...state.Action) (tea.Model, tea.Cmd) {
	m.state = app.Dispatch(m.state, actions...)

	if _, err := m.opts.Persist.Sync(m.state); err != nil {
		m.log.Error().Err(err).Msg("persist preferences")
	}

	var cmds []tea.Cmd
	m.syncDialogs(&cmds)
	m.pane.Sync(m.state)
	return m, tea.Batch(cmds...)
}

// run starts an effect and the spinner.
func (m *Model) run(name string, f func() []state.Action) tea.Cmd {
	m.inflight++
	m.status.Busy = true
	cmd := effect(name, f)
	if m.inflight == 1 {
		return tea.Batch(cmd, m.status.Tick())
	}
	return cmd
}

func (m *Model) fetchConversations() tea.Cmd {
	if m.convsQueued {
		return nil
	}
	m.convsQueued = true
	return m.run(effectConversations, m.opts.App.FetchConversations)
}

// syncDialogs resets a dialog's form when it comes to the top.
func (m *Model) syncDialogs(cmds *[]tea.Cmd) {
	top, ok := m.state.Modals.Top()
	if !ok {
		m.topActive = false
		return
	}
	if m.topActive && top.Kind == m.top {
		return
	}
	m.top, m.topActive = top.Kind, true
	*cmds = append(*cmds, m.dialogs.Reset(top.Kind, m.state))
}

// apply turns a component intent into state changes and effects.
func (m Model) apply(in components.Intent) (tea.Model, tea.Cmd) {
	a := m.opts.App

	switch in := in.(type) {
	case components.Dispatch:
		return m.dispatch(in.Actions...)

	case components.LoadConversation:
		cmd := m.run(effectConversation, func() []state.Action {
			return a.LoadConversation(in.ID)
		})
		return m, cmd

	case components.RenameConversation:
		cmd := m.run(effectRename, func() []state.Action {
			return a.RenameConversation(in.ID, in.Name)
		})
		return m, cmd

	case components.DeleteConversation:
		cmd := m.run(effectDeleteConv, func() []state.Action {
			return a.DeleteConversation(in.ID)
		})
		return m, cmd

	case components.DeleteDocument:
		cmd := m.run(effectDeleteDoc, func() []state.Action {
			return a.DeleteDocument(in.Doc)
		})
		return m, cmd

	case components.StartUpload:
		next, cmd := m.dispatch(state.SubmitUpload{})
		nm := next.(Model)
		if nm.state.Modals.Upload.IsActive() {
			return nm, cmd
		}
		path, name := nm.state.UploadPath, nm.state.UploadName
		upload := nm.run(effectUpload, func() []state.Action {
			return a.Upload(path, name)
		})
		return nm, tea.Batch(cmd, upload)

	case components.OpenLink:
		open, log := m.opts.OpenURL, m.log
		cmd := m.run(effectOpenLink, func() []state.Action {
			if err := open(in.Link.URL); err != nil {
				log.Error().Err(err).Str("url", in.Link.URL).Msg("open link")
				return []state.Action{state.RequestFailed{Op: "open link", Err: err}}
			}
			return nil
		})
		return m, cmd
	}
	return m, nil
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	// A dialog on top takes every key.
	if m.state.Modals.AnyActive() {
		cmd, in := m.dialogs.Update(msg, m.state)
		next, icmd := m.apply(in)
		return next, tea.Batch(cmd, icmd)
	}

	if m.sidebar.Renaming() {
		cmd, in := m.sidebar.Update(msg, m.state)
		next, icmd := m.apply(in)
		return next, tea.Batch(cmd, icmd)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.status.ToggleHelp()
		m.layout(m.width, m.height)
		return m, nil
	case key.Matches(msg, m.keys.ToggleNav):
		return m.dispatch(state.ToggleNav{})
	case key.Matches(msg, m.keys.NewChat):
		return m.dispatch(state.NewChat{})
	case key.Matches(msg, m.keys.APIKey):
		return m.dispatch(state.OpenModal{Kind: modal.APIKey})
	case key.Matches(msg, m.keys.Upload):
		return m.dispatch(state.OpenModal{Kind: modal.Upload})
	case key.Matches(msg, m.keys.About):
		return m.dispatch(state.ShowView{View: state.ViewAbout})
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.run(effectCatalog, m.opts.App.FetchCatalog)
		return m, cmd
	}

	if m.state.Nav.Open {
		cmd, in := m.sidebar.Update(msg, m.state)
		next, icmd := m.apply(in)
		return next, tea.Batch(cmd, icmd)
	}
	return m, m.pane.Update(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		return m, m.pane.Update(msg)
	case tea.MouseLeft:
	default:
		return m, nil
	}

	if m.state.Modals.AnyActive() {
		box := m.dialogRect()
		if box.Contains(msg.X, msg.Y) {
			return m.apply(m.dialogs.Click(msg.X-box.X, msg.Y-box.Y, m.state))
		}
		return m, nil
	}

	if m.header.ToggleRect(m.state.Nav.Open).Contains(msg.X, msg.Y) {
		return m.dispatch(state.ToggleNav{})
	}

	if m.state.Nav.Open {
		r := m.sidebarRect()
		if r.Contains(msg.X, msg.Y) {
			return m.apply(m.sidebar.Click(msg.X-r.X, msg.Y-r.Y, m.state))
		}
	}
	return m.dispatch(state.OutsideClick{})
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.opts.App.Close()
	return m, tea.Quit
}
