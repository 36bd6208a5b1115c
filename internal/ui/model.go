// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal chat interface.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"chatdeck/internal/chat"
	"chatdeck/internal/export"
	"chatdeck/internal/model"
	"chatdeck/internal/store"
	"chatdeck/internal/theme"
)

// =============================================================================
// UI MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It renders store
// snapshots and translates key presses into store and orchestrator calls;
// it holds no conversation state of its own beyond the in-flight message.
type Model struct {
	store *store.Store
	orch  *chat.Orchestrator

	// Ctrl+E writes session files to exportDir in the exporter's format.
	exportDir string
	exporter  export.Exporter

	// Latest committed state snapshot.
	state store.State

	// In-flight assistant message, rendered below the committed history
	// while streaming.
	inflight        model.Message
	inflightSession string
	streaming       bool

	// Styling, rebuilt when the theme preference changes.
	styles   theme.Styles
	pref     model.Theme
	renderer *glamour.TermRenderer

	// Components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	keyMap   KeyMap

	// Transient status line (export paths, template actions).
	status   string
	statusID int

	width  int
	height int
	ready  bool
}

// New creates the chat view over the given store and orchestrator. A nil
// exporter defaults to JSON.
func New(st *store.Store, orch *chat.Orchestrator, exportDir string, exporter export.Exporter) Model {
	if exporter == nil {
		exporter = export.NewJSONExporter()
	}
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "| "
	ta.CharLimit = 4096
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	state := st.Snapshot()

	m := Model{
		store:     st,
		orch:      orch,
		exportDir: exportDir,
		exporter:  exporter,
		state:     state,
		pref:      state.Theme,
		styles:    theme.NewStyles(state.Theme),
		viewport:  vp,
		input:     ta,
		spinner:   sp,
		keyMap:    DefaultKeyMap(),
	}
	m.rebuildRenderer(80)
	return m
}

// Init starts the spinner, cursor blink, and catalog loading.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		textarea.Blink,
		m.loadCatalogs(),
	)
}

// rebuildRenderer recreates the markdown renderer for the current theme
// and width. Rendering falls back to plain text when glamour fails.
func (m *Model) rebuildRenderer(width int) {
	style := "dark"
	if theme.Resolve(m.pref) == model.ThemeLight {
		style = "light"
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// setStatus replaces the transient status line and returns the command
// that expires it.
func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusID++
	return expireStatus(m.statusID)
}

// currentSession returns the selected session, or false when none exists.
func (m Model) currentSession() (model.Session, bool) {
	return m.state.Current()
}

// sessionIndex returns the index of the current session in the list, or -1.
func (m Model) sessionIndex() int {
	for i, sess := range m.state.Sessions {
		if sess.ID == m.state.CurrentSession {
			return i
		}
	}
	return -1
}

// modelIndex returns the index of the current model in the catalog, or -1.
func (m Model) modelIndex() int {
	for i, info := range m.state.Models {
		if info.ID == m.state.CurrentModel {
			return i
		}
	}
	return -1
}

// timestamp formats a message time for display.
func timestamp(t time.Time) string {
	return t.Format("15:04")
}
