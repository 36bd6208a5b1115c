// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal chat interface.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"chatdeck/internal/chat"
	"chatdeck/internal/export"
	"chatdeck/internal/model"
	"chatdeck/internal/theme"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		return m.handleState(msg)

	case InFlightMsg:
		return m.handleInFlight(msg)

	case submitResultMsg:
		if msg.err != nil && msg.err != chat.ErrEmptyPrompt && msg.err != chat.ErrBusy {
			// Sentinels are expected flow control; anything else surfaces.
			m.store.SetError("Failed to generate response")
		}
		return m, nil

	case catalogsLoadedMsg:
		// Failures already landed in the store state via the orchestrator.
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			return m, m.setStatus("Export failed: " + msg.err.Error())
		}
		return m, m.setStatus("Exported to " + msg.path)

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// updateComponents forwards unhandled messages to the input and viewport.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := lipgloss.Height(m.headerView())
	inputHeight := lipgloss.Height(m.inputView())
	statusHeight := lipgloss.Height(m.statusView())

	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}

	m.input.SetWidth(msg.Width - 2)
	m.rebuildRenderer(msg.Width - 4)
	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keyMap

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Submit):
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		if m.orch.Busy() {
			return m, m.setStatus("Still generating, hang on...")
		}
		m.input.Reset()
		return m, m.submit(prompt)

	case key.Matches(msg, k.Cancel):
		if m.streaming {
			m.orch.CancelActive()
			return m, nil
		}
		if m.state.Err != "" {
			m.store.ClearError()
		}
		return m, nil

	case key.Matches(msg, k.NewSession):
		m.store.CreateSession()
		return m, nil

	case key.Matches(msg, k.NextSession):
		return m.selectSession(1)

	case key.Matches(msg, k.PrevSession):
		return m.selectSession(-1)

	case key.Matches(msg, k.DeleteSession):
		if m.state.CurrentSession != "" {
			m.store.DeleteSession(m.state.CurrentSession)
		}
		return m, nil

	case key.Matches(msg, k.Export):
		return m.exportCurrent()

	case key.Matches(msg, k.CopyResponse):
		return m.copyLastResponse()

	case key.Matches(msg, k.CycleTheme):
		m.store.SetTheme(m.state.Theme.Next())
		return m, nil

	case key.Matches(msg, k.CycleModel):
		return m.cycleModel()

	case key.Matches(msg, k.UseTemplate):
		if len(m.state.Templates) > 0 {
			m.input.SetValue(m.state.Templates[0].Content)
			return m, m.setStatus("Inserted template: " + m.state.Templates[0].Name)
		}
		return m, nil

	case key.Matches(msg, k.SaveTemplate):
		return m.saveTemplate()

	case key.Matches(msg, k.DeleteTemplate):
		if len(m.state.Templates) > 0 {
			name := m.state.Templates[0].Name
			m.store.DeleteTemplate(m.state.Templates[0].ID)
			return m, m.setStatus("Deleted template: " + name)
		}
		return m, nil

	case key.Matches(msg, k.PageUp), key.Matches(msg, k.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// selectSession moves the current session pointer by delta within the
// list and shows where the switch landed.
func (m Model) selectSession(delta int) (tea.Model, tea.Cmd) {
	if len(m.state.Sessions) == 0 {
		return m, nil
	}
	idx := m.sessionIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + len(m.state.Sessions)) % len(m.state.Sessions)
	}
	sess := m.state.Sessions[idx]
	m.store.SetCurrentSession(sess.ID)
	if last, ok := sess.LastMessage(); ok {
		return m, m.setStatus(sess.Title + ": " + last.Preview(40))
	}
	return m, nil
}

// cycleModel advances the current model through the catalog and shows the
// new model's capabilities.
func (m Model) cycleModel() (tea.Model, tea.Cmd) {
	if len(m.state.Models) == 0 {
		return m, nil
	}
	next := m.state.Models[(m.modelIndex()+1)%len(m.state.Models)]
	m.store.SetCurrentModel(next.ID)
	return m, m.setStatus(next.Name + " · " + next.ContextString())
}

// exportCurrent writes the current session to the export directory in the
// injected exporter's format.
func (m Model) exportCurrent() (tea.Model, tea.Cmd) {
	sess, ok := m.currentSession()
	if !ok || sess.IsEmpty() {
		return m, m.setStatus("Nothing to export")
	}
	dir, exp := m.exportDir, m.exporter
	return m, func() tea.Msg {
		path, err := export.WriteToFile(sess, exp, dir)
		return exportedMsg{path: path, err: err}
	}
}

// copyLastResponse copies the newest assistant message in the current
// session to the system clipboard. Clipboard failures are non-fatal.
func (m Model) copyLastResponse() (tea.Model, tea.Cmd) {
	sess, ok := m.currentSession()
	if !ok {
		return m, m.setStatus("No response to copy")
	}

	var content string
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		if sess.Messages[i].Role == model.RoleAssistant {
			content = sess.Messages[i].Content
			break
		}
	}
	if content == "" {
		return m, m.setStatus("No response to copy")
	}

	if err := clipboard.WriteAll(content); err != nil {
		return m, m.setStatus("Failed to copy: " + err.Error())
	}
	return m, m.setStatus(fmt.Sprintf("Copied response (%d chars)", len(content)))
}

// saveTemplate stores the current input as a new template.
func (m Model) saveTemplate() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}
	created := m.store.AddTemplate(model.TemplateDraft{
		Name:        model.TitleFor(content),
		Description: "Saved from input",
		Content:     content,
	})
	return m, m.setStatus("Saved template: " + created.Name)
}

// =============================================================================
// EXTERNAL EVENTS
// =============================================================================

func (m Model) handleState(msg StateMsg) (tea.Model, tea.Cmd) {
	prevTheme := m.state.Theme
	prevCurrent := m.state.CurrentSession
	m.state = msg.State

	if m.state.Theme != prevTheme {
		m.pref = m.state.Theme
		m.styles = theme.NewStyles(m.pref)
		m.rebuildRenderer(m.width - 4)
	}

	m.refreshViewport(m.state.CurrentSession != prevCurrent)
	return m, nil
}

func (m Model) handleInFlight(msg InFlightMsg) (tea.Model, tea.Cmd) {
	m.streaming = !msg.Done
	if msg.Done {
		m.inflight = model.Message{}
		m.inflightSession = ""
	} else {
		m.inflight = msg.Message
		m.inflightSession = msg.SessionID
	}
	m.refreshViewport(true)
	return m, nil
}

// refreshViewport re-renders the conversation. jump forces a scroll to the
// bottom; otherwise the position is kept unless already at the bottom.
func (m *Model) refreshViewport(jump bool) {
	if !m.ready {
		return
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderConversation())
	if jump || atBottom {
		m.viewport.GotoBottom()
	}
}
