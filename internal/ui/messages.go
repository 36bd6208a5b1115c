// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal chat interface.
//
// This file defines the Bubble Tea messages that carry external events into
// the update loop, and the commands that produce them.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatdeck/internal/model"
	"chatdeck/internal/store"
)

// =============================================================================
// MESSAGES
// =============================================================================

// StateMsg carries a fresh state snapshot after a store transition. Sent
// via Program.Send from the store subscription.
type StateMsg struct {
	State store.State
}

// InFlightMsg carries the accumulating assistant message during streaming.
// Done is true once, after the message was committed or discarded.
type InFlightMsg struct {
	SessionID string
	Message   model.Message
	Done      bool
}

// submitResultMsg reports the outcome of a submission attempt.
type submitResultMsg struct {
	err error
}

// catalogsLoadedMsg reports that startup catalog loading finished.
type catalogsLoadedMsg struct {
	modelErr    error
	templateErr error
}

// exportedMsg reports an export attempt.
type exportedMsg struct {
	path string
	err  error
}

// statusExpiredMsg clears a transient status line.
type statusExpiredMsg struct {
	id int
}

// =============================================================================
// COMMANDS
// =============================================================================

// loadCatalogs fetches models and templates in the background.
func (m Model) loadCatalogs() tea.Cmd {
	return func() tea.Msg {
		ctx, cancelCtx := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelCtx()

		modelErr := m.orch.LoadModels(ctx)
		templateErr := m.orch.LoadTemplates(ctx)
		return catalogsLoadedMsg{modelErr: modelErr, templateErr: templateErr}
	}
}

// submit hands the prompt to the orchestrator.
func (m Model) submit(prompt string) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{err: m.orch.Submit(context.Background(), prompt)}
	}
}

// expireStatus clears the transient status after a delay, unless a newer
// status replaced it.
func expireStatus(id int) tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}
