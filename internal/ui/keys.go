// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal chat interface.
//
// This file defines keyboard bindings for the chat view.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit         key.Binding
	Cancel         key.Binding
	NewSession     key.Binding
	NextSession    key.Binding
	PrevSession    key.Binding
	DeleteSession  key.Binding
	Export         key.Binding
	CopyResponse   key.Binding
	CycleTheme     key.Binding
	CycleModel     key.Binding
	UseTemplate    key.Binding
	SaveTemplate   key.Binding
	DeleteTemplate key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel / dismiss"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextSession: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("C-j", "next chat"),
		),
		PrevSession: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "prev chat"),
		),
		DeleteSession: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("C-w", "delete chat"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		CopyResponse: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy response"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		CycleModel: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "model"),
		),
		UseTemplate: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "insert template"),
		),
		SaveTemplate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "save as template"),
		),
		DeleteTemplate: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete template"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the key bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.NewSession, k.Export, k.CycleTheme, k.Quit}
}
