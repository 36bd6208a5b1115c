// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the terminal chat interface.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatdeck/internal/model"
	"chatdeck/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Starting chatdeck..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.inputView(),
		m.statusView(),
	)
}

// headerView renders the title bar: session title, model, parameters,
// session size, and session position.
func (m Model) headerView() string {
	title := model.DefaultTitle
	counts := ""
	if sess, ok := m.currentSession(); ok {
		title = sess.Title
		if !sess.IsEmpty() {
			counts = fmt.Sprintf(" · %d msgs · ~%d tok", sess.MessageCount(), sess.EstimateTokens())
		}
	}

	position := ""
	if n := len(m.state.Sessions); n > 0 {
		position = fmt.Sprintf("  [%d/%d]", m.sessionIndex()+1, n)
	}

	modelName := m.state.CurrentModel
	if info, ok := model.LookupModel(m.state.Models, m.state.CurrentModel); ok {
		modelName = info.Name
	}

	tag := fmt.Sprintf("  ·  %s  ·  temp %.1f · max %d%s%s",
		modelName, m.state.Parameters.Temperature, m.state.Parameters.MaxTokens,
		counts, position)

	// The title yields to the fixed tag so the header stays on one line.
	avail := m.width - util.StringWidth(tag) - 2
	line := m.styles.Title.Render(util.TruncateWidth(title, avail)) +
		m.styles.ModelTag.Render(tag)

	return m.styles.Header.Width(m.width).Render(line)
}

// inputView renders the prompt box.
func (m Model) inputView() string {
	return m.styles.InputBox.Width(m.width - 2).Render(m.input.View())
}

// statusView renders the bottom line: error, loading, transient status, or
// shortcut help, in that priority order.
func (m Model) statusView() string {
	var line string

	switch {
	case m.state.Err != "":
		line = m.styles.ErrorBox.Render("✗ "+m.state.Err) +
			m.styles.ShortcutDesc.Render("  Esc to dismiss")

	case m.state.Loading:
		line = m.spinner.View() + " " + m.styles.LoadingText.Render(m.state.LoadingMessage)

	case m.status != "":
		line = m.styles.LoadingText.Render(m.status)

	default:
		var parts []string
		for _, b := range m.keyMap.ShortHelp() {
			h := b.Help()
			parts = append(parts,
				m.styles.ShortcutKey.Render(h.Key)+" "+m.styles.ShortcutDesc.Render(h.Desc))
		}
		line = strings.Join(parts, "  ")
	}

	return m.styles.StatusBar.Width(m.width).Render(line)
}

// =============================================================================
// CONVERSATION RENDERING
// =============================================================================

// renderConversation renders the current session's messages plus the
// in-flight assistant message, if it belongs to the current session.
func (m Model) renderConversation() string {
	sess, ok := m.currentSession()
	if !ok {
		return m.styles.LoadingText.Render("\n  No messages yet. Type below and press Enter.\n")
	}

	var sb strings.Builder
	for _, msg := range sess.Messages {
		sb.WriteString(m.renderMessage(msg))
	}

	if m.streaming && m.inflightSession == sess.ID {
		sb.WriteString(m.renderStreaming(m.inflight))
	}

	if sb.Len() == 0 {
		return m.styles.LoadingText.Render("\n  No messages yet. Type below and press Enter.\n")
	}
	return sb.String()
}

// renderMessage renders one committed message with its role label and time.
func (m Model) renderMessage(msg model.Message) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(m.roleLabel(msg.Role))
	sb.WriteString(m.styles.ShortcutDesc.Render("  " + timestamp(msg.Timestamp)))
	sb.WriteString("\n")
	sb.WriteString(m.renderBody(msg))
	sb.WriteString("\n")

	return sb.String()
}

// renderStreaming renders the accumulating assistant message with a cursor.
func (m Model) renderStreaming(msg model.Message) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(m.roleLabel(model.RoleAssistant))
	sb.WriteString("\n")
	// Streaming text is rendered raw; markdown structure is incomplete
	// mid-stream and glamour would flicker on every chunk.
	sb.WriteString(m.styles.MessageBody.Render(msg.Content))
	sb.WriteString(m.styles.StreamCursor.Render("▌"))
	sb.WriteString("\n")

	return sb.String()
}

// renderBody renders message content. Assistant messages go through the
// markdown renderer; user and system messages stay plain.
func (m Model) renderBody(msg model.Message) string {
	if msg.Role == model.RoleAssistant && m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return m.styles.MessageBody.Render(msg.Content)
}

// roleLabel renders the styled sender name.
func (m Model) roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return m.styles.UserLabel.Render(role.DisplayName())
	case model.RoleAssistant:
		return m.styles.AssistantLabel.Render(role.DisplayName())
	default:
		return m.styles.SystemLabel.Render(role.DisplayName())
	}
}
