// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export serializes chat sessions to shareable files.
package export

import (
	"fmt"
	"strings"
	"time"

	"chatdeck/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports sessions to a readable Markdown transcript.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export converts a session to Markdown.
func (e *MarkdownExporter) Export(sess model.Session) ([]byte, error) {
	if sess.ID == "" {
		return nil, fmt.Errorf("session is empty")
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", sess.Title))
	sb.WriteString(fmt.Sprintf("- **Model**: %s\n", sess.Model))
	sb.WriteString(fmt.Sprintf("- **Created**: %s\n", sess.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(sess.Messages)))
	sb.WriteString(fmt.Sprintf("- **Temperature**: %.2f\n", sess.Parameters.Temperature))
	sb.WriteString("\n---\n\n")

	for _, msg := range sess.Messages {
		sb.WriteString(fmt.Sprintf("## %s\n\n", msg.Role.DisplayName()))
		sb.WriteString(fmt.Sprintf("*%s*\n\n", msg.Timestamp.Format("2006-01-02 15:04:05")))
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}
