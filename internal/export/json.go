// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export serializes chat sessions to shareable files.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"chatdeck/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports sessions to JSON. The payload carries the title,
// model, parameters, messages, and creation timestamp; transient message
// flags are stripped by their omitempty tags.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// jsonSession is the exported document shape.
type jsonSession struct {
	Title      string           `json:"title"`
	Model      string           `json:"model"`
	Parameters model.Parameters `json:"parameters"`
	Messages   []model.Message  `json:"messages"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// Export converts a session to indented JSON.
func (e *JSONExporter) Export(sess model.Session) ([]byte, error) {
	if sess.ID == "" {
		return nil, fmt.Errorf("session is empty")
	}

	return json.MarshalIndent(jsonSession{
		Title:      sess.Title,
		Model:      sess.Model,
		Parameters: sess.Parameters,
		Messages:   sess.Messages,
		CreatedAt:  sess.CreatedAt,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
