// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export serializes chat sessions to shareable files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"chatdeck/internal/model"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a session to a target format.
type Exporter interface {
	// Export renders the session and returns the file content.
	Export(sess model.Session) ([]byte, error)

	// FileExtension returns the extension for the format (e.g., ".json").
	FileExtension() string
}

// =============================================================================
// FILENAMES
// =============================================================================

// nonAlnum matches runs of characters outside [a-z0-9] after lowercasing.
var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a filesystem-safe name from a session title: lowercase,
// with every run of non-alphanumeric characters collapsed to a single
// underscore. "Test Chat!" with a ".json" extension yields "test_chat_.json".
func Filename(title, ext string) string {
	name := nonAlnum.ReplaceAllString(strings.ToLower(title), "_")
	if name == "" {
		name = "chat"
	}
	return name + ext
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// WriteToFile exports the session into dir using the given exporter and
// returns the output path. The filename is derived from the session title.
func WriteToFile(sess model.Session, exporter Exporter, dir string) (string, error) {
	content, err := exporter.Export(sess)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, Filename(sess.Title, exporter.FileExtension()))
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return outputPath, nil
}
