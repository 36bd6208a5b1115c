// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// newID creates an identifier of the form "<prefix>-<millis>-<suffix>".
// The millisecond timestamp keeps IDs roughly sortable by creation time;
// the UUID-derived suffix keeps them unique even when several are created
// within the same millisecond.
func newID(prefix string) string {
	return prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()[:8]
}

// NewSessionID creates a unique session ID.
func NewSessionID() string {
	return newID("session")
}

// NewTemplateID creates a unique template ID.
func NewTemplateID() string {
	return newID("template")
}

// NewMessageID creates a unique message ID.
func NewMessageID() string {
	return newID("msg")
}
