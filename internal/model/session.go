// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"chatdeck/internal/util"
)

// TitleMaxRunes is the maximum session title length before an ellipsis
// marker is appended.
const TitleMaxRunes = 50

// DefaultTitle is the title of a session before its first user message.
const DefaultTitle = "New Chat"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one ordered conversation thread with its own model and
// parameter snapshot.
//
// The message list is treated as append-only and is never mutated in place
// from outside the orchestrator; every update replaces the slice with a new
// sequence so history is trivially snapshot-able.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Parameters is the sampling snapshot captured at creation time,
	// not a live reference to the current app parameters.
	Parameters Parameters `json:"parameters"`
}

// NewSession creates a new session with a fresh ID, the default title, an
// empty message list, and the supplied model/parameter snapshot.
func NewSession(modelID string, params Parameters) Session {
	now := time.Now()
	return Session{
		ID:         NewSessionID(),
		Title:      DefaultTitle,
		Messages:   []Message{},
		Model:      modelID,
		Parameters: params.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TitleFor derives a session title from a prompt: the first TitleMaxRunes
// characters, with a trailing ellipsis marker when the prompt is longer.
func TitleFor(prompt string) string {
	return util.TruncateRunes(prompt, TitleMaxRunes)
}

// MessageCount returns the number of messages in the session.
func (s Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if the session has no messages.
func (s Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastMessage returns the most recent message and true, or a zero Message
// and false when the session is empty.
func (s Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy of the session. Messages are value types, so
// copying the slice is sufficient.
func (s Session) Clone() Session {
	out := s
	out.Parameters = s.Parameters.Clone()
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}

// EstimateTokens estimates the total token count of the session history.
func (s Session) EstimateTokens() int {
	total := 0
	for _, msg := range s.Messages {
		total += msg.EstimateTokens()
	}
	return total
}

// =============================================================================
// SESSION PATCH
// =============================================================================

// SessionPatch is a typed partial update for a session. Nil fields are left
// untouched. The Messages field replaces the whole list, preserving the
// pure-functional update discipline.
type SessionPatch struct {
	Title      *string
	Messages   *[]Message
	Model      *string
	Parameters *Parameters
}

// Apply merges the patch into s and refreshes the updated timestamp.
func (patch SessionPatch) Apply(s Session) Session {
	out := s.Clone()
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Messages != nil {
		out.Messages = append([]Message(nil), (*patch.Messages)...)
	}
	if patch.Model != nil {
		out.Model = *patch.Model
	}
	if patch.Parameters != nil {
		out.Parameters = patch.Parameters.Clone()
	}
	out.UpdatedAt = time.Now()
	return out
}
