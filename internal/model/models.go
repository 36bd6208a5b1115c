// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"fmt"
	"strings"
)

// DefaultModel is the model selected before any catalog load or restore.
const DefaultModel = "gpt-3.5-turbo"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// Info contains catalog metadata about a selectable model.
// This is used for model selection and display in the UI.
type Info struct {
	// ID is the model identifier used in generation requests
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`

	// Provider identifies who provides the model
	Provider string `json:"provider"`

	// MaxTokens is the maximum number of tokens a response may contain
	MaxTokens int `json:"maxTokens"`

	// SupportsStreaming reports whether incremental responses are available
	SupportsStreaming bool `json:"supportsStreaming"`

	// ContextWindow is the total context size in tokens
	ContextWindow int `json:"contextWindow"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Registry returns the built-in model catalog served by the model catalog
// provider, most capable first.
func Registry() []Info {
	return []Info{
		{
			ID:                "gpt-4",
			Name:              "GPT-4",
			Description:       "Most capable model, excels at complex reasoning and creative tasks",
			Provider:          "OpenAI",
			MaxTokens:         8192,
			SupportsStreaming: true,
			ContextWindow:     8192,
		},
		{
			ID:                "gpt-3.5-turbo",
			Name:              "GPT-3.5 Turbo",
			Description:       "Fast and efficient for most conversational and analytical tasks",
			Provider:          "OpenAI",
			MaxTokens:         4096,
			SupportsStreaming: true,
			ContextWindow:     4096,
		},
		{
			ID:                "claude-2",
			Name:              "Claude 2",
			Description:       "Constitutional AI with strong safety and reasoning capabilities",
			Provider:          "Anthropic",
			MaxTokens:         100000,
			SupportsStreaming: true,
			ContextWindow:     100000,
		},
		{
			ID:                "gemini-pro",
			Name:              "Gemini Pro",
			Description:       "Google's multimodal AI with strong reasoning and code capabilities",
			Provider:          "Google",
			MaxTokens:         30720,
			SupportsStreaming: true,
			ContextWindow:     30720,
		},
		{
			ID:                "llama-2-70b",
			Name:              "LLaMA 2 70B",
			Description:       "Meta's open-source model with strong performance across domains",
			Provider:          "Meta",
			MaxTokens:         4096,
			SupportsStreaming: true,
			ContextWindow:     4096,
		},
	}
}

// =============================================================================
// MODEL LOOKUP
// =============================================================================

// LookupModel finds a catalog entry by ID or, failing that, by
// case-insensitive name match. Returns the entry and true if found.
func LookupModel(models []Info, nameOrID string) (Info, bool) {
	for _, info := range models {
		if info.ID == nameOrID {
			return info, true
		}
	}

	lower := strings.ToLower(nameOrID)
	for _, info := range models {
		if strings.ToLower(info.Name) == lower {
			return info, true
		}
	}

	return Info{}, false
}

// ContextString returns a formatted context window string for display.
func (m Info) ContextString() string {
	if m.ContextWindow >= 1000 {
		return fmt.Sprintf("%dK tokens", m.ContextWindow/1000)
	}
	return fmt.Sprintf("%d tokens", m.ContextWindow)
}
