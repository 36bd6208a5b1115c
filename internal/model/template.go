// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import "time"

// =============================================================================
// PROMPT TEMPLATE TYPE
// =============================================================================

// PromptTemplate is a reusable, named prompt body a user can load into the
// input field. Bodies may carry {placeholder} markers; no substitution is
// performed anywhere, they are loaded verbatim.
type PromptTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateDraft is the caller-supplied portion of a new template. The store
// assigns the ID and timestamps on insertion.
type TemplateDraft struct {
	Name        string
	Content     string
	Description string
	Category    string
}

// NewTemplate builds a PromptTemplate from a draft with a fresh ID and
// created/updated timestamps both set to now.
func NewTemplate(draft TemplateDraft) PromptTemplate {
	now := time.Now()
	return PromptTemplate{
		ID:          NewTemplateID(),
		Name:        draft.Name,
		Content:     draft.Content,
		Description: draft.Description,
		Category:    draft.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SeedTemplates returns the built-in prompt templates served by the
// template catalog.
func SeedTemplates() []PromptTemplate {
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	return []PromptTemplate{
		{
			ID:          "template-1",
			Name:        "Creative Writing",
			Content:     "Write a creative story about {topic} in the style of {author}. Focus on {theme} and make it approximately {length} words long.",
			Description: "Template for creative writing with customizable parameters",
			Category:    "Creative",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:          "template-2",
			Name:        "Code Review",
			Content:     "Please review the following {language} code:\n\n{code}\n\nProvide feedback on:\n1. Code quality and best practices\n2. Potential bugs or issues\n3. Performance optimizations\n4. Readability and maintainability",
			Description: "Comprehensive code review template",
			Category:    "Development",
			CreatedAt:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			UpdatedAt:   updated,
		},
	}
}
