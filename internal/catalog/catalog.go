// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog provides the model and template catalog providers.
//
// Both providers may be slow or fail; callers show a loading indicator
// while a list call is pending and surface a generic error on failure.
// The static implementations here simulate that contract with small
// delays and an injectable failure, standing in for a real catalog
// service behind the same interfaces.
package catalog

import (
	"context"
	"time"

	"chatdeck/internal/model"
)

// =============================================================================
// PROVIDER CONTRACTS
// =============================================================================

// ModelCatalog lists the models available for selection.
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]model.Info, error)
}

// TemplateCatalog lists the prompt templates available for seeding.
type TemplateCatalog interface {
	ListTemplates(ctx context.Context) ([]model.PromptTemplate, error)
}

// =============================================================================
// STATIC PROVIDER
// =============================================================================

// Static serves the built-in model registry and seed templates after a
// simulated fetch delay.
type Static struct {
	// ModelDelay is waited before a model list is returned.
	ModelDelay time.Duration

	// TemplateDelay is waited before a template list is returned.
	TemplateDelay time.Duration

	// Fail, when non-nil, is returned by every list call. Used to
	// exercise the failure contract in tests.
	Fail error
}

// NewStatic creates a static provider with the default fetch delays.
func NewStatic() *Static {
	return &Static{
		ModelDelay:    500 * time.Millisecond,
		TemplateDelay: 300 * time.Millisecond,
	}
}

// ListModels implements ModelCatalog.
func (c *Static) ListModels(ctx context.Context) ([]model.Info, error) {
	if err := c.wait(ctx, c.ModelDelay); err != nil {
		return nil, err
	}
	if c.Fail != nil {
		return nil, c.Fail
	}
	return model.Registry(), nil
}

// ListTemplates implements TemplateCatalog.
func (c *Static) ListTemplates(ctx context.Context) ([]model.PromptTemplate, error) {
	if err := c.wait(ctx, c.TemplateDelay); err != nil {
		return nil, err
	}
	if c.Fail != nil {
		return nil, c.Fail
	}
	return model.SeedTemplates(), nil
}

// wait suspends for the fetch delay, honoring cancellation.
func (c *Static) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
