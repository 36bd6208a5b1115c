// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat coordinates message submission: it turns a prompt into a
// committed user message, drives one generation stream at a time, and
// commits the finished response back into the store.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"chatdeck/internal/catalog"
	"chatdeck/internal/generate"
	"chatdeck/internal/model"
	"chatdeck/internal/store"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyPrompt is returned when the prompt is empty or whitespace.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrBusy is returned when a generation is already in flight.
	ErrBusy = errors.New("a response is already being generated")
)

// Status messages shown while background work runs.
const (
	msgGenerating       = "Generating response..."
	msgLoadingModels    = "Loading models..."
	msgLoadingTemplates = "Loading templates..."
)

// User-visible failure messages. Kept generic; the underlying error goes to
// the debug log, not the user.
const (
	errGenerateFailed  = "Failed to generate response"
	errModelsFailed    = "Failed to load models"
	errTemplatesFailed = "Failed to load templates"
)

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// InFlightListener receives the accumulating assistant message after every
// chunk. sessionID identifies the session being generated into; done is true
// exactly once, after the message has been committed or discarded.
type InFlightListener func(sessionID string, msg model.Message, done bool)

// Orchestrator owns the send-message flow. At most one generation runs at a
// time; submissions while busy are rejected rather than queued.
type Orchestrator struct {
	store     *store.Store
	gen       generate.Generator
	models    catalog.ModelCatalog
	templates catalog.TemplateCatalog

	mu        sync.Mutex
	active    bool
	cancel    context.CancelFunc
	sessionID string
	partial   model.Message
	listener  InFlightListener
}

// New creates an orchestrator over the given collaborators.
func New(st *store.Store, gen generate.Generator, models catalog.ModelCatalog, templates catalog.TemplateCatalog) *Orchestrator {
	return &Orchestrator{
		store:     st,
		gen:       gen,
		models:    models,
		templates: templates,
	}
}

// OnInFlight registers the single in-flight listener. The listener is
// invoked from the generation goroutine, outside the orchestrator lock.
func (o *Orchestrator) OnInFlight(fn InFlightListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listener = fn
}

// Busy reports whether a generation is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active
}

// InFlight returns the accumulating assistant message and its session ID,
// or false when nothing is being generated.
func (o *Orchestrator) InFlight() (model.Message, string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active {
		return model.Message{}, "", false
	}
	return o.partial, o.sessionID, true
}

// CancelActive cancels the in-flight generation, if any. The generation
// goroutine handles the resulting error chunk and cleans up.
func (o *Orchestrator) CancelActive() {
	o.mu.Lock()
	cancel := o.cancel
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit validates the prompt, commits the user message, and starts a
// generation stream in the background. Returns ErrEmptyPrompt for blank
// input and ErrBusy while a previous generation is still running; in both
// cases the state is untouched.
//
// ctx bounds the generation, not the call: Submit returns as soon as the
// stream is started.
func (o *Orchestrator) Submit(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyPrompt
	}

	o.mu.Lock()
	if o.active {
		o.mu.Unlock()
		return ErrBusy
	}
	o.active = true
	genCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.partial = model.NewStreamingMessage()
	o.mu.Unlock()

	// Reuse the current session, or create one snapshotting the current
	// model and parameters.
	snapshot := o.store.Snapshot()
	sess, ok := snapshot.Current()
	if !ok {
		sess = o.store.CreateSession()
	}

	o.mu.Lock()
	o.sessionID = sess.ID
	o.mu.Unlock()

	// Commit the user message and retitle from the prompt. The title tracks
	// the most recent prompt, not the first.
	messages := append(append([]model.Message(nil), sess.Messages...), model.NewUserMessage(prompt))
	title := model.TitleFor(prompt)
	o.store.UpdateSession(sess.ID, model.SessionPatch{
		Title:    &title,
		Messages: &messages,
	})

	o.store.SetLoading(true, msgGenerating)

	go o.run(genCtx, cancel, sess.ID, messages, sess.Model, sess.Parameters)
	return nil
}

// run drains one generation stream and commits or discards the result.
func (o *Orchestrator) run(ctx context.Context, cancel context.CancelFunc, sessionID string, history []model.Message, modelID string, params model.Parameters) {
	defer cancel()

	var streamErr error
	for chunk := range o.gen.Stream(ctx, history, modelID, params) {
		if chunk.Err != nil {
			streamErr = chunk.Err
			break
		}

		o.mu.Lock()
		o.partial.Content += chunk.Content
		partial := o.partial
		listener := o.listener
		o.mu.Unlock()

		if listener != nil {
			listener(sessionID, partial, false)
		}
	}

	o.mu.Lock()
	final := o.partial
	listener := o.listener
	o.active = false
	o.cancel = nil
	o.sessionID = ""
	o.partial = model.Message{}
	o.mu.Unlock()

	switch {
	case streamErr == nil:
		// Commit the finished response onto the session's current messages,
		// which may have changed since the stream started.
		final.IsStreaming = false
		if sess, ok := o.store.Snapshot().Session(sessionID); ok {
			messages := append(append([]model.Message(nil), sess.Messages...), final)
			o.store.UpdateSession(sessionID, model.SessionPatch{Messages: &messages})
		}
		o.store.SetLoading(false, "")

	case errors.Is(streamErr, context.Canceled):
		// User abandoned the generation; discard silently.
		o.store.SetLoading(false, "")

	default:
		o.store.SetError(errGenerateFailed)
	}

	if listener != nil {
		listener(sessionID, final, true)
	}
}

// =============================================================================
// CATALOG LOADING
// =============================================================================

// LoadModels fetches the model catalog into the store. The current model
// falls back to the first catalog entry when the stored choice is unknown.
func (o *Orchestrator) LoadModels(ctx context.Context) error {
	o.store.SetLoading(true, msgLoadingModels)

	models, err := o.models.ListModels(ctx)
	if err != nil {
		o.store.SetError(errModelsFailed)
		return err
	}

	o.store.SetModels(models)
	if len(models) > 0 {
		known := false
		current := o.store.Snapshot().CurrentModel
		for _, m := range models {
			if m.ID == current {
				known = true
				break
			}
		}
		if !known {
			o.store.SetCurrentModel(models[0].ID)
		}
	}

	o.store.SetLoading(false, "")
	return nil
}

// LoadTemplates fetches the template catalog into the store. Persisted
// templates win: the catalog only seeds an empty list.
func (o *Orchestrator) LoadTemplates(ctx context.Context) error {
	if len(o.store.Snapshot().Templates) > 0 {
		return nil
	}

	o.store.SetLoading(true, msgLoadingTemplates)

	templates, err := o.templates.ListTemplates(ctx)
	if err != nil {
		o.store.SetError(errTemplatesFailed)
		return err
	}

	o.store.SetTemplates(templates)
	o.store.SetLoading(false, "")
	return nil
}
