// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chatdeck/internal/catalog"
	"chatdeck/internal/generate"
	"chatdeck/internal/model"
	"chatdeck/internal/store"
)

// newTestOrchestrator wires an orchestrator over a zero-delay simulator and
// zero-delay catalogs.
func newTestOrchestrator(t *testing.T) (*Orchestrator, *store.Store, *generate.Simulator, *catalog.Static) {
	t.Helper()
	st := store.New()
	gen := generate.NewSeededSimulator(1)
	cat := &catalog.Static{}
	return New(st, gen, cat, cat), st, gen, cat
}

// awaitDone returns a channel that closes when the in-flight generation
// finishes (committed or discarded).
func awaitDone(o *Orchestrator) <-chan struct{} {
	done := make(chan struct{})
	o.OnInFlight(func(_ string, _ model.Message, isDone bool) {
		if isDone {
			close(done)
		}
	})
	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("generation did not finish in time")
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmitEmptyPromptIsNoop(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)

	for _, prompt := range []string{"", "   ", "\n\t "} {
		if err := orch.Submit(context.Background(), prompt); !errors.Is(err, ErrEmptyPrompt) {
			t.Errorf("Submit(%q) = %v, want ErrEmptyPrompt", prompt, err)
		}
	}

	s := st.Snapshot()
	if len(s.Sessions) != 0 || s.Loading || s.Err != "" {
		t.Error("empty submissions must leave the state untouched")
	}
}

func TestSubmitHelloEndToEnd(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)
	done := awaitDone(orch)

	if err := orch.Submit(context.Background(), "Hello"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, done)

	s := st.Snapshot()
	sess, ok := s.Current()
	if !ok {
		t.Fatal("no current session after submission")
	}

	if sess.Title != "Hello" {
		t.Errorf("Title = %q, want Hello", sess.Title)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(sess.Messages))
	}

	user, assistant := sess.Messages[0], sess.Messages[1]
	if user.Role != model.RoleUser || user.Content != "Hello" {
		t.Errorf("first message = %s %q", user.Role, user.Content)
	}
	if assistant.Role != model.RoleAssistant {
		t.Errorf("second message role = %s, want assistant", assistant.Role)
	}
	if assistant.IsStreaming {
		t.Error("committed assistant message still flagged streaming")
	}
	if !strings.Contains(assistant.Content, `Regarding "Hello"`) {
		t.Errorf("assistant content does not echo the prompt: %q", assistant.Content)
	}

	if s.Loading || s.Err != "" {
		t.Errorf("Loading=%v Err=%q after completion, want idle", s.Loading, s.Err)
	}
}

func TestSubmitReusesCurrentSession(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)

	done := awaitDone(orch)
	if err := orch.Submit(context.Background(), "First question"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, done)

	done = awaitDone(orch)
	if err := orch.Submit(context.Background(), "Second question"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, done)

	s := st.Snapshot()
	if len(s.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(s.Sessions))
	}
	sess := s.Sessions[0]
	if len(sess.Messages) != 4 {
		t.Errorf("got %d messages, want 4", len(sess.Messages))
	}
	// The title tracks the latest prompt.
	if sess.Title != "Second question" {
		t.Errorf("Title = %q, want Second question", sess.Title)
	}
}

func TestSubmitTitleTruncation(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)
	done := awaitDone(orch)

	prompt := strings.Repeat("x", 60)
	if err := orch.Submit(context.Background(), prompt); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, done)

	sess, _ := st.Snapshot().Current()
	want := strings.Repeat("x", 50) + "..."
	if sess.Title != want {
		t.Errorf("Title = %q, want %q", sess.Title, want)
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	orch, st, gen, _ := newTestOrchestrator(t)
	// Slow the stream down so the second submit lands mid-generation.
	gen.TokenDelay = generate.DelayRange{Min: 10 * time.Millisecond, Max: 10 * time.Millisecond}

	done := awaitDone(orch)
	if err := orch.Submit(context.Background(), "First"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if err := orch.Submit(context.Background(), "Second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit = %v, want ErrBusy", err)
	}
	if !orch.Busy() {
		t.Error("Busy() = false during generation")
	}

	waitFor(t, done)

	sess, _ := st.Snapshot().Current()
	for _, m := range sess.Messages {
		if m.Role == model.RoleUser && m.Content == "Second" {
			t.Error("rejected submission still committed a user message")
		}
	}
	if orch.Busy() {
		t.Error("Busy() = true after completion")
	}
}

func TestCancelDiscardsSilently(t *testing.T) {
	orch, st, gen, _ := newTestOrchestrator(t)
	gen.TokenDelay = generate.DelayRange{Min: 10 * time.Millisecond, Max: 10 * time.Millisecond}

	done := awaitDone(orch)
	if err := orch.Submit(context.Background(), "Cancel me"); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	orch.CancelActive()
	waitFor(t, done)

	s := st.Snapshot()
	sess, _ := s.Current()

	// The user message stays; the partial response is discarded without an
	// error banner.
	if len(sess.Messages) != 1 {
		t.Errorf("got %d messages, want just the user message", len(sess.Messages))
	}
	if s.Err != "" {
		t.Errorf("Err = %q, want no error after cancellation", s.Err)
	}
	if s.Loading {
		t.Error("still loading after cancellation")
	}
}

func TestInFlightProgress(t *testing.T) {
	orch, _, gen, _ := newTestOrchestrator(t)
	gen.TokenDelay = generate.DelayRange{Min: time.Millisecond, Max: time.Millisecond}

	done := make(chan struct{})
	var lengths []int
	orch.OnInFlight(func(_ string, msg model.Message, isDone bool) {
		if isDone {
			close(done)
			return
		}
		lengths = append(lengths, len(msg.Content))
	})

	if err := orch.Submit(context.Background(), "Hello"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitFor(t, done)

	if len(lengths) < 2 {
		t.Fatalf("got %d progress callbacks, want several", len(lengths))
	}
	for i := 1; i < len(lengths); i++ {
		if lengths[i] < lengths[i-1] {
			t.Fatal("in-flight content must only grow")
		}
	}
}

// =============================================================================
// CATALOG LOADING
// =============================================================================

func TestLoadModels(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)

	if err := orch.LoadModels(context.Background()); err != nil {
		t.Fatalf("LoadModels: %v", err)
	}

	s := st.Snapshot()
	if len(s.Models) != 5 {
		t.Errorf("got %d models, want 5", len(s.Models))
	}
	if s.Loading || s.Err != "" {
		t.Error("LoadModels left a loading or error state behind")
	}
}

func TestLoadModelsFallsBackToFirst(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)
	st.SetCurrentModel("model-that-was-removed")

	if err := orch.LoadModels(context.Background()); err != nil {
		t.Fatalf("LoadModels: %v", err)
	}

	s := st.Snapshot()
	if s.CurrentModel != s.Models[0].ID {
		t.Errorf("CurrentModel = %q, want fallback to %q", s.CurrentModel, s.Models[0].ID)
	}
}

func TestLoadModelsFailure(t *testing.T) {
	orch, st, _, cat := newTestOrchestrator(t)
	cat.Fail = errors.New("catalog down")

	if err := orch.LoadModels(context.Background()); err == nil {
		t.Fatal("LoadModels should propagate the failure")
	}

	s := st.Snapshot()
	if s.Err != "Failed to load models" {
		t.Errorf("Err = %q", s.Err)
	}
	if s.Loading {
		t.Error("still loading after failure")
	}
}

func TestLoadTemplatesSeedsOnlyWhenEmpty(t *testing.T) {
	orch, st, _, _ := newTestOrchestrator(t)

	if err := orch.LoadTemplates(context.Background()); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	if got := st.Snapshot().Templates; len(got) != 2 {
		t.Fatalf("got %d templates, want 2", len(got))
	}

	// Persisted templates win over the catalog.
	st.SetTemplates([]model.PromptTemplate{model.NewTemplate(model.TemplateDraft{Name: "Mine", Content: "c"})})
	if err := orch.LoadTemplates(context.Background()); err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	got := st.Snapshot().Templates
	if len(got) != 1 || got[0].Name != "Mine" {
		t.Errorf("catalog overwrote persisted templates: %+v", got)
	}
}
