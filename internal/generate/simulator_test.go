// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package generate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chatdeck/internal/model"
)

func history(prompt string) []model.Message {
	return []model.Message{model.NewUserMessage(prompt)}
}

// drain collects all chunks from a stream until the channel closes.
func drain(ch <-chan Chunk) []Chunk {
	var chunks []Chunk
	for c := range ch {
		chunks = append(chunks, c)
	}
	return chunks
}

func TestStreamConcatenationMatchesBody(t *testing.T) {
	gen := NewSeededSimulator(1)

	chunks := drain(gen.Stream(context.Background(), history("Hello"), "gpt-4", model.DefaultParameters()))
	if len(chunks) == 0 {
		t.Fatal("stream delivered no chunks")
	}

	var sb strings.Builder
	for _, c := range chunks {
		if c.Err != nil {
			t.Fatalf("unexpected stream error: %v", c.Err)
		}
		sb.WriteString(c.Content)
	}
	got := sb.String()

	// Determinism: the same seed composes the same body.
	want := NewSeededSimulator(1).composeBody(history("Hello"))
	if got != want {
		t.Errorf("concatenated stream differs from composed body\ngot:  %q\nwant: %q", got, want)
	}

	if !strings.Contains(got, `Regarding "Hello"`) {
		t.Errorf("body does not echo the prompt: %q", got)
	}
}

func TestStreamSingleFinalChunk(t *testing.T) {
	gen := NewSeededSimulator(7)

	chunks := drain(gen.Stream(context.Background(), history("Hello"), "gpt-4", model.DefaultParameters()))

	finals := 0
	for i, c := range chunks {
		if c.Final {
			finals++
			if i != len(chunks)-1 {
				t.Errorf("final flag on chunk %d of %d", i, len(chunks))
			}
		}
	}
	if finals != 1 {
		t.Errorf("got %d final chunks, want exactly 1", finals)
	}
}

func TestStreamTokenSpacing(t *testing.T) {
	gen := NewSeededSimulator(3)

	chunks := drain(gen.Stream(context.Background(), history("Hello"), "gpt-4", model.DefaultParameters()))

	if strings.HasPrefix(chunks[0].Content, " ") {
		t.Error("first chunk must not carry a leading space")
	}
	for i, c := range chunks[1:] {
		if !strings.HasPrefix(c.Content, " ") {
			t.Errorf("chunk %d missing leading space: %q", i+1, c.Content)
		}
	}
}

func TestStreamCancellation(t *testing.T) {
	gen := NewSeededSimulator(5)
	// Real delays so cancellation lands mid-stream.
	gen.ResponseDelay = DelayRange{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}
	gen.TokenDelay = DelayRange{Min: 5 * time.Millisecond, Max: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	ch := gen.Stream(ctx, history("Hello"), "gpt-4", model.DefaultParameters())

	time.Sleep(20 * time.Millisecond)
	cancel()

	chunks := drain(ch)
	if len(chunks) == 0 {
		t.Fatal("expected at least the error chunk")
	}
	last := chunks[len(chunks)-1]
	if !errors.Is(last.Err, context.Canceled) {
		t.Errorf("last chunk error = %v, want context.Canceled", last.Err)
	}
	for _, c := range chunks[:len(chunks)-1] {
		if c.Err != nil || c.Final {
			t.Error("error chunk must be the only terminal chunk")
		}
	}
}

func TestComposeBodyClassification(t *testing.T) {
	gen := NewSeededSimulator(2)

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"how prompt", "How does gradient descent work?", "You're asking about methodology"},
		{"what prompt", "what is a monad", "You're seeking clarification"},
		{"other prompt", "Tell me a story", "You're exploring a concept"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := gen.composeBody(history(tt.prompt))
			if !strings.Contains(body, tt.want) {
				t.Errorf("body for %q missing %q", tt.prompt, tt.want)
			}
		})
	}
}

func TestComposeBodyInquiryLength(t *testing.T) {
	gen := NewSeededSimulator(2)

	short := gen.composeBody(history("short"))
	if !strings.Contains(short, "a concise inquiry") {
		t.Error("short prompt should classify as concise")
	}

	long := gen.composeBody(history(strings.Repeat("z", 60)))
	if !strings.Contains(long, "a detailed inquiry") {
		t.Error("long prompt should classify as detailed")
	}
	// Echo is bounded at 50 runes plus the ellipsis marker.
	if !strings.Contains(long, strings.Repeat("z", 50)+"...") {
		t.Error("long prompt echo not truncated")
	}
}

func TestCompleteResponse(t *testing.T) {
	gen := NewSeededSimulator(4)

	resp, err := gen.Complete(context.Background(), history("Hello"), "claude-2", model.DefaultParameters())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !strings.HasPrefix(resp.ID, "response-") {
		t.Errorf("ID = %q, want response- prefix", resp.ID)
	}
	if resp.Model != "claude-2" {
		t.Errorf("Model = %q, want claude-2", resp.Model)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want stop", resp.FinishReason)
	}
	if resp.Usage.PromptTokens != len("Hello")/4 {
		t.Errorf("PromptTokens = %d", resp.Usage.PromptTokens)
	}
	if resp.Usage.CompletionTokens != len(resp.Content)/4 {
		t.Errorf("CompletionTokens = %d, want %d", resp.Usage.CompletionTokens, len(resp.Content)/4)
	}
	if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
		t.Error("TotalTokens mismatch")
	}
}

func TestCompleteCancelled(t *testing.T) {
	gen := NewSeededSimulator(4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.Complete(ctx, history("Hello"), "gpt-4", model.DefaultParameters()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
