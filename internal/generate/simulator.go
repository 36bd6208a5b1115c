// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate produces assistant responses as ordered streams of chunks.
package generate

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatdeck/internal/model"
	"chatdeck/internal/util"
)

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator is a delay-based Generator that fabricates plausible responses
// locally. It first composes one complete synthetic body referencing the
// newest user message, then yields it word by word with randomized
// per-token delays to emulate network and generation latency.
type Simulator struct {
	// ResponseDelay is waited once before the first token, emulating
	// prompt evaluation plus network round trip.
	ResponseDelay DelayRange

	// TokenDelay is waited before each token.
	TokenDelay DelayRange

	mu  sync.Mutex
	rng *rand.Rand
}

// DefaultResponseDelay emulates a model's 1-3s think time before the
// first token.
var DefaultResponseDelay = DelayRange{Min: 1000 * time.Millisecond, Max: 3000 * time.Millisecond}

// DefaultTokenDelay emulates a 50-150ms per-word generation pace.
var DefaultTokenDelay = DelayRange{Min: 50 * time.Millisecond, Max: 150 * time.Millisecond}

// NewSimulator creates a simulator with the default delay ranges and a
// time-seeded random source.
func NewSimulator() *Simulator {
	return &Simulator{
		ResponseDelay: DefaultResponseDelay,
		TokenDelay:    DefaultTokenDelay,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSeededSimulator creates a simulator with deterministic randomness and
// no delays. Intended for tests.
func NewSeededSimulator(seed int64) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// jitter picks a duration within the range using the simulator's source.
func (g *Simulator) jitter(d DelayRange) time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return d.Min + time.Duration(g.rng.Int63n(int64(d.Max-d.Min)))
}

// pick selects a random element index in [0, n).
func (g *Simulator) pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// =============================================================================
// STREAMING
// =============================================================================

// Stream implements Generator. The body is composed up front, split into
// whitespace-delimited word tokens, and delivered one token per chunk. The
// final chunk and only the final chunk carries Final = true. Concatenating
// all chunk contents in delivery order reconstructs the body exactly.
func (g *Simulator) Stream(ctx context.Context, history []model.Message, modelID string, params model.Parameters) <-chan Chunk {
	out := make(chan Chunk)

	go func() {
		defer close(out)

		if err := g.ResponseDelay.sleep(ctx, g.jitter); err != nil {
			out <- Chunk{Err: err}
			return
		}

		body := g.composeBody(history)
		words := strings.Split(body, " ")

		for i, word := range words {
			if err := g.TokenDelay.sleep(ctx, g.jitter); err != nil {
				out <- Chunk{Err: err}
				return
			}

			content := word
			if i > 0 {
				content = " " + word
			}

			select {
			case out <- Chunk{Content: content, Final: i == len(words)-1}:
			case <-ctx.Done():
				out <- Chunk{Err: ctx.Err()}
				return
			}
		}
	}()

	return out
}

// Complete implements Generator. It waits the response delay once and
// returns the whole synthetic body with estimated usage counts.
func (g *Simulator) Complete(ctx context.Context, history []model.Message, modelID string, params model.Parameters) (*Response, error) {
	if err := g.ResponseDelay.sleep(ctx, g.jitter); err != nil {
		return nil, err
	}

	prompt := lastUserContent(history)
	body := g.composeBody(history)

	promptTokens := len(prompt) / 4
	completionTokens := len(body) / 4

	return &Response{
		ID:      "response-" + uuid.NewString(),
		Content: body,
		Model:   modelID,
		Usage: Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		FinishReason: "stop",
	}, nil
}

// =============================================================================
// BODY COMPOSITION
// =============================================================================

// openers are the canned first paragraphs a response starts from.
var openers = []string{
	"I understand your question. Let me provide a comprehensive answer based on the context you've provided.",
	"That's an interesting perspective. Here's how I would approach this problem:",
	"Based on my analysis, I can offer several insights that might be helpful.",
	"Thank you for the detailed question. Let me break this down step by step.",
	"This is a complex topic that deserves a thorough explanation. Here's my take:",
}

// echoMaxRunes bounds the quoted echo of the user's prompt in the body.
const echoMaxRunes = 50

// composeBody fabricates one complete response body referencing the newest
// user message: a random opener, a quoted echo of the prompt, a
// concise/detailed classification, a keyword-derived context line, and
// three canned sections.
func (g *Simulator) composeBody(history []model.Message) string {
	prompt := lastUserContent(history)

	opener := openers[g.pick(len(openers))]
	echo := util.TruncateRunes(prompt, echoMaxRunes)

	inquiry := "detailed"
	if util.RuneLen(prompt) < 50 {
		inquiry = "concise"
	}

	lower := strings.ToLower(prompt)
	analysis := "You're exploring a concept"
	if strings.Contains(lower, "how") {
		analysis = "You're asking about methodology"
	} else if strings.Contains(lower, "what") {
		analysis = "You're seeking clarification"
	}

	var sb strings.Builder
	sb.WriteString(opener)
	sb.WriteString("\n\nRegarding \"")
	sb.WriteString(echo)
	sb.WriteString("\":\n\nThis appears to be a ")
	sb.WriteString(inquiry)
	sb.WriteString(" inquiry that requires careful consideration. I'll provide a structured response that addresses your main points while offering practical insights.\n\n")
	sb.WriteString("1. **Context Analysis**: ")
	sb.WriteString(analysis)
	sb.WriteString("\n\n2. **Key Considerations**: The approach depends on several factors including scope, timeline, and available resources.")
	sb.WriteString("\n\n3. **Recommended Steps**: I suggest starting with a thorough assessment before proceeding with implementation.")
	sb.WriteString("\n\nWould you like me to elaborate on any of these points or explore specific aspects in more detail?")
	return sb.String()
}

// lastUserContent returns the content of the most recent user message in
// the history, or "" when there is none.
func lastUserContent(history []model.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
