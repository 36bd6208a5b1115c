// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package generate produces assistant responses as ordered streams of
// content increments.
//
// The package defines the streaming contract the rest of the application
// consumes — ordered increments, an explicit finality flag, and suspension
// between increments — and a Simulator implementation that stands in for a
// real model-serving backend. Any real backend substituted here must
// preserve the same contract.
package generate

import (
	"context"
	"time"

	"chatdeck/internal/model"
)

// =============================================================================
// STREAMING CONTRACT
// =============================================================================

// Chunk is a single unit of generated text delivered by a stream.
type Chunk struct {
	// Content is the text increment for this chunk.
	Content string

	// Final is true on the last chunk of a stream and only the last.
	Final bool

	// Err is set when the stream failed or was cancelled. A chunk with a
	// non-nil Err is always the last one delivered.
	Err error
}

// Generator produces a lazy, finite, forward-only sequence of chunks for a
// message history. Each call is a fresh generation pass; streams are not
// restartable.
//
// The returned channel is closed after the final chunk (or after an error
// chunk). Consumers must drain the channel to completion; cancelling ctx
// stops the stream at its next suspension point and yields one error chunk.
type Generator interface {
	Stream(ctx context.Context, history []model.Message, modelID string, params model.Parameters) <-chan Chunk

	// Complete runs a full generation pass and returns the complete
	// response in one piece.
	Complete(ctx context.Context, history []model.Message, modelID string, params model.Parameters) (*Response, error)
}

// =============================================================================
// RESPONSE
// =============================================================================

// Usage holds token accounting for a completed generation, estimated with
// the ~4 characters per token heuristic.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Response is the result of a non-streaming generation pass.
type Response struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	Model        string `json:"model"`
	Usage        Usage  `json:"usage"`
	FinishReason string `json:"finishReason"`
}

// =============================================================================
// DELAY RANGE
// =============================================================================

// DelayRange is a closed interval of durations. Zero ranges suspend only
// at the scheduler (useful in tests).
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// sleep suspends for a randomized duration within the range, returning
// early with ctx.Err() when the context is cancelled. This is the
// generator's cancellation point.
func (d DelayRange) sleep(ctx context.Context, jitter func(DelayRange) time.Duration) error {
	wait := jitter(d)
	if wait <= 0 {
		// Still honor cancellation even without a timer.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
