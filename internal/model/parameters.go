// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

// =============================================================================
// SAMPLING PARAMETERS
// =============================================================================

// Parameter bounds. These are the authoritative closed ranges; values
// outside them are clamped at the store boundary.
const (
	TemperatureMin = 0.0
	TemperatureMax = 2.0

	MaxTokensMin = 1
	MaxTokensMax = 8192

	TopPMin = 0.0
	TopPMax = 1.0

	FrequencyPenaltyMin = 0.0
	FrequencyPenaltyMax = 2.0

	PresencePenaltyMin = 0.0
	PresencePenaltyMax = 2.0
)

// Parameters holds the sampling knobs sent with a generation request.
type Parameters struct {
	Temperature      float64  `json:"temperature" toml:"temperature"`
	MaxTokens        int      `json:"maxTokens" toml:"max_tokens"`
	TopP             float64  `json:"topP" toml:"top_p"`
	FrequencyPenalty float64  `json:"frequencyPenalty" toml:"frequency_penalty"`
	PresencePenalty  float64  `json:"presencePenalty" toml:"presence_penalty"`
	Stop             []string `json:"stop,omitempty" toml:"stop,omitempty"`
}

// DefaultParameters returns the baseline parameter values.
func DefaultParameters() Parameters {
	return Parameters{
		Temperature:      0.7,
		MaxTokens:        2048,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
	}
}

// Clamp returns a copy of p with every field forced into its valid range.
func (p Parameters) Clamp() Parameters {
	p.Temperature = clampFloat(p.Temperature, TemperatureMin, TemperatureMax)
	p.MaxTokens = clampInt(p.MaxTokens, MaxTokensMin, MaxTokensMax)
	p.TopP = clampFloat(p.TopP, TopPMin, TopPMax)
	p.FrequencyPenalty = clampFloat(p.FrequencyPenalty, FrequencyPenaltyMin, FrequencyPenaltyMax)
	p.PresencePenalty = clampFloat(p.PresencePenalty, PresencePenaltyMin, PresencePenaltyMax)
	return p
}

// Clone returns a deep copy of p. Parameters are snapshotted into each new
// session, so the copy must not alias the Stop slice.
func (p Parameters) Clone() Parameters {
	out := p
	if p.Stop != nil {
		out.Stop = append([]string(nil), p.Stop...)
	}
	return out
}

// =============================================================================
// PARAMETER PATCH
// =============================================================================

// ParameterPatch is a typed partial update for Parameters. Nil fields are
// left untouched; set fields replace the current value after clamping.
type ParameterPatch struct {
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
	Stop             *[]string
}

// Apply merges the patch into p and returns the result, clamped to the
// valid ranges.
func (patch ParameterPatch) Apply(p Parameters) Parameters {
	out := p.Clone()
	if patch.Temperature != nil {
		out.Temperature = *patch.Temperature
	}
	if patch.MaxTokens != nil {
		out.MaxTokens = *patch.MaxTokens
	}
	if patch.TopP != nil {
		out.TopP = *patch.TopP
	}
	if patch.FrequencyPenalty != nil {
		out.FrequencyPenalty = *patch.FrequencyPenalty
	}
	if patch.PresencePenalty != nil {
		out.PresencePenalty = *patch.PresencePenalty
	}
	if patch.Stop != nil {
		out.Stop = append([]string(nil), (*patch.Stop)...)
	}
	return out.Clamp()
}

// IsZero reports whether the patch changes nothing.
func (patch ParameterPatch) IsZero() bool {
	return patch.Temperature == nil &&
		patch.MaxTokens == nil &&
		patch.TopP == nil &&
		patch.FrequencyPenalty == nil &&
		patch.PresencePenalty == nil &&
		patch.Stop == nil
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
