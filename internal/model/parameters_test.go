// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestDefaultParameters(t *testing.T) {
	p := DefaultParameters()

	if p.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", p.Temperature)
	}
	if p.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %v, want 2048", p.MaxTokens)
	}
	if p.TopP != 1.0 {
		t.Errorf("TopP = %v, want 1.0", p.TopP)
	}
	if p.FrequencyPenalty != 0 || p.PresencePenalty != 0 {
		t.Errorf("penalties = %v/%v, want 0/0", p.FrequencyPenalty, p.PresencePenalty)
	}
}

func TestParametersClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Parameters
		want Parameters
	}{
		{
			name: "in range untouched",
			in:   Parameters{Temperature: 1.5, MaxTokens: 100, TopP: 0.5, FrequencyPenalty: 1, PresencePenalty: 2},
			want: Parameters{Temperature: 1.5, MaxTokens: 100, TopP: 0.5, FrequencyPenalty: 1, PresencePenalty: 2},
		},
		{
			name: "below minimums",
			in:   Parameters{Temperature: -1, MaxTokens: 0, TopP: -0.2, FrequencyPenalty: -3, PresencePenalty: -0.1},
			want: Parameters{Temperature: 0, MaxTokens: 1, TopP: 0, FrequencyPenalty: 0, PresencePenalty: 0},
		},
		{
			name: "above maximums",
			in:   Parameters{Temperature: 5, MaxTokens: 100000, TopP: 2, FrequencyPenalty: 9, PresencePenalty: 2.5},
			want: Parameters{Temperature: 2, MaxTokens: 8192, TopP: 1, FrequencyPenalty: 2, PresencePenalty: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Clamp()
			if got.Temperature != tt.want.Temperature ||
				got.MaxTokens != tt.want.MaxTokens ||
				got.TopP != tt.want.TopP ||
				got.FrequencyPenalty != tt.want.FrequencyPenalty ||
				got.PresencePenalty != tt.want.PresencePenalty {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParameterPatchApply verifies that only fields set in the patch change
// and everything else survives the merge untouched.
func TestParameterPatchApply(t *testing.T) {
	base := DefaultParameters()

	temp := 1.2
	got := ParameterPatch{Temperature: &temp}.Apply(base)

	if got.Temperature != 1.2 {
		t.Errorf("Temperature = %v, want 1.2", got.Temperature)
	}
	if got.MaxTokens != base.MaxTokens {
		t.Errorf("MaxTokens changed: %v, want %v", got.MaxTokens, base.MaxTokens)
	}
	if got.TopP != base.TopP {
		t.Errorf("TopP changed: %v, want %v", got.TopP, base.TopP)
	}
	if got.FrequencyPenalty != base.FrequencyPenalty || got.PresencePenalty != base.PresencePenalty {
		t.Error("penalties changed by unrelated patch")
	}
}

func TestParameterPatchApplyClampsSetFields(t *testing.T) {
	temp := 99.0
	tokens := -5
	got := ParameterPatch{Temperature: &temp, MaxTokens: &tokens}.Apply(DefaultParameters())

	if got.Temperature != TemperatureMax {
		t.Errorf("Temperature = %v, want %v", got.Temperature, TemperatureMax)
	}
	if got.MaxTokens != MaxTokensMin {
		t.Errorf("MaxTokens = %v, want %v", got.MaxTokens, MaxTokensMin)
	}
}

func TestParameterPatchIsZero(t *testing.T) {
	if !(ParameterPatch{}).IsZero() {
		t.Error("empty patch should be zero")
	}
	topP := 0.9
	if (ParameterPatch{TopP: &topP}).IsZero() {
		t.Error("patch with a set field should not be zero")
	}
}

func TestParametersCloneIndependence(t *testing.T) {
	p := DefaultParameters()
	p.Stop = []string{"a", "b"}

	c := p.Clone()
	c.Stop[0] = "mutated"

	if p.Stop[0] != "a" {
		t.Error("Clone shares the Stop slice with the original")
	}
}
