// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key-value store and the persistence bridge.
package storage

import (
	"encoding/json"
	"sync"

	"chatdeck/internal/model"
	"chatdeck/internal/store"
)

// =============================================================================
// PERSISTENCE BRIDGE
// =============================================================================

// Storage keys. The theme lives under its own key so a corrupt state blob
// cannot take the appearance preference down with it.
const (
	KeyTheme = "chatdeck-theme"
	KeyState = "chatdeck-state"
)

// persistedState is the durable subset of the application state. Transient
// fields (loading, error, current session pointer) are deliberately absent.
type persistedState struct {
	CurrentModel string                 `json:"currentModel"`
	Parameters   model.Parameters       `json:"parameters"`
	Sessions     []model.Session        `json:"sessions"`
	Templates    []model.PromptTemplate `json:"templates"`
}

// Bridge mirrors state transitions into a KV. It observes the store and
// writes back the durable subset after every change, skipping writes whose
// serialized form matches the last one written.
type Bridge struct {
	kv KV

	mu        sync.Mutex
	lastTheme string
	lastState string
}

// NewBridge creates a bridge over kv. Call Restore before Attach so the
// first observed transition does not clobber the recovered state.
func NewBridge(kv KV) *Bridge {
	return &Bridge{kv: kv}
}

// Restore reads the persisted theme and state and overlays them onto the
// store. Missing or malformed entries are skipped; restore always succeeds.
func (b *Bridge) Restore(st *store.Store) {
	var rec store.Recovered

	if raw, ok := b.kv.Get(KeyTheme); ok {
		theme := model.Theme(raw)
		if theme.Valid() {
			rec.Theme = &theme
		}
	}

	if raw, ok := b.kv.Get(KeyState); ok {
		var ps persistedState
		if err := json.Unmarshal([]byte(raw), &ps); err == nil {
			if ps.CurrentModel != "" {
				rec.CurrentModel = &ps.CurrentModel
			}
			rec.Parameters = &ps.Parameters
			if ps.Sessions != nil {
				rec.Sessions = &ps.Sessions
			}
			if ps.Templates != nil {
				rec.Templates = &ps.Templates
			}
		}
	}

	st.LoadInitial(rec)
}

// Attach subscribes the bridge to the store and returns the unsubscribe
// function. The bridge primes its write cache from the current snapshot so
// attaching does not trigger an immediate write.
func (b *Bridge) Attach(st *store.Store) func() {
	snapshot := st.Snapshot()
	b.mu.Lock()
	b.lastTheme = string(snapshot.Theme)
	b.lastState = encodeState(snapshot)
	b.mu.Unlock()

	return st.Subscribe(b.persist)
}

// persist writes the durable subset of the snapshot, key by key, skipping
// keys whose encoding is unchanged.
func (b *Bridge) persist(s store.State) {
	theme := string(s.Theme)
	state := encodeState(s)

	b.mu.Lock()
	writeTheme := theme != b.lastTheme
	writeState := state != b.lastState
	b.lastTheme = theme
	b.lastState = state
	b.mu.Unlock()

	if writeTheme {
		b.kv.Set(KeyTheme, theme)
	}
	if writeState {
		b.kv.Set(KeyState, state)
	}
}

// encodeState serializes the durable subset. Marshal cannot fail for these
// types, so the error is discarded.
func encodeState(s store.State) string {
	raw, _ := json.Marshal(persistedState{
		CurrentModel: s.CurrentModel,
		Parameters:   s.Parameters,
		Sessions:     s.Sessions,
		Templates:    s.Templates,
	})
	return string(raw)
}
