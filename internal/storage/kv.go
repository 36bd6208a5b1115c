// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key-value store and the persistence
// bridge that mirrors application state into it.
package storage

import "sync"

// =============================================================================
// KEY-VALUE CONTRACT
// =============================================================================

// KV is the narrow contract the persistence bridge depends on: a
// synchronous string-keyed store. Writes overwrite prior values. Storage
// failure handling is out of scope; implementations absorb errors rather
// than surfacing them to callers.
type KV interface {
	// Get returns the value for key and true, or "" and false when the
	// key has never been set.
	Get(key string) (string, bool)

	// Set stores value under key, overwriting any prior value.
	Set(key, value string)
}

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemoryKV is a map-backed KV. Used in tests and as a fallback when the
// on-disk store cannot be opened.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements KV.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set implements KV.
func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
