// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across chatdeck.
//
// It contains rune-safe string truncation (titles and previews must never
// split a multi-byte character) and an atomic file writer used by the
// config and storage layers.
package util
