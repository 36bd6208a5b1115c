// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat sessions, messages, sampling parameters, prompt
// templates, and model catalog entries.
//
// # Key Types
//
//   - Session: an ordered conversation thread with its own model and
//     parameter snapshot
//   - Message: a single message with role, content, timestamp, and a
//     transient streaming flag
//   - Parameters: the numeric sampling knobs (temperature, max tokens,
//     top-p, frequency/presence penalty, stop sequences)
//   - PromptTemplate: a reusable, named prompt body
//   - Info: catalog metadata for a selectable model
//
// # Usage
//
// Create a session and append a message:
//
//	sess := model.NewSession("gpt-3.5-turbo", model.DefaultParameters())
//	sess.Messages = append(sess.Messages, model.NewUserMessage("Hello!"))
package model
