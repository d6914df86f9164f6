// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and models.
//
// This package defines the core domain types shared by the generation worker
// and the chat session: messages, the append-only conversation history and
// the locally available model snapshot.
//
// # Key Types
//
//   - Role: Message role enumeration (user, assistant, system, tool)
//   - ChatMessage: Single message with role and content
//   - History: Ordered conversation with at most one open assistant message
//   - LocalModel: Name and size of a model installed on the backend
//
// # Usage
//
// Stream a reply into a history:
//
//	var h model.History
//	_ = h.Append(model.NewUserMessage("hello"))
//	_ = h.OpenAssistant()
//	_ = h.AppendChunk("Hi")
//	_ = h.AppendChunk(" there!")
//	h.Close()
package model
