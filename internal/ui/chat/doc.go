// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat session screen for the TUI.
//
// A session owns the conversation history for one model and the generation
// worker that streams replies into it. The worker is spawned with the
// session and stopped with it; nothing survives navigation back to the
// model list.
//
// # Key Types
//
//   - Model: Bubble Tea model for one chat session
//   - WorkerState: NotReady, Ready or Disconnected
//   - KeyMap: Keyboard bindings
//
// # State Transitions
//
// The exported transition methods (PromptChanged, SubmitPrompt, HandleEvent,
// HandleClosed) are pure with respect to the terminal and are what Update
// calls. Tests drive them directly.
//
//	GenerationStarted  -> waiting, prompt cleared, empty assistant message opened
//	GenerationProgress -> chunk appended to the open message
//	GenerationEnded    -> waiting cleared, message closed, error (if any) recorded
//	Disconnected       -> worker unusable, submissions inert
//
// # Event Delivery
//
// Worker events reach Update through a single tea.Cmd that reads one event
// and is re-armed after each one. Combined with the worker's unbuffered
// channel this keeps exactly one chunk in flight.
package chat
