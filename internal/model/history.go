// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and models.
package model

import "errors"

var (
	// ErrNoOpenMessage is returned when a chunk arrives while no assistant
	// message is being streamed.
	ErrNoOpenMessage = errors.New("no open assistant message")

	// ErrMessageOpen is returned when a message is appended while the
	// assistant reply is still streaming.
	ErrMessageOpen = errors.New("assistant message still open")
)

// =============================================================================
// HISTORY TYPE
// =============================================================================

// History is the ordered message list of one conversation.
//
// Entries are append-only. The only in-place mutation allowed is content
// growth of the open message, which is always the last entry and always an
// assistant message. At most one message is open at a time.
//
// The zero value is an empty history ready to use.
type History struct {
	messages []ChatMessage
	open     bool
}

// Len returns the number of messages.
func (h *History) Len() int {
	return len(h.messages)
}

// IsOpen reports whether the last message is still receiving chunks.
func (h *History) IsOpen() bool {
	return h.open
}

// Append adds a closed message.
func (h *History) Append(msg ChatMessage) error {
	if h.open {
		return ErrMessageOpen
	}
	h.messages = append(h.messages, msg)
	return nil
}

// OpenAssistant appends an empty assistant message and marks it open.
func (h *History) OpenAssistant() error {
	if h.open {
		return ErrMessageOpen
	}
	h.messages = append(h.messages, NewAssistantMessage(""))
	h.open = true
	return nil
}

// AppendChunk grows the content of the open message.
func (h *History) AppendChunk(chunk string) error {
	if !h.open || len(h.messages) == 0 {
		return ErrNoOpenMessage
	}
	last := &h.messages[len(h.messages)-1]
	last.Content += chunk
	return nil
}

// Close ends streaming into the open message. Safe to call when nothing is open.
func (h *History) Close() {
	h.open = false
}

// LastOf returns the most recent message with the given role.
func (h *History) LastOf(role Role) (ChatMessage, bool) {
	for i := len(h.messages) - 1; i >= 0; i-- {
		if h.messages[i].Role == role {
			return h.messages[i], true
		}
	}
	return ChatMessage{}, false
}

// Snapshot returns an independent copy of the messages.
// Commands sent to the worker carry snapshots, never the live slice.
func (h *History) Snapshot() []ChatMessage {
	out := make([]ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}
