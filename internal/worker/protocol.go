// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package worker

import (
	"errors"

	"github.com/jeranaias/rigchat/internal/model"
)

var (
	// ErrWorkerGone is returned by TrySend once the worker has exited.
	ErrWorkerGone = errors.New("generation worker has stopped")

	// ErrInboxFull is returned by TrySend when the command queue is saturated.
	ErrInboxFull = errors.New("generation worker inbox is full")
)

// =============================================================================
// COMMANDS (UI -> worker)
// =============================================================================

// Command is a request sent to the worker.
type Command interface {
	isCommand()
}

// Generate asks the worker to stream a reply to Prompt.
// History is a snapshot of the conversation before Prompt.
type Generate struct {
	Prompt  string
	History []model.ChatMessage
	Model   string
}

func (Generate) isCommand() {}

// =============================================================================
// EVENTS (worker -> UI)
// =============================================================================

// Event is a notification emitted by the worker.
type Event interface {
	isEvent()
}

// Ready is emitted once, after the backend health check succeeds.
type Ready struct {
	Sender Sender
}

// GenerationStarted precedes the first chunk of a reply.
type GenerationStarted struct{}

// GenerationProgress carries one non-empty chunk of the reply.
type GenerationProgress struct {
	Chunk string
}

// GenerationEnded closes a reply. Err is non-nil when the stream failed or
// timed out; the chunks already delivered remain valid.
type GenerationEnded struct {
	Err error
}

// Disconnected is emitted when the worker cannot reach the backend at start.
// It is terminal: the event channel closes right after.
type Disconnected struct {
	Err error
}

func (Ready) isEvent()              {}
func (GenerationStarted) isEvent()  {}
func (GenerationProgress) isEvent() {}
func (GenerationEnded) isEvent()    {}
func (Disconnected) isEvent()       {}

// =============================================================================
// SENDER
// =============================================================================

// Sender submits commands to a worker. The zero value is a sender whose
// worker is gone. Senders are cheap to copy.
type Sender struct {
	inbox chan<- Command
	done  <-chan struct{}
}

// NewSender builds a Sender over an inbox channel. done is closed when the
// consumer of inbox exits.
func NewSender(inbox chan<- Command, done <-chan struct{}) Sender {
	return Sender{inbox: inbox, done: done}
}

// TrySend enqueues cmd without blocking.
func (s Sender) TrySend(cmd Command) error {
	if s.inbox == nil {
		return ErrWorkerGone
	}
	select {
	case <-s.done:
		return ErrWorkerGone
	default:
	}
	select {
	case s.inbox <- cmd:
		return nil
	default:
		return ErrInboxFull
	}
}

// Valid reports whether the sender was issued by a worker.
func (s Sender) Valid() bool {
	return s.inbox != nil
}
