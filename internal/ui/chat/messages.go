// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/worker"
)

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// PromptChangedMsg replaces the prompt text.
type PromptChangedMsg struct {
	Text string
}

// SubmitPromptMsg submits the current prompt.
type SubmitPromptMsg struct{}

// BackMsg asks the navigation controller to return to model selection.
type BackMsg struct{}

// =============================================================================
// WORKER MESSAGES
// =============================================================================

// WorkerEventMsg wraps one worker event, tagged with the session it belongs to.
type WorkerEventMsg struct {
	SessionID string
	Event     worker.Event
}

// WorkerClosedMsg reports that the session's worker event stream has ended.
type WorkerClosedMsg struct {
	SessionID string
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	err error
}

// Listen returns a command that waits for the next event on events.
// It must be re-issued after each delivered event.
func Listen(sessionID string, events <-chan worker.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return WorkerClosedMsg{SessionID: sessionID}
		}
		return WorkerEventMsg{SessionID: sessionID, Event: ev}
	}
}
