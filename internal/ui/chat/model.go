// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/worker"
)

// =============================================================================
// WORKER STATE
// =============================================================================

// WorkerState is the session's view of its generation worker.
type WorkerState int

const (
	WorkerNotReady     WorkerState = iota // spawned, health check pending
	WorkerReady                           // accepting commands
	WorkerDisconnected                    // unreachable or gone; terminal
)

func (s WorkerState) String() string {
	switch s {
	case WorkerNotReady:
		return "connecting"
	case WorkerReady:
		return "ready"
	case WorkerDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a new chat session.
type Options struct {
	// SessionID tags worker events. A random UUID is used when empty.
	SessionID string

	// Model is the backend model name.
	Model string

	// Backend, when set, is used to spawn the session's worker.
	Backend worker.Backend
	Worker  worker.Options

	Theme    *styles.Theme
	Logger   *slog.Logger
	Markdown bool
}

// Model is the Bubble Tea model for one chat session.
type Model struct {
	id        string
	modelName string

	// Session state
	prompt  string
	pending bool // sent, not yet started
	waiting bool
	history model.History
	state   WorkerState
	sender  worker.Sender
	handle  *worker.Handle
	lastErr error
	notice  string

	// UI components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	keys     KeyMap
	markdown *markdownRenderer

	theme  *styles.Theme
	log    *slog.Logger
	width  int
	height int
}

// New creates a chat session. When opts.Backend is set the worker is
// spawned immediately; Init starts listening to it.
func New(opts Options) Model {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message and press Enter"
	ti.CharLimit = 8192
	ti.PromptStyle = opts.Theme.InputPrompt
	ti.PlaceholderStyle = opts.Theme.InputPlaceholder
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.Spinner

	m := Model{
		id:        opts.SessionID,
		modelName: opts.Model,
		state:     WorkerNotReady,
		input:     ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		keys:      DefaultKeyMap(),
		theme:     opts.Theme,
		log:       opts.Logger.With("component", "chat", "session", opts.SessionID, "model", opts.Model),
		width:     80,
		height:    24,
	}
	if opts.Markdown {
		m.markdown = newMarkdownRenderer(opts.Theme)
	}

	if opts.Backend != nil {
		wopts := opts.Worker
		wopts.Logger = opts.Logger.With("session", opts.SessionID)
		m.handle = worker.Spawn(context.Background(), opts.Backend, wopts)
	}

	m.layout()
	m.refresh()
	return m
}

// =============================================================================
// STATE TRANSITIONS
// =============================================================================

// PromptChanged replaces the prompt. Ignored while a submitted prompt is
// queued or its reply is being generated.
func (m *Model) PromptChanged(text string) {
	if m.pending || m.waiting {
		return
	}
	m.prompt = text
	if m.input.Value() != text {
		m.input.SetValue(text)
	}
}

// SubmitPrompt sends the prompt to the worker and records it in the history.
// It is a no-op unless the worker is ready, no earlier prompt is queued or
// generating and the prompt is not blank. It reports whether a command was
// sent.
//
// The prompt is not cleared here; GenerationStarted clears it.
func (m *Model) SubmitPrompt() bool {
	if m.pending || m.waiting || m.state != WorkerReady {
		return false
	}
	prompt := norm.NFC.String(m.prompt)
	if strings.TrimSpace(prompt) == "" {
		return false
	}

	cmd := worker.Generate{
		Prompt:  prompt,
		History: m.history.Snapshot(),
		Model:   m.modelName,
	}
	if err := m.sender.TrySend(cmd); err != nil {
		m.lastErr = err
		if errors.Is(err, worker.ErrInboxFull) {
			m.log.Warn("prompt rejected, queue full")
		} else {
			m.log.Error("worker unreachable", "error", err)
			m.state = WorkerDisconnected
		}
		m.refresh()
		return false
	}

	if err := m.history.Append(model.NewUserMessage(prompt)); err != nil {
		m.log.Error("append user message", "error", err)
	}
	m.pending = true
	m.lastErr = nil
	m.notice = ""
	m.refresh()
	return true
}

// HandleEvent applies one worker event. A non-nil error means the event
// sequence broke the protocol (a chunk with no open message); the event is
// dropped.
func (m *Model) HandleEvent(ev worker.Event) error {
	defer m.refresh()

	switch ev := ev.(type) {
	case worker.Ready:
		if m.state == WorkerNotReady {
			m.sender = ev.Sender
			m.state = WorkerReady
		}

	case worker.GenerationStarted:
		m.pending = false
		m.waiting = true
		m.prompt = ""
		m.input.Reset()
		m.input.Blur()
		if err := m.history.OpenAssistant(); err != nil {
			return err
		}

	case worker.GenerationProgress:
		if err := m.history.AppendChunk(ev.Chunk); err != nil {
			return err
		}

	case worker.GenerationEnded:
		m.finishGeneration()
		if ev.Err != nil {
			m.lastErr = ev.Err
		}

	case worker.Disconnected:
		m.finishGeneration()
		m.state = WorkerDisconnected
		m.sender = worker.Sender{}
		m.lastErr = ev.Err
	}
	return nil
}

// HandleClosed marks the worker gone after its event stream ends.
func (m *Model) HandleClosed() {
	m.finishGeneration()
	if m.state != WorkerDisconnected {
		m.state = WorkerDisconnected
		if m.lastErr == nil {
			m.lastErr = worker.ErrWorkerGone
		}
	}
	m.sender = worker.Sender{}
	m.refresh()
}

func (m *Model) finishGeneration() {
	m.pending = false
	m.waiting = false
	m.history.Close()
	m.input.Focus()
}

// Stop cancels the session's worker. Safe to call more than once.
func (m *Model) Stop() {
	if m.handle != nil {
		m.handle.Stop()
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// SessionID returns the identifier that tags this session's worker events.
func (m Model) SessionID() string { return m.id }

// ModelName returns the backend model this session talks to.
func (m Model) ModelName() string { return m.modelName }

// Prompt returns the current prompt text.
func (m Model) Prompt() string { return m.prompt }

// Waiting reports whether a reply is being generated.
func (m Model) Waiting() bool { return m.waiting }

// Pending reports whether a submitted prompt has not started generating yet.
func (m Model) Pending() bool { return m.pending }

// WorkerState returns the worker state.
func (m Model) WorkerState() WorkerState { return m.state }

// LastError returns the most recent generation or connection error.
func (m Model) LastError() error { return m.lastErr }

// History returns a copy of the conversation.
func (m Model) History() []model.ChatMessage { return m.history.Snapshot() }

// Handle returns the worker handle, or nil when no worker was spawned.
func (m Model) Handle() *worker.Handle { return m.handle }
