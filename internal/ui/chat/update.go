// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/util"
)

// Reserved rows around the viewport: header (with border), status, input, footer.
const (
	headerHeight = 2
	statusHeight = 1
	inputHeight  = 1
	footerHeight = 1
	minViewport  = 3
)

// Init starts listening to the worker and animating the spinner.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.handle != nil {
		cmds = append(cmds, Listen(m.id, m.handle.Events()))
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the chat screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PromptChangedMsg:
		m.PromptChanged(msg.Text)
		return m, nil

	case SubmitPromptMsg:
		m.SubmitPrompt()
		return m, nil

	case WorkerEventMsg:
		return m.handleWorkerEvent(msg)

	case WorkerClosedMsg:
		if msg.SessionID != m.id {
			return m, nil
		}
		m.HandleClosed()
		m.log.Debug("worker event stream closed")
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = "copy failed: " + msg.err.Error()
		} else {
			m.notice = "reply copied"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleWorkerEvent applies the event and re-arms the listener.
func (m Model) handleWorkerEvent(msg WorkerEventMsg) (tea.Model, tea.Cmd) {
	if msg.SessionID != m.id {
		return m, nil
	}

	wasBusy := m.busy()
	if err := m.HandleEvent(msg.Event); err != nil {
		m.log.Error("dropped worker event", "event", eventName(msg.Event), "error", err)
	}

	var cmds []tea.Cmd
	if m.handle != nil {
		cmds = append(cmds, Listen(m.id, m.handle.Events()))
	}
	if !wasBusy && m.busy() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Submit):
		m.SubmitPrompt()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	// Input is not echoed while a reply is pending.
	if m.pending || m.waiting {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.PromptChanged(m.input.Value())
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.SetSize(msg.Width, msg.Height)
	return m, nil
}

// SetSize resizes the screen.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
	m.refresh()
}

func (m *Model) layout() {
	vpHeight := m.height - headerHeight - statusHeight - inputHeight - footerHeight
	if vpHeight < minViewport {
		vpHeight = minViewport
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
	m.input.Width = m.width - util.Width(m.input.Prompt) - 1
}

// copyLastReply writes the most recent assistant message to the clipboard.
func (m Model) copyLastReply() tea.Cmd {
	msg, ok := m.history.LastOf(model.RoleAssistant)
	if !ok || msg.IsEmpty() {
		return nil
	}
	text := msg.Content
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

// busy reports whether the spinner should animate.
func (m Model) busy() bool {
	return m.waiting || m.state == WorkerNotReady
}
