// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ollama"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/util"
	"github.com/jeranaias/rigchat/internal/worker"
)

// View renders the chat screen.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.statusView(),
		m.inputView(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render(util.Truncate(m.modelName, max(10, m.width/2)))
	meta := m.theme.HeaderMeta.Render(util.Plural(m.history.Len(), "message", "messages"))
	return m.theme.Header.Width(m.width).Render(title + "  " + meta)
}

func (m Model) statusView() string {
	var line string
	switch {
	case m.state == WorkerDisconnected:
		reason := "worker stopped"
		if m.lastErr != nil {
			reason = m.describeError(m.lastErr)
		}
		line = m.theme.Error("disconnected: " + reason)
	case m.lastErr != nil:
		line = m.theme.Warning(m.describeError(m.lastErr))
	case m.notice != "":
		line = m.theme.Success(m.notice)
	case m.state == WorkerNotReady:
		line = m.spinner.View() + " " + m.theme.Muted.Render("connecting to ollama...")
	case m.waiting:
		line = m.spinner.View() + " " + m.theme.Muted.Render("generating...")
	case m.pending:
		line = m.theme.Muted.Render("queued...")
	default:
		line = m.theme.Muted.Render(styles.IndicatorOK + " ready")
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusHeight).Render(line)
}

// describeError turns backend failures into short status text. Errors the
// client does not classify are shown as-is.
func (m Model) describeError(err error) string {
	switch {
	case ollama.IsNotRunning(err):
		return "ollama is not running"
	case ollama.IsModelNotFound(err):
		return "model not found: " + m.modelName
	case ollama.IsTimeout(err):
		return "timed out waiting for ollama"
	case ollama.IsCanceled(err):
		return "request canceled"
	}
	return err.Error()
}

func (m Model) inputView() string {
	switch {
	case m.state == WorkerDisconnected:
		return m.theme.InputDisabled.Render(m.input.Prompt + "input disabled")
	case m.pending || m.waiting:
		return m.theme.InputDisabled.Render(m.input.Prompt + "waiting for reply")
	}
	return m.input.View()
}

func (m Model) footerView() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.Shortcut(h.Key, h.Desc))
	}
	hints = append(hints, m.theme.Shortcut("ctrl+c", "quit"))
	return strings.Join(hints, "  ")
}

// refresh re-renders the history into the viewport, following the tail
// when the view was already at the bottom or a reply is streaming.
func (m *Model) refresh() {
	follow := m.viewport.AtBottom() || m.waiting
	m.viewport.SetContent(m.renderHistory())
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderHistory() string {
	msgs := m.history.Snapshot()
	if len(msgs) == 0 {
		return m.theme.Muted.Render(fmt.Sprintf("Say hello to %s.", m.modelName))
	}

	width := max(20, m.width-2)
	streaming := m.history.IsOpen()

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.label(msg.Role))
		b.WriteString("\n")

		open := streaming && i == len(msgs)-1
		switch {
		case open && msg.Content == "":
			b.WriteString(m.spinner.View())
		case msg.Role == model.RoleAssistant && !open && m.markdown != nil:
			b.WriteString(m.markdown.Render(msg.Content, width))
		default:
			b.WriteString(m.theme.MessageBody.Width(width).Render(msg.Content))
		}
	}
	return b.String()
}

func (m *Model) label(role model.Role) string {
	switch role {
	case model.RoleUser:
		return m.theme.UserLabel.Render(role.DisplayName())
	case model.RoleAssistant:
		return m.theme.AssistantLabel.Render(role.DisplayName())
	default:
		return m.theme.SystemLabel.Render(role.DisplayName())
	}
}

// eventName is used in log lines.
func eventName(ev worker.Event) string {
	switch ev.(type) {
	case worker.Ready:
		return "ready"
	case worker.GenerationStarted:
		return "generation_started"
	case worker.GenerationProgress:
		return "generation_progress"
	case worker.GenerationEnded:
		return "generation_ended"
	case worker.Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("%T", ev)
	}
}
