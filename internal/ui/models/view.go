// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"strings"

	"github.com/jeranaias/rigchat/internal/util"
)

// Title, blank line, blank line, footer.
const chromeHeight = 4

const sizeColumn = 10

// View renders the selection screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Select a model"))
	if n := len(m.models); n > 0 {
		b.WriteString("  " + m.theme.HeaderMeta.Render(util.Plural(n, "model", "models")))
	}
	b.WriteString("\n\n")
	b.WriteString(m.body())
	b.WriteString("\n\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) body() string {
	if m.loading && len(m.models) == 0 {
		return m.spinner.View() + " " + m.theme.Muted.Render("Loading models...")
	}

	var lines []string
	if m.loading {
		lines = append(lines, m.spinner.View()+" "+m.theme.Muted.Render("Refreshing..."))
	}
	if m.err != nil {
		lines = append(lines, m.theme.Error(m.err.Error()))
	}
	if len(m.models) == 0 {
		lines = append(lines, m.theme.Muted.Render("No local models found. Pull one with `ollama pull <model>`."))
		return strings.Join(lines, "\n")
	}

	nameWidth := max(8, m.width-sizeColumn-4)
	end := min(len(m.models), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		lm := m.models[i]
		name := util.PadRight(util.Truncate(lm.Name, nameWidth), nameWidth)
		size := m.theme.ListMeta.Render(lm.HumanSize())
		if i == m.cursor {
			lines = append(lines, m.theme.ListItemSelected.Render("> "+name)+"  "+size)
		} else {
			lines = append(lines, m.theme.ListItem.Render("  "+name)+"  "+size)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) footer() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.Shortcut(h.Key, h.Desc))
	}
	hints = append(hints, m.theme.Shortcut("ctrl+c", "quit"))
	return strings.Join(hints, "  ")
}

func (m Model) visibleRows() int {
	return max(1, m.height-chromeHeight-2)
}
