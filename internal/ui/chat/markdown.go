// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// markdownRenderer renders closed assistant replies with glamour.
// Output is cached per content string and dropped when the wrap width changes.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]string
}

func newMarkdownRenderer(theme *styles.Theme) *markdownRenderer {
	style := glamourstyles.DarkStyle
	switch {
	case theme.ColorProfile == termenv.Ascii:
		style = glamourstyles.NoTTYStyle
	case !theme.IsDark:
		style = glamourstyles.LightStyle
	}
	return &markdownRenderer{style: style, cache: make(map[string]string)}
}

// Render returns content rendered for width columns, or content unchanged
// if glamour fails.
func (r *markdownRenderer) Render(content string, width int) string {
	if r.renderer == nil || width != r.width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		r.renderer = tr
		r.width = width
		clear(r.cache)
	}

	if out, ok := r.cache[content]; ok {
		return out
	}
	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	out = strings.Trim(out, "\n")
	r.cache[content] = out
	return out
}
