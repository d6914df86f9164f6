// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the rigchat TUI.
//
// Colors are Lip Gloss AdaptiveColors so the palette follows the terminal's
// light or dark background. State is never conveyed by color alone: every
// status string carries an ASCII indicator ([OK], [X], [!]).
//
// # Usage
//
//	theme := styles.NewThemeWithOptions(cfg.UI.NoColor)
//	header := theme.HeaderTitle.Render("llama3")
//	footer := theme.Shortcut("esc", "back")
package styles
