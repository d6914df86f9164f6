// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme() returned nil")
	}
	if theme.HeaderTitle.Render("test") == "" {
		t.Error("HeaderTitle style should render")
	}
}

func TestStatusHelpersCarryIndicators(t *testing.T) {
	theme := newTheme(termenv.Ascii, true)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"success", theme.Success("connected"), IndicatorOK},
		{"warning", theme.Warning("waiting"), IndicatorWarning},
		{"error", theme.Error("disconnected"), IndicatorError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("%q missing indicator %q", tt.got, tt.want)
			}
		})
	}
}

func TestShortcut(t *testing.T) {
	theme := newTheme(termenv.Ascii, true)
	got := theme.Shortcut("esc", "back")
	if !strings.Contains(got, "esc") || !strings.Contains(got, "back") {
		t.Errorf("Shortcut() = %q", got)
	}
}
