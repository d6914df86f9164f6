// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package models

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/catalog"
	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SelectMsg is emitted when the user picks a model.
type SelectMsg struct {
	Model string
}

// RefreshMsg asks for the catalog to be fetched again.
type RefreshMsg struct{}

// =============================================================================
// SELECTION MODEL
// =============================================================================

// Model is the model selection screen.
type Model struct {
	loading bool
	models  []model.LocalModel
	err     error
	cursor  int
	offset  int

	spinner spinner.Model
	keys    KeyMap
	theme   *styles.Theme

	width  int
	height int
}

// New creates a selection screen in the loading state.
func New(theme *styles.Theme) Model {
	if theme == nil {
		theme = styles.NewTheme()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		loading: true,
		models:  []model.LocalModel{},
		spinner: sp,
		keys:    DefaultKeyMap(),
		theme:   theme,
		width:   80,
		height:  24,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetLoading puts the screen back into the loading state ahead of a refetch.
// The previous list stays visible underneath until the new one arrives.
func (m *Model) SetLoading() {
	m.loading = true
	m.err = nil
}

// SetLoaded applies a finished fetch.
func (m *Model) SetLoaded(msg catalog.LoadedMsg) {
	m.loading = false
	m.err = msg.Err
	m.models = msg.Models
	if m.models == nil {
		m.models = []model.LocalModel{}
	}
	m.cursor = min(m.cursor, max(0, len(m.models)-1))
	m.clampOffset()
}

// SetSize updates the dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the selection screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalog.LoadedMsg:
		m.SetLoaded(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.move(-len(m.models))
	case key.Matches(msg, m.keys.Bottom):
		m.move(len(m.models))
	case key.Matches(msg, m.keys.Select):
		if sel, ok := m.Selected(); ok && !m.loading {
			return m, func() tea.Msg { return SelectMsg{Model: sel.Name} }
		}
	case key.Matches(msg, m.keys.Refresh):
		if !m.loading {
			return m, func() tea.Msg { return RefreshMsg{} }
		}
	}
	return m, nil
}

func (m *Model) move(delta int) {
	if len(m.models) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.models)-1, m.cursor+delta))
	m.clampOffset()
}

// clampOffset keeps the cursor row inside the visible window.
func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, len(m.models)-rows))
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Loading reports whether a fetch is outstanding.
func (m Model) Loading() bool { return m.loading }

// Models returns the catalog snapshot. Never nil.
func (m Model) Models() []model.LocalModel { return m.models }

// Err returns the fetch error surfaced by the catalog policy, if any.
func (m Model) Err() error { return m.err }

// Cursor returns the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// Selected returns the highlighted model.
func (m Model) Selected() (model.LocalModel, bool) {
	if m.cursor < 0 || m.cursor >= len(m.models) {
		return model.LocalModel{}, false
	}
	return m.models[m.cursor], true
}
