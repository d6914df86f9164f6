// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/rigchat/internal/catalog"
	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/ui/chat"
	"github.com/jeranaias/rigchat/internal/ui/models"
	"github.com/jeranaias/rigchat/internal/ui/styles"
	"github.com/jeranaias/rigchat/internal/worker"
)

// Backend is everything the application needs from the inference server.
// *ollama.Client satisfies it.
type Backend interface {
	catalog.Lister
	worker.Backend
}

// Options configures the application.
type Options struct {
	Backend Backend

	// Dial, when set, builds a new backend after a reload changes the
	// Ollama URL.
	Dial func(cfg *config.Config) Backend

	Config *config.Config
	Theme  *styles.Theme
	Logger *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	backend Backend
	dial    func(cfg *config.Config) Backend
	cfg     *config.Config
	theme   *styles.Theme
	log     *slog.Logger

	screen Screen
	quit   key.Binding

	width    int
	height   int
	quitting bool
}

// New creates the application on the model selection screen, loading.
func New(opts Options) Model {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewThemeWithOptions(opts.Config.UI.NoColor)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		backend: opts.Backend,
		dial:    opts.Dial,
		cfg:     opts.Config,
		theme:   opts.Theme,
		log:     opts.Logger.With("component", "app"),
		screen:  SelectionScreen{models.New(opts.Theme)},
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Init starts the first catalog fetch.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if s, ok := m.screen.(SelectionScreen); ok {
		cmds = append(cmds, s.Init())
	}
	cmds = append(cmds, m.fetch())
	return tea.Batch(cmds...)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages between the screens.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			m.stopSession()
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case models.SelectMsg:
		return m.openChat(msg.Model)

	case models.RefreshMsg:
		if s, ok := m.screen.(SelectionScreen); ok {
			s.SetLoading()
			m.screen = s
			return m, tea.Batch(s.Init(), m.fetch())
		}
		return m, nil

	case chat.BackMsg:
		return m.backToSelection()

	case catalog.LoadedMsg:
		if _, ok := m.screen.(SelectionScreen); !ok {
			m.log.Debug("dropped model list, not on selection screen")
			return m, nil
		}

	case chat.WorkerEventMsg:
		if !m.isLiveSession(msg.SessionID) {
			m.log.Debug("dropped stale worker event", "session", msg.SessionID)
			return m, nil
		}

	case chat.WorkerClosedMsg:
		if !m.isLiveSession(msg.SessionID) {
			return m, nil
		}

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		return m, nil
	}

	return m.updateScreen(msg)
}

// updateScreen forwards msg to the active screen.
func (m Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch s := m.screen.(type) {
	case SelectionScreen:
		next, cmd := s.Model.Update(msg)
		m.screen = SelectionScreen{next.(models.Model)}
		return m, cmd
	case ChatScreen:
		next, cmd := s.Model.Update(msg)
		m.screen = ChatScreen{next.(chat.Model)}
		return m, cmd
	}
	return m, nil
}

func (m Model) openChat(modelName string) (tea.Model, tea.Cmd) {
	m.stopSession()

	session := chat.New(chat.Options{
		SessionID: uuid.NewString(),
		Model:     modelName,
		Backend:   m.backend,
		Worker:    workerOptions(m.cfg),
		Theme:     m.theme,
		Logger:    m.log,
		Markdown:  m.cfg.UI.Markdown,
	})
	if m.width > 0 {
		session.SetSize(m.width, m.height)
	}
	m.screen = ChatScreen{session}
	m.log.Info("chat session opened", "model", modelName, "session", session.SessionID())
	return m, session.Init()
}

func (m Model) backToSelection() (tea.Model, tea.Cmd) {
	m.stopSession()

	sel := models.New(m.theme)
	if m.width > 0 {
		sel.SetSize(m.width, m.height)
	}
	m.screen = SelectionScreen{sel}
	return m, tea.Batch(sel.Init(), m.fetch())
}

// Close stops the live session's worker, if any.
func (m Model) Close() {
	m.stopSession()
}

// stopSession cancels the live session's worker, if any.
func (m *Model) stopSession() {
	if s, ok := m.screen.(ChatScreen); ok {
		s.Stop()
		m.log.Info("chat session closed", "session", s.SessionID())
	}
}

func (m Model) isLiveSession(id string) bool {
	s, ok := m.screen.(ChatScreen)
	return ok && s.SessionID() == id
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if m.dial != nil && cfg.Ollama.URL != m.cfg.Ollama.URL {
		m.backend = m.dial(cfg)
		m.log.Info("ollama url changed", "url", cfg.Ollama.URL)
	}
	m.cfg = cfg
	m.log.Info("configuration reloaded")
}

// fetch returns a command that loads the model catalog with the current settings.
func (m Model) fetch() tea.Cmd {
	f := catalog.NewFetcher(
		m.backend,
		m.cfg.Catalog.Timeout.Duration,
		catalog.Policy(m.cfg.Catalog.OnError),
		m.log,
	)
	return f.Cmd()
}

func workerOptions(cfg *config.Config) worker.Options {
	return worker.Options{
		ConnectTimeout:    cfg.Ollama.ConnectTimeout.Duration,
		GenerationTimeout: cfg.Generation.Timeout.Duration,
		InboxSize:         cfg.Generation.InboxSize,
		SystemPrompt:      cfg.Generation.SystemPrompt,
		Temperature:       cfg.Generation.Temperature,
		NumCtx:            cfg.Generation.NumCtx,
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch s := m.screen.(type) {
	case SelectionScreen:
		return s.View()
	case ChatScreen:
		return s.View()
	}
	return ""
}

// Screen returns the active screen.
func (m Model) Screen() Screen { return m.screen }

// Config returns the settings used for the next session.
func (m Model) Config() *config.Config { return m.cfg }
