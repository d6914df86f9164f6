// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/logging"
	"github.com/jeranaias/rigchat/internal/ui/app"
	"github.com/jeranaias/rigchat/internal/ui/styles"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("rigchat needs an interactive terminal; use 'rigchat models' for scripted output")

// isTerminal reports whether both stdin and stdout are terminals.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	if !isTerminal() {
		return ErrNotTerminal
	}

	cfg, path, err := flags.load()
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting rigchat", "version", Version, "ollama", cfg.Ollama.URL, "config", path)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := app.New(app.Options{
		Backend: newClient(cfg),
		Dial: func(c *config.Config) app.Backend {
			return newClient(c)
		},
		Config: cfg,
		Theme:  styles.NewThemeWithOptions(cfg.UI.NoColor),
		Logger: logger,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go func() {
		err := config.Watch(ctx, path,
			func(c *config.Config) {
				if err := flags.apply(c); err != nil {
					logger.Warn("ignoring reloaded config", "error", err)
					return
				}
				p.Send(app.ConfigReloadedMsg{Config: c})
			},
			func(err error) {
				logger.Warn("config reload failed", "error", err)
			},
		)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("config watcher not running", "error", err)
		}
	}()

	final, err := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
