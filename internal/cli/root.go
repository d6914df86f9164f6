// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/rigchat/internal/config"
	"github.com/jeranaias/rigchat/internal/ollama"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	ollamaURL  string
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "rigchat",
		Short: "Chat with local Ollama models in your terminal",
		Long: `rigchat lists the models installed in a local Ollama server and opens a
streaming chat session with the one you pick.

Examples:
  rigchat                                   Start the chat TUI
  rigchat --ollama-url http://gpu-box:11434 Use a remote Ollama server
  rigchat models                            List installed models
  rigchat config init                       Write ~/.rigchat/config.toml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.rigchat/config.toml)")
	root.PersistentFlags().StringVar(&flags.ollamaURL, "ollama-url", "", "Ollama server URL (overrides config and OLLAMA_HOST)")

	root.AddCommand(
		newModelsCommand(flags),
		newConfigCommand(flags),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// path returns the config file the flags point at.
func (f *globalFlags) path() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.DefaultPath()
}

// load reads the configuration and applies --ollama-url.
func (f *globalFlags) load() (*config.Config, string, error) {
	path, err := f.path()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, "", err
	}
	if err := f.apply(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// apply overlays command-line settings on cfg.
func (f *globalFlags) apply(cfg *config.Config) error {
	if f.ollamaURL == "" {
		return nil
	}
	url := f.ollamaURL
	if !strings.Contains(url, "://") {
		url = config.HostToURL(url)
	}
	cfg.Ollama.URL = url
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid --ollama-url: %w", err)
	}
	return nil
}

func newClient(cfg *config.Config) *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: cfg.Ollama.URL})
}
