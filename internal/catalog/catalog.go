// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog fetches the list of locally installed models.
//
// A fetch is a one-shot tea.Cmd. The result always arrives as a LoadedMsg;
// how a failure is surfaced depends on the Policy.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ollama"
)

// Lister lists installed models. *ollama.Client satisfies it.
type Lister interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// Policy decides what the selection screen sees when a fetch fails.
type Policy string

const (
	// PolicyEmpty recovers a failure as an empty catalog.
	PolicyEmpty Policy = "empty"
	// PolicyShow also returns an empty catalog but keeps the error for display.
	PolicyShow Policy = "show"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyEmpty || p == PolicyShow
}

// LoadedMsg is delivered when a fetch completes.
// Models is never nil. Err is only set under PolicyShow.
type LoadedMsg struct {
	Models []model.LocalModel
	Err    error
}

// Fetcher fetches the catalog with a timeout and failure policy.
type Fetcher struct {
	lister  Lister
	timeout time.Duration
	policy  Policy
	log     *slog.Logger
}

// NewFetcher creates a fetcher. A zero timeout means 10s; an unknown policy
// falls back to PolicyEmpty.
func NewFetcher(lister Lister, timeout time.Duration, policy Policy, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if !policy.Valid() {
		policy = PolicyEmpty
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		lister:  lister,
		timeout: timeout,
		policy:  policy,
		log:     logger.With("component", "catalog"),
	}
}

// Fetch lists models, applying the failure policy.
func (f *Fetcher) Fetch(ctx context.Context) LoadedMsg {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	infos, err := f.lister.ListModels(ctx)
	if err != nil {
		f.log.Warn("model list unavailable", "error", err, "policy", string(f.policy))
		msg := LoadedMsg{Models: []model.LocalModel{}}
		if f.policy == PolicyShow {
			msg.Err = fmt.Errorf("list models: %w", err)
		}
		return msg
	}

	models := make([]model.LocalModel, 0, len(infos))
	for _, info := range infos {
		if info.Name == "" {
			continue
		}
		models = append(models, model.LocalModel{Name: info.Name, Size: info.Size})
	}
	sort.SliceStable(models, func(i, j int) bool {
		return models[i].Name < models[j].Name
	})

	f.log.Debug("model list loaded", "count", len(models))
	return LoadedMsg{Models: models}
}

// Cmd returns a tea.Cmd that performs one fetch.
func (f *Fetcher) Cmd() tea.Cmd {
	return func() tea.Msg {
		return f.Fetch(context.Background())
	}
}
