// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigchat.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - Duration: TOML-friendly time.Duration ("30s", "10m")
//   - ValidateErrors: All problems found by Validate, joined
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGCHAT_*, OLLAMA_HOST), including .env files
//   - ~/.rigchat/config.toml (or the file given with --config)
//   - Built-in defaults
//
// # Hot Reload
//
// Watch tracks the config file with fsnotify and delivers each successfully
// validated reload. The running chat keeps its settings; the next session
// picks up the new ones.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Generation.Timeout.Duration
package config
