// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the rigchat command tree.
//
// # Commands Overview
//
//	rigchat                 Start the interactive chat TUI
//	rigchat models          Print the locally installed models
//	rigchat config init     Write a default config file
//	rigchat config show     Print the effective configuration
//	rigchat config path     Print the config file location
//	rigchat version         Print version information
//
// Global flags --config and --ollama-url apply to every command.
package cli
