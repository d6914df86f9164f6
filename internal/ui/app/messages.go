// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/jeranaias/rigchat/internal/config"

// ConfigReloadedMsg carries a configuration reloaded from disk.
// It applies to the next chat session and catalog fetch.
type ConfigReloadedMsg struct {
	Config *config.Config
}
