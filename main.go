// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command rigchat is a terminal chat client for local Ollama models.
package main

import "github.com/jeranaias/rigchat/internal/cli"

func main() {
	cli.Execute()
}
