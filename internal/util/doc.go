// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across rigchat.
//
// # Key Functions
//
// Display text:
//   - Truncate: width-aware truncation with an ellipsis (go-runewidth)
//   - Width, PadRight: column arithmetic for list rows and headers
//   - Plural: "N messages" style counters
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync, used for config
//
// # Usage
//
//	row := util.PadRight(name, 32) + size
//	err := util.AtomicWriteFile(path, data, 0600, 0700)
package util
