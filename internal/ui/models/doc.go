// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package models provides the model selection screen.
//
// The screen starts in a loading state and is filled by a catalog.LoadedMsg.
// Picking a row emits SelectMsg; the navigation controller turns that into
// a chat session.
package models
