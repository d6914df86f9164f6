// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model and screen navigation.
//
// The application has two screens:
//
//	SelectionScreen --SelectMsg--> ChatScreen
//	ChatScreen      --BackMsg----> SelectionScreen (worker stopped, catalog refetched)
//
// Every chat session gets a fresh ID. Worker messages carrying any other ID
// belong to a session that has already been torn down and are dropped.
package app
