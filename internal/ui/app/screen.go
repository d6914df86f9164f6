// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/rigchat/internal/ui/chat"
	"github.com/jeranaias/rigchat/internal/ui/models"
)

// Screen is the active screen: SelectionScreen or ChatScreen.
type Screen interface {
	isScreen()
}

// SelectionScreen lists the installed models.
type SelectionScreen struct {
	models.Model
}

// ChatScreen holds the live chat session.
type ChatScreen struct {
	chat.Model
}

func (SelectionScreen) isScreen() {}
func (ChatScreen) isScreen()      {}
