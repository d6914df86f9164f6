// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{RoleTool, "Tool"},
		{Role("custom"), "custom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.DisplayName())
		})
	}
}

func TestHistoryStreaming(t *testing.T) {
	var h History
	require.NoError(t, h.Append(NewUserMessage("hello")))
	require.NoError(t, h.OpenAssistant())
	assert.True(t, h.IsOpen())

	for _, c := range []string{"Hi", " there", "!"} {
		require.NoError(t, h.AppendChunk(c))
	}
	h.Close()

	assert.False(t, h.IsOpen())
	assert.Equal(t, []ChatMessage{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "Hi there!"},
	}, h.Snapshot())
}

func TestHistoryChunkWithoutOpenMessage(t *testing.T) {
	var h History
	assert.ErrorIs(t, h.AppendChunk("x"), ErrNoOpenMessage)

	require.NoError(t, h.OpenAssistant())
	h.Close()
	assert.ErrorIs(t, h.AppendChunk("x"), ErrNoOpenMessage)
}

func TestHistoryAtMostOneOpen(t *testing.T) {
	var h History
	require.NoError(t, h.OpenAssistant())
	assert.ErrorIs(t, h.OpenAssistant(), ErrMessageOpen)
	assert.ErrorIs(t, h.Append(NewUserMessage("late")), ErrMessageOpen)
	assert.Equal(t, 1, h.Len())
}

func TestHistorySnapshotIsIndependent(t *testing.T) {
	var h History
	require.NoError(t, h.Append(NewUserMessage("a")))
	snap := h.Snapshot()
	snap[0].Content = "mutated"

	assert.Equal(t, "a", h.Snapshot()[0].Content)
}

func TestHistoryLastOf(t *testing.T) {
	var h History
	_, ok := h.LastOf(RoleAssistant)
	assert.False(t, ok)

	require.NoError(t, h.Append(NewAssistantMessage("first")))
	require.NoError(t, h.Append(NewUserMessage("q")))
	msg, ok := h.LastOf(RoleAssistant)
	require.True(t, ok)
	assert.Equal(t, "first", msg.Content)
}

func TestLocalModelHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", LocalModel{Name: "x"}.HumanSize())
	assert.Equal(t, "4.7 GB", LocalModel{Name: "llama3", Size: 4_700_000_000}.HumanSize())
}
