// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ollama"
)

type fakeLister struct {
	models []ollama.ModelInfo
	err    error
	block  bool
}

func (f fakeLister) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.models, f.err
}

func TestFetch_Success(t *testing.T) {
	f := NewFetcher(fakeLister{models: []ollama.ModelInfo{
		{Name: "mistral", Size: 4_109_865_159},
		{Name: "llama3", Size: 4_661_224_676},
		{Name: ""},
	}}, 0, PolicyEmpty, nil)

	msg := f.Fetch(context.Background())
	require.NoError(t, msg.Err)
	assert.Equal(t, []model.LocalModel{
		{Name: "llama3", Size: 4_661_224_676},
		{Name: "mistral", Size: 4_109_865_159},
	}, msg.Models)
}

func TestFetch_FailurePolicies(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"empty", PolicyEmpty, false},
		{"show", PolicyShow, true},
		{"unknown falls back to empty", Policy("explode"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(fakeLister{err: ollama.ErrNotRunning}, time.Second, tt.policy, nil)
			msg := f.Fetch(context.Background())

			assert.NotNil(t, msg.Models)
			assert.Empty(t, msg.Models)
			if tt.wantErr {
				assert.ErrorIs(t, msg.Err, ollama.ErrNotRunning)
			} else {
				assert.NoError(t, msg.Err)
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	f := NewFetcher(fakeLister{block: true}, 20*time.Millisecond, PolicyShow, nil)

	msg := f.Fetch(context.Background())
	assert.Empty(t, msg.Models)
	assert.ErrorIs(t, msg.Err, context.DeadlineExceeded)
}

func TestCmd_ProducesLoadedMsg(t *testing.T) {
	f := NewFetcher(fakeLister{models: []ollama.ModelInfo{{Name: "llama3"}}}, 0, "", nil)

	msg, ok := f.Cmd()().(LoadedMsg)
	require.True(t, ok)
	require.Len(t, msg.Models, 1)
	assert.Equal(t, "llama3", msg.Models[0].Name)
}
