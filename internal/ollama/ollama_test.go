// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts an httptest server and a client pointed at it.
func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

func collect(t *testing.T, c *Client, req ChatRequest) ([]StreamChunk, error) {
	t.Helper()
	var chunks []StreamChunk
	err := c.ChatStream(context.Background(), req, func(ch StreamChunk) {
		chunks = append(chunks, ch)
	})
	return chunks, err
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClientWithConfig(&ClientConfig{BaseURL: "http://host:1234//"})
	assert.Equal(t, "http://host:1234", c.BaseURL())
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		fmt.Fprint(w, "Ollama is running")
	}))
	require.NoError(t, c.CheckRunning(context.Background()))
}

func TestCheckRunning_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: time.Second})
	err := c.CheckRunning(context.Background())
	require.Error(t, err)
	assert.True(t, IsNotRunning(err))
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestCheckRunning_BadStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	err := c.CheckRunning(context.Background())
	require.Error(t, err)
	assert.Equal(t, ErrTypeConnection, errorType(err))
}

// =============================================================================
// MODEL LIST TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"llama3:latest","size":4661224676},{"name":"mistral","size":4109865159}]}`)
	}))

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3:latest", models[0].Name)
	assert.Equal(t, int64(4661224676), models[0].Size)
	assert.Equal(t, "mistral", models[1].Name)
}

func TestListModels_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantType ErrorType
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantType: ErrTypeInvalidResponse,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "not json")
			},
			wantType: ErrTypeInvalidResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.ListModels(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errorType(err))
		})
	}
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestChatStream_Chunks(t *testing.T) {
	var got ChatRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":"Hi"},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":" there"},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":"!"},"done":false}`)
		fmt.Fprintln(w, `{"model":"llama3","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop","eval_count":3,"prompt_eval_count":7}`)
	}))

	chunks, err := collect(t, c, ChatRequest{
		Model:    "llama3",
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)

	assert.True(t, got.Stream)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, []Message{{Role: "user", Content: "hello"}}, got.Messages)

	require.Len(t, chunks, 4)
	var text strings.Builder
	for _, ch := range chunks {
		text.WriteString(ch.Content)
	}
	assert.Equal(t, "Hi there!", text.String())

	last := chunks[3]
	assert.True(t, last.Done)
	assert.Equal(t, "stop", last.DoneReason)
	assert.Equal(t, 3, last.CompletionTokens)
	assert.Equal(t, 7, last.PromptTokens)
	assert.Equal(t, "llama3", last.Model)
}

func TestChatStream_SkipsMalformedLines(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"a"}}`)
		fmt.Fprintln(w, `{broken`)
		fmt.Fprintln(w, ``)
		fmt.Fprintln(w, `[1,2]`)
		fmt.Fprint(w, `{"message":{"content":"b"},"done":true}`)
	}))

	chunks, err := collect(t, c, ChatRequest{Model: "m"})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a", chunks[0].Content)
	assert.Equal(t, "b", chunks[1].Content)
}

func TestChatStream_EOFWithoutDone(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"partial"}}`)
	}))

	chunks, err := collect(t, c, ChatRequest{Model: "m"})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestStreamReader_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineSize+1)
	r := NewStreamReader(strings.NewReader(long + "\n" + `{"message":{"content":"after"},"done":true}` + "\n"))

	var chunks []StreamChunk
	err := r.Process(context.Background(), func(ch StreamChunk) { chunks = append(chunks, ch) })
	require.Error(t, err)
	assert.Empty(t, chunks)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
	assert.Equal(t, "stream line too long", clientErr.Message)
}

func TestStreamReader_LongLineWithinLimit(t *testing.T) {
	content := strings.Repeat("y", 64*1024)
	body := `{"message":{"content":"` + content + `"},"done":true}` + "\n"
	r := NewStreamReader(strings.NewReader(body))

	var chunks []StreamChunk
	require.NoError(t, r.Process(context.Background(), func(ch StreamChunk) { chunks = append(chunks, ch) }))
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
}

func TestChatStream_ErrorLine(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"Hi"}}`)
		fmt.Fprintln(w, `{"error":"model runner crashed"}`)
		fmt.Fprintln(w, `{"message":{"content":"never"}}`)
	}))

	chunks, err := collect(t, c, ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Len(t, chunks, 1)

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr))
	assert.Equal(t, ErrTypeBackend, clientErr.Type)
	assert.Equal(t, "model runner crashed", clientErr.Message)
}

func TestChatStream_ModelNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model 'nope' not found"}`)
	}))

	_, err := collect(t, c, ChatRequest{Model: "nope"})
	require.Error(t, err)
	assert.True(t, IsModelNotFound(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestChatStream_ServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := collect(t, c, ChatRequest{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, ErrTypeInvalidResponse, errorType(err))
}

func TestChatStream_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"first"}}`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	var chunks []StreamChunk
	err := c.ChatStream(ctx, ChatRequest{Model: "m"}, func(ch StreamChunk) {
		chunks = append(chunks, ch)
		cancel()
	})

	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.Len(t, chunks, 1)
}

func TestChatStream_Deadline(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.ChatStream(ctx, ChatRequest{Model: "m"}, func(StreamChunk) {})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, ErrTimeout)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestClientError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &ClientError{Type: ErrTypeNotRunning, Message: "Ollama is not running", Cause: cause}

	assert.Equal(t, "Ollama is not running: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "not_running", err.Type.String())
}
