// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
//
// Only the three endpoints rigchat needs are implemented: the root health
// check, /api/tags for the local model catalog, and streamed /api/chat.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - ChatRequest: Request structure for chat completions
//   - StreamChunk: One parsed line of a streamed reply
//   - StreamReader: NDJSON line reader backed by gjson
//   - ClientError: Typed error with ErrorType for handling
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url})
//	err := client.ChatStream(ctx, ollama.ChatRequest{
//	    Model:    "llama3",
//	    Messages: []ollama.Message{{Role: "user", Content: "Hello"}},
//	}, func(c ollama.StreamChunk) {
//	    fmt.Print(c.Content)
//	})
package ollama
