// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for communicating with Ollama API.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/tidwall/gjson"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 1 << 20

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader parses a newline-delimited JSON chat stream.
type StreamReader struct {
	reader *bufio.Reader
	model  string
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: bufio.NewReader(r)}
}

// Process reads the stream and calls fn for each chunk.
// Blocks until the stream is complete, fails, or ctx is cancelled.
func (s *StreamReader) Process(ctx context.Context, fn StreamCallback) error {
	for {
		if err := ctx.Err(); err != nil {
			return transportError(err)
		}

		chunk, err := s.readChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// A cancelled request surfaces as a body read error.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return transportError(ctxErr)
			}
			var clientErr *ClientError
			if errors.As(err, &clientErr) {
				return err
			}
			return &ClientError{Type: ErrTypeConnection, Message: "stream interrupted", Cause: err}
		}
		if chunk == nil {
			continue
		}

		fn(*chunk)
		if chunk.Done {
			return nil
		}
	}
}

// readChunk reads and parses a single line. It returns (nil, nil) for blank
// or malformed lines, which are skipped.
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.readLine()
	if err != nil {
		if len(line) == 0 {
			return nil, err
		}
		// Process a final unterminated line; EOF is reported on the next call.
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 || !gjson.ValidBytes(line) {
		return nil, nil
	}

	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		return nil, nil
	}
	if msg := res.Get("error"); msg.Exists() {
		return nil, &ClientError{Type: ErrTypeBackend, Message: msg.String()}
	}

	if m := res.Get("model").String(); m != "" {
		s.model = m
	}

	chunk := &StreamChunk{
		Content: res.Get("message.content").String(),
		Model:   s.model,
		Done:    res.Get("done").Bool(),
	}
	if chunk.Done {
		chunk.DoneReason = res.Get("done_reason").String()
		chunk.TotalDuration = time.Duration(res.Get("total_duration").Int())
		chunk.PromptTokens = int(res.Get("prompt_eval_count").Int())
		chunk.CompletionTokens = int(res.Get("eval_count").Int())
	}

	return chunk, nil
}

// readLine reads up to and including the next newline. It fails as soon as
// the line grows past maxLineSize instead of buffering the rest of it.
func (s *StreamReader) readLine() ([]byte, error) {
	var line []byte
	for {
		frag, err := s.reader.ReadSlice('\n')
		if len(line)+len(frag) > maxLineSize {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "stream line too long"}
		}
		line = append(line, frag...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, err
	}
}
