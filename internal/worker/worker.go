// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeranaias/rigchat/internal/model"
	"github.com/jeranaias/rigchat/internal/ollama"
)

// Backend is the part of the inference client the worker uses.
// *ollama.Client satisfies it.
type Backend interface {
	CheckRunning(ctx context.Context) error
	ChatStream(ctx context.Context, req ollama.ChatRequest, fn ollama.StreamCallback) error
}

// Options configures a worker.
type Options struct {
	// ConnectTimeout bounds the startup health check (default: 5s).
	ConnectTimeout time.Duration

	// GenerationTimeout bounds each generation. Zero means unbounded.
	GenerationTimeout time.Duration

	// InboxSize is the number of commands that may wait behind the running
	// generation (default: 4).
	InboxSize int

	// SystemPrompt is prepended to every request when non-empty.
	SystemPrompt string

	Temperature float64
	NumCtx      int

	Logger *slog.Logger
}

func (o *Options) fillDefaults() {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.InboxSize <= 0 {
		o.InboxSize = 4
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// =============================================================================
// HANDLE
// =============================================================================

// Handle is the owner's reference to a running worker.
type Handle struct {
	events chan Event
	done   chan struct{}
	cancel context.CancelFunc
}

// Spawn starts a worker goroutine. The worker lives until ctx is cancelled,
// Stop is called, or the startup health check fails.
func Spawn(ctx context.Context, backend Backend, opts Options) *Handle {
	opts.fillDefaults()
	ctx, cancel := context.WithCancel(ctx)

	h := &Handle{
		events: make(chan Event),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	w := &runner{
		backend: backend,
		opts:    opts,
		events:  h.events,
		done:    h.done,
		log:     opts.Logger.With("component", "worker"),
	}
	go w.run(ctx)
	return h
}

// Events returns the worker's event stream. It is closed when the worker exits.
// There must be a single consumer.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Stop cancels the worker, aborting any in-flight request. It does not wait.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed once the worker goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// =============================================================================
// RUN LOOP
// =============================================================================

type runner struct {
	backend Backend
	opts    Options
	events  chan<- Event
	done    chan struct{}
	log     *slog.Logger
}

func (w *runner) run(ctx context.Context) {
	defer close(w.events)
	defer close(w.done)

	checkCtx, cancel := context.WithTimeout(ctx, w.opts.ConnectTimeout)
	err := w.backend.CheckRunning(checkCtx)
	cancel()
	if err != nil {
		w.log.Warn("backend unreachable", "error", err)
		w.emit(ctx, Disconnected{Err: err})
		return
	}

	inbox := make(chan Command, w.opts.InboxSize)
	if !w.emit(ctx, Ready{Sender: NewSender(inbox, w.done)}) {
		return
	}
	w.log.Debug("worker ready")

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("worker stopped", "reason", ctx.Err())
			return
		case cmd := <-inbox:
			switch cmd := cmd.(type) {
			case Generate:
				if !w.generate(ctx, cmd) {
					return
				}
			default:
				w.log.Error("unknown command", "type", fmt.Sprintf("%T", cmd))
			}
		}
	}
}

// emit delivers ev, blocking until the consumer takes it. It returns false
// when the worker was cancelled first.
func (w *runner) emit(ctx context.Context, ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// generate runs one Generate command. It returns false when the worker is
// shutting down.
func (w *runner) generate(ctx context.Context, cmd Generate) bool {
	if !w.emit(ctx, GenerationStarted{}) {
		return false
	}

	var (
		genCtx context.Context
		cancel context.CancelFunc
	)
	if w.opts.GenerationTimeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, w.opts.GenerationTimeout)
	} else {
		genCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	chunks := 0
	stopped := false
	err := w.backend.ChatStream(genCtx, w.request(cmd), func(c ollama.StreamChunk) {
		if stopped || c.Content == "" {
			return
		}
		if !w.emit(ctx, GenerationProgress{Chunk: c.Content}) {
			stopped = true
			cancel()
			return
		}
		chunks++
	})

	if ctx.Err() != nil {
		w.log.Debug("generation abandoned", "model", cmd.Model, "chunks", chunks)
		return false
	}
	if err != nil && errors.Is(genCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("generation exceeded %s: %w", w.opts.GenerationTimeout, err)
	}
	if err != nil {
		w.log.Error("generation failed", "model", cmd.Model, "chunks", chunks, "error", err)
	} else {
		w.log.Info("generation finished", "model", cmd.Model, "chunks", chunks, "elapsed", time.Since(start))
	}

	return w.emit(ctx, GenerationEnded{Err: err})
}

// request builds the chat request: optional system prompt, the history
// snapshot, then the new user prompt.
func (w *runner) request(cmd Generate) ollama.ChatRequest {
	conv := make([]model.ChatMessage, 0, len(cmd.History)+2)
	if w.opts.SystemPrompt != "" {
		conv = append(conv, model.NewSystemMessage(w.opts.SystemPrompt))
	}
	conv = append(conv, cmd.History...)
	conv = append(conv, model.NewUserMessage(cmd.Prompt))

	msgs := make([]ollama.Message, len(conv))
	for i, m := range conv {
		msgs[i] = ollama.Message{Role: string(m.Role), Content: m.Content}
	}

	req := ollama.ChatRequest{Model: cmd.Model, Messages: msgs, Stream: true}
	if w.opts.Temperature != 0 || w.opts.NumCtx != 0 {
		req.Options = &ollama.Options{Temperature: w.opts.Temperature, NumCtx: w.opts.NumCtx}
	}
	return req
}
