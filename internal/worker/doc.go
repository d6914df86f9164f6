// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package worker runs chat generations against the inference backend on a
// background goroutine.
//
// A worker is spawned per chat session. It checks the backend, announces
// itself with a Ready event carrying the Sender used to submit commands, and
// then processes Generate commands one at a time. Each generation produces
// GenerationStarted, one GenerationProgress per chunk and GenerationEnded.
//
// # Key Types
//
//   - Handle: Owner's view of a running worker (Events, Stop, Done)
//   - Sender: Non-blocking command submission
//   - Event: Ready, GenerationStarted, GenerationProgress, GenerationEnded, Disconnected
//   - Backend: What the worker needs from the inference client
//
// # Ordering
//
// The event channel is unbuffered, so the worker blocks on each chunk until
// the UI has taken it. Commands that arrive while a generation is streaming
// wait in the inbox and run afterwards.
//
// # Usage
//
//	h := worker.Spawn(ctx, client, worker.Options{})
//	defer h.Stop()
//	for ev := range h.Events() {
//	    switch ev := ev.(type) {
//	    case worker.Ready:
//	        _ = ev.Sender.TrySend(worker.Generate{Prompt: "hi", Model: "llama3"})
//	    case worker.GenerationProgress:
//	        fmt.Print(ev.Chunk)
//	    }
//	}
package worker
