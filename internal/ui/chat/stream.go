// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vahanbot/vahan-tui/internal/api"
)

// =============================================================================
// REQUEST SESSIONS
// =============================================================================

// session is one in-flight transport exchange. Cancel tears down the
// underlying request; any messages already queued keep their generation tag
// and are dropped by the update loop.
type session struct {
	generation int
	cancel     context.CancelFunc
	ch         chan tea.Msg
}

// Cancel aborts the session's request.
func (s *session) Cancel() {
	if s != nil && s.cancel != nil {
		s.cancel()
	}
}

// next waits for the session's next message. Returns nil after the channel
// drains, which ends the listen loop.
func (s *session) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-s.ch
		if !ok {
			return nil
		}
		return msg
	}
}

// send forwards one message unless the session was cancelled. After a
// cancel nobody drains the channel, so an unguarded send would strand the
// producer goroutine once the buffer fills.
func (s *session) send(ctx context.Context, msg tea.Msg) {
	select {
	case s.ch <- msg:
	case <-ctx.Done():
	}
}

// startSend runs a non-streaming request in the background.
func startSend(client *api.Client, sub Submission) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{generation: sub.Generation, cancel: cancel, ch: make(chan tea.Msg, 1)}

	go func() {
		defer close(s.ch)
		resp, err := client.SendMessage(ctx, sub.Text, sub.History)
		s.send(ctx, ResponseMsg{Generation: sub.Generation, Response: resp, Err: err})
	}()

	return s
}

// startStream runs a streaming request in the background, forwarding each
// chunk as its own message. The channel is buffered so the read loop's
// synchronous handler never waits on rendering.
func startStream(client *api.Client, sub Submission) *session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &session{generation: sub.Generation, cancel: cancel, ch: make(chan tea.Msg, 64)}

	go func() {
		defer close(s.ch)
		err := client.SendStreamMessage(ctx, sub.Text, sub.History, func(chunk api.StreamChunk) {
			s.send(ctx, StreamChunkMsg{Generation: sub.Generation, Chunk: chunk})
		})
		s.send(ctx, StreamDoneMsg{Generation: sub.Generation, Err: err})
	}()

	return s
}
