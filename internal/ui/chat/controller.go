// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/model"
)

// ApologyText is the assistant turn recorded when a request fails. The
// conversation always gets a reply; the real failure reason goes to the
// error banner instead.
const ApologyText = "I'm sorry, I couldn't process your request."

// =============================================================================
// CONVERSATION CONTROLLER
// =============================================================================

// Controller owns the conversation state machine: optimistic user append,
// the single in-flight guard, response resolution, and the error slot. It
// holds no transport or terminal state, so the submit lifecycle is testable
// without a running UI.
//
// All methods are called from the UI update loop; the controller itself is
// not goroutine-safe.
type Controller struct {
	conversation *model.Conversation

	inFlight   bool
	generation int
	errText    string

	// Streaming accumulation for the in-flight generation.
	pending *pendingReply
}

// pendingReply accumulates stream chunks for one submission.
type pendingReply struct {
	text     strings.Builder
	intent   string
	thinking string
	errText  string
}

// Submission captures everything the transport layer needs for one request.
// History is snapshotted before the user turn is appended, so the submitted
// text travels only in the request's top-level message field.
type Submission struct {
	Generation int
	Text       string
	History    []api.HistoryMessage
}

// NewController creates a controller with a fresh conversation.
func NewController() *Controller {
	return &Controller{
		conversation: model.NewConversation(),
	}
}

// =============================================================================
// SUBMIT LIFECYCLE
// =============================================================================

// Submit starts a new request. The raw input is trimmed; empty input and
// submissions while a request is in flight are rejected without any state
// change. On acceptance the user turn is appended immediately and the
// in-flight guard engages until Resolve, FinishStream or Abandon.
func (c *Controller) Submit(raw string) (Submission, bool) {
	text := strings.TrimSpace(raw)
	if text == "" || c.inFlight {
		return Submission{}, false
	}

	c.errText = ""
	history := c.conversation.HistorySnapshot()
	c.conversation.AppendUser(text)

	c.inFlight = true
	c.generation++
	c.pending = &pendingReply{}

	return Submission{
		Generation: c.generation,
		Text:       text,
		History:    history,
	}, true
}

// current reports whether gen identifies the live in-flight request.
// Results for any other generation are stale and must be dropped.
func (c *Controller) current(gen int) bool {
	return c.inFlight && gen == c.generation
}

// Resolve completes a non-streaming request. Stale results are dropped
// without touching the conversation.
func (c *Controller) Resolve(gen int, resp *api.ChatResponse, err error) {
	if !c.current(gen) {
		return
	}
	c.inFlight = false
	c.pending = nil

	if err != nil {
		c.failTurn(err)
		return
	}
	c.conversation.Append(model.NewAssistantMessage(resp))
}

// Abandon invalidates the in-flight request, if any. Late results for it
// will be dropped. The optimistic user turn stays in the conversation.
func (c *Controller) Abandon() {
	c.inFlight = false
	c.pending = nil
	c.generation++
}

// failTurn records the apology reply and fills the error banner slot.
func (c *Controller) failTurn(err error) {
	c.errText = api.UserMessage(err)
	c.conversation.Append(model.NewAssistantText(ApologyText))
}

// =============================================================================
// STREAMING LIFECYCLE
// =============================================================================

// ApplyChunk folds one stream chunk into the pending reply. Chunks for a
// stale generation are dropped. Unrecognized chunk types are ignored; the
// payload contract is best-effort.
func (c *Controller) ApplyChunk(gen int, chunk api.StreamChunk) {
	if !c.current(gen) {
		return
	}

	switch chunk.Type {
	case api.ChunkTypeIntent:
		var p api.IntentPayload
		if chunk.DecodeData(&p) == nil {
			c.pending.intent = p.Intent
		}
	case api.ChunkTypeThinking:
		var p api.ThinkingPayload
		if chunk.DecodeData(&p) == nil {
			c.pending.thinking = p.Content
		}
	case api.ChunkTypeMessage:
		var p api.MessagePayload
		if chunk.DecodeData(&p) == nil {
			c.pending.text.WriteString(p.Content)
		}
	case api.ChunkTypeError:
		var p api.ErrorPayload
		if chunk.DecodeData(&p) == nil && p.Message != "" {
			c.pending.errText = p.Message
		}
	}
}

// FinishStream completes a streaming request. A transport error, or an
// error chunk with no message content received, resolves to the apology
// turn; otherwise the accumulated text becomes the assistant reply.
func (c *Controller) FinishStream(gen int, err error) {
	if !c.current(gen) {
		return
	}
	c.inFlight = false
	pending := c.pending
	c.pending = nil

	if err != nil {
		c.failTurn(err)
		return
	}

	text := pending.text.String()
	if text == "" {
		if pending.errText != "" {
			c.errText = pending.errText
		} else {
			c.errText = api.ErrMsgConnection
		}
		c.conversation.Append(model.NewAssistantText(ApologyText))
		return
	}

	msg := model.NewAssistantMessage(&api.ChatResponse{
		Message: text,
		Intent:  pending.intent,
	})
	c.conversation.Append(msg)
}

// Thinking returns the latest thinking status line for the in-flight
// request, empty when idle.
func (c *Controller) Thinking() string {
	if c.pending == nil {
		return ""
	}
	return c.pending.thinking
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversation returns the controller's conversation.
func (c *Controller) Conversation() *model.Conversation {
	return c.conversation
}

// InFlight reports whether a request is awaiting its reply.
func (c *Controller) InFlight() bool {
	return c.inFlight
}

// ErrorText returns the current error banner text, empty when clear.
func (c *Controller) ErrorText() string {
	return c.errText
}

// ClearError dismisses the error banner.
func (c *Controller) ClearError() {
	c.errText = ""
}

// Reset starts a fresh conversation and drops any in-flight request.
func (c *Controller) Reset() {
	c.Abandon()
	c.errText = ""
	c.conversation = model.NewConversation()
}
