// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/vahanbot/vahan-tui/internal/api"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered, append-only sequence of messages for one
// widget session. The conversation controller owns it exclusively; the
// transport layer only ever sees read-only history snapshots. Messages are
// never edited or removed, only appended; a new session starts a fresh
// conversation.
type Conversation struct {
	ID        string
	CreatedAt time.Time

	messages []*Message
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	return &Conversation{
		ID:        "conv_" + uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the conversation.
func (c *Conversation) Append(msg *Message) {
	c.messages = append(c.messages, msg)
}

// AppendUser creates and appends a user turn from trimmed input text.
func (c *Conversation) AppendUser(text string) *Message {
	msg := NewUserMessage(text)
	c.Append(msg)
	return msg
}

// Messages returns a copy of the message list. The messages themselves are
// shared; the slice is the caller's to keep.
func (c *Conversation) Messages() []*Message {
	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, or nil if empty.
func (c *Conversation) Last() *Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// =============================================================================
// HISTORY SERIALIZATION
// =============================================================================

// HistorySnapshot serializes the current messages into the backend's wire
// format: plain text content (empty string when a structured turn carries
// none), role, and an RFC 3339 timestamp.
//
// The controller calls this before appending a new user turn, so the
// submission itself travels only in the request's top-level message field.
func (c *Conversation) HistorySnapshot() []api.HistoryMessage {
	history := make([]api.HistoryMessage, 0, len(c.messages))
	for _, msg := range c.messages {
		history = append(history, api.HistoryMessage{
			Content:   msg.PlainText(),
			Role:      msg.Role.String(),
			Timestamp: msg.Timestamp.Format(time.RFC3339),
		})
	}
	return history
}
