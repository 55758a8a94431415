// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "VahanBot"
	default:
		return string(r)
	}
}

// =============================================================================
// CONTENT UNION
// =============================================================================

// Content is the tagged union of a message payload: either plain text or a
// structured bundle. Rendering always goes through Message.Structured so
// downstream code handles exactly one shape.
type Content interface {
	// PlainText extracts the text carried by this content, defaulting to
	// the empty string. Used for history serialization and previews.
	PlainText() string

	isContent()
}

// TextContent is a plain text payload.
type TextContent string

func (t TextContent) PlainText() string { return string(t) }
func (TextContent) isContent()          {}

// StructuredContent bundles text with optional image, structured data and
// tool execution records. Absence of all fields renders nothing.
type StructuredContent struct {
	// Text may contain embedded markdown and inline image markers.
	Text string

	// Image is a standalone image reference.
	Image string

	// Data is an arbitrary structured payload, rendered verbatim.
	Data map[string]any

	// ToolResults preserves the backend's execution order.
	ToolResults []api.ToolResult
}

func (s StructuredContent) PlainText() string { return s.Text }
func (StructuredContent) isContent()          {}

// IsEmpty reports whether there is nothing to render.
func (s StructuredContent) IsEmpty() bool {
	return s.Text == "" && s.Image == "" && len(s.Data) == 0 && len(s.ToolResults) == 0
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
//
// Role and Timestamp are set exactly once at creation; IDs are unique
// within a session and assigned in creation order.
type Message struct {
	ID        string
	Role      Role
	Timestamp time.Time
	Content   Content

	// Intent is the backend's classification label, assistant turns only.
	Intent string

	// ToolsUsed lists invoked tool names in backend execution order,
	// assistant turns only.
	ToolsUsed []string
}

// NewUserMessage creates a user turn from already-trimmed input text.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleUser,
		Timestamp: time.Now(),
		Content:   TextContent(text),
	}
}

// NewAssistantMessage creates an assistant turn from a backend response.
// Content is structured when tool results are present and non-empty,
// otherwise plain text.
func NewAssistantMessage(resp *api.ChatResponse) *Message {
	msg := &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Intent:    resp.Intent,
		ToolsUsed: resp.ToolsUsed,
	}

	if len(resp.ToolResults) > 0 {
		msg.Content = StructuredContent{
			Text:        resp.Message,
			ToolResults: resp.ToolResults,
		}
	} else {
		msg.Content = TextContent(resp.Message)
	}
	return msg
}

// NewAssistantText creates an assistant turn carrying fixed text. Used for
// the fallback apology when a request fails.
func NewAssistantText(text string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		Content:   TextContent(text),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Structured normalizes the content union for rendering: plain text is
// treated as structured with only Text populated.
func (m *Message) Structured() StructuredContent {
	switch c := m.Content.(type) {
	case StructuredContent:
		return c
	case TextContent:
		return StructuredContent{Text: string(c)}
	default:
		return StructuredContent{}
	}
}

// PlainText extracts the message's text, defaulting to the empty string.
func (m *Message) PlainText() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.PlainText()
}

// Preview returns a truncated single-line preview of the message.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.FirstLine(m.PlainText()), maxLen)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
