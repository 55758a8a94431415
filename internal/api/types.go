// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the VahanBot assistant backend.
package api

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// HistoryMessage is one prior conversation turn as the backend expects it.
type HistoryMessage struct {
	Content   string `json:"content"`
	Role      string `json:"role"`      // "user" or "assistant"
	Timestamp string `json:"timestamp"` // RFC 3339
}

// ChatRequest is the request body for /chat and /chat/stream.
//
// The new user message travels only in Message; ConversationHistory holds
// the turns that existed before this submission.
type ChatRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []HistoryMessage `json:"conversation_history"`
}

// ChatResponse is the backend's answer to a /chat request.
type ChatResponse struct {
	Message        string       `json:"message"`
	Intent         string       `json:"intent,omitempty"`
	ToolsUsed      []string     `json:"tools_used,omitempty"`
	ToolResults    []ToolResult `json:"tool_results,omitempty"`
	ConversationID string       `json:"conversation_id,omitempty"`
}

// =============================================================================
// TOOL RESULTS
// =============================================================================

// ToolStatusSuccess is the backend's success sentinel; any other status
// value denotes failure.
const ToolStatusSuccess = 1

// ToolResult describes one backend-side capability invocation performed
// while producing an assistant response. Entries arrive in execution order
// and are never reordered client-side.
type ToolResult struct {
	Name     string          `json:"name"`
	Status   int             `json:"status"`
	Input    map[string]any  `json:"input,omitempty"`
	Output   json.RawMessage `json:"output,omitempty"` // string or structured
	Metadata map[string]any  `json:"metadata,omitempty"`
}

// Succeeded reports whether the tool invocation succeeded.
func (t ToolResult) Succeeded() bool {
	return t.Status == ToolStatusSuccess
}

// OutputText renders the opaque output payload for display. A JSON string
// is unquoted; anything else is shown as compact JSON verbatim.
func (t ToolResult) OutputText() string {
	if len(t.Output) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(t.Output, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, t.Output); err != nil {
		return string(t.Output)
	}
	return buf.String()
}

// =============================================================================
// STREAM CHUNKS
// =============================================================================

// Known stream envelope types emitted by the backend. The chunk payload is
// contractually opaque; these are a best-effort decode on top of it.
const (
	ChunkTypeIntent   = "intent"
	ChunkTypeThinking = "thinking"
	ChunkTypeMessage  = "message"
	ChunkTypeError    = "error"
)

// StreamChunk is one independently-parsed JSON unit from /chat/stream.
//
// Raw always holds the complete line. Type and Data are populated when the
// chunk happens to match the backend's {type, data} envelope; consumers
// must tolerate either field being empty.
type StreamChunk struct {
	Raw  json.RawMessage
	Type string
	Data json.RawMessage
}

// parseStreamChunk wraps a validated JSON line in a StreamChunk, decoding
// the envelope best-effort.
func parseStreamChunk(line []byte) StreamChunk {
	chunk := StreamChunk{Raw: line}

	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(line, &envelope); err == nil {
		chunk.Type = envelope.Type
		chunk.Data = envelope.Data
	}

	return chunk
}

// MessagePayload is the decoded data of a ChunkTypeMessage chunk.
type MessagePayload struct {
	Content string `json:"content"`
	Final   bool   `json:"final"`
}

// IntentPayload is the decoded data of a ChunkTypeIntent chunk.
type IntentPayload struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// ThinkingPayload is the decoded data of a ChunkTypeThinking chunk.
type ThinkingPayload struct {
	Content string `json:"content"`
}

// ErrorPayload is the decoded data of a ChunkTypeError chunk.
type ErrorPayload struct {
	Message string `json:"message"`
}

// DecodeData unmarshals the chunk's data payload into v.
func (c StreamChunk) DecodeData(v any) error {
	return json.Unmarshal(c.Data, v)
}

// =============================================================================
// PASSWORD VERIFICATION
// =============================================================================

// verifyRequest is the request body for /verify-password.
type verifyRequest struct {
	Password string `json:"password"`
}

// verifyResponse is the response body for /verify-password.
type verifyResponse struct {
	Valid bool `json:"valid"`
}
