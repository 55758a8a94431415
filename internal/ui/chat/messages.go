// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat view.
// Every transport result carries the generation of the submission that
// produced it so the update loop can drop results that arrive after the
// request was abandoned.
package chat

import "github.com/vahanbot/vahan-tui/internal/api"

// =============================================================================
// TRANSPORT MESSAGES
// =============================================================================

// ResponseMsg delivers the outcome of a non-streaming chat request.
type ResponseMsg struct {
	Generation int
	Response   *api.ChatResponse
	Err        error
}

// StreamChunkMsg delivers one parsed chunk from a streaming request.
type StreamChunkMsg struct {
	Generation int
	Chunk      api.StreamChunk
}

// StreamDoneMsg signals that a streaming request finished, successfully or
// not.
type StreamDoneMsg struct {
	Generation int
	Err        error
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// DismissErrorMsg clears the error banner.
type DismissErrorMsg struct{}

// ClearConversationMsg starts a fresh conversation.
type ClearConversationMsg struct{}
