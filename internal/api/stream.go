// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// =============================================================================
// STREAMING CHAT
// =============================================================================

// StreamHandler receives one chunk per parsed stream line, in arrival
// order. It is invoked synchronously from the read loop and must not block.
type StreamHandler func(StreamChunk)

// SendStreamMessage sends a chat message against the streaming endpoint.
//
// The response body is newline-delimited JSON: each non-empty line is an
// independently parseable value delivered to onChunk. Malformed lines are
// logged and skipped; incomplete lines are buffered across reads so a
// chunk split mid-line is never delivered early. The call returns when the
// stream completes, the context is done, or the transport fails.
func (c *Client) SendStreamMessage(ctx context.Context, text string, history []HistoryMessage, onChunk StreamHandler) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	bodyBytes, err := json.Marshal(ChatRequest{
		Message:             text,
		ConversationHistory: historyOrEmpty(history),
	})
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/stream", bytes.NewReader(bodyBytes))
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}
	c.setHeaders(req)

	slog.Debug("api stream request", "path", "/chat/stream")

	// Streaming client has no timeout; the connection lifecycle and the
	// caller's context bound the call.
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := readLimited(resp.Body)
		return classifyStatus(resp.StatusCode, body)
	}

	return readStream(ctx, resp.Body, onChunk)
}

// readStream consumes newline-delimited JSON from body until EOF.
//
// bufio.Reader buffers partial lines across read boundaries, so a line
// split between network reads is only processed once its newline arrives.
// A trailing line without a newline is processed at EOF, when the stream's
// completion guarantees it is whole.
func readStream(ctx context.Context, body io.Reader, onChunk StreamHandler) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return classifyTransportError(ctx.Err())
		default:
		}

		line, err := reader.ReadBytes('\n')

		if chunk := bytes.TrimSpace(line); len(chunk) > 0 {
			deliverLine(chunk, onChunk)
		}

		if err != nil {
			if err == io.EOF {
				return nil
			}
			return &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
		}
	}
}

// deliverLine parses one stream line and hands it to the handler.
// Lines that are not standalone JSON values are skipped, not fatal.
func deliverLine(line []byte, onChunk StreamHandler) {
	if !json.Valid(line) {
		slog.Warn("skipping malformed stream chunk", "bytes", len(line))
		return
	}
	onChunk(parseStreamChunk(line))
}
