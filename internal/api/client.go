// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the VahanBot assistant backend.
//
// The client is stateless: every call receives the message text plus a
// read-only snapshot of the conversation history. All transport failures
// are classified at this boundary into one of four fixed user-facing
// messages; raw error text never crosses into the UI layer (it is kept
// only as a wrapped cause for the debug log).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout is the hard ceiling for a non-streaming chat request.
	DefaultTimeout = 180 * time.Second

	// MaxResponseSize caps response bodies to prevent memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// userAgent identifies the client to the backend.
	userAgent = "vahan-tui/1.0"
)

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout for non-streaming requests (default: 180s). The streaming
	// endpoint has no explicit timeout and relies on the connection's own
	// lifecycle plus the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// The four user-facing failure messages. The conversation controller shows
// these in the error banner; nothing else from the transport layer is ever
// displayed.
const (
	ErrMsgServerFault = "The assistant ran into a temporary technical difficulty. Please try again in a moment."
	ErrMsgUnreachable = "The assistant service is unreachable. Please check your connection and try again."
	ErrMsgTimeout     = "The request timed out. Please try again with a shorter message."
	ErrMsgConnection  = "There was trouble connecting to the assistant. Please try again."
)

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeServer             // HTTP 5xx from the backend
	ErrTypeUnreachable        // no reachable endpoint
	ErrTypeTimeout            // ceiling exceeded with no response
)

// ClientError is a classified transport failure. Error() returns only the
// fixed user-facing message; the raw cause is available via Unwrap for
// logging.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrEmptyMessage is returned when the message text is empty after
// trimming. Callers are expected to trim and guard before calling, so this
// never carries a user-facing string.
var ErrEmptyMessage = errors.New("message text is empty")

// UserMessage extracts the user-facing text from a classified error,
// falling back to the generic connection message for anything else.
func UserMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return ErrMsgConnection
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with the VahanBot backend. It is stateless and safe
// for concurrent use, though the UI layer only ever has one request in
// flight per conversation.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	streamClient *http.Client
}

// NewClient creates a client for the given base URL with default settings.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		// No timeout for streaming; controlled via context.
		streamClient: &http.Client{},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// CHAT
// =============================================================================

// SendMessage sends a chat message with the conversation history and waits
// for the complete response.
//
// text must be non-empty after trimming; trimming is the caller's
// responsibility. history is the list of turns that existed before this
// submission; the new message travels only in the top-level field.
func (c *Client) SendMessage(ctx context.Context, text string, history []HistoryMessage) (*ChatResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := c.doJSON(ctx, "/chat", ChatRequest{
		Message:             text,
		ConversationHistory: historyOrEmpty(history),
	})
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Error("malformed chat response", "err", err)
		return nil, &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}
	return &resp, nil
}

// VerifyPassword checks a password against the backend's login gate.
func (c *Client) VerifyPassword(ctx context.Context, password string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	body, err := c.doJSON(ctx, "/verify-password", verifyRequest{Password: password})
	if err != nil {
		return false, err
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}
	return resp.Valid, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON posts a JSON body and returns the raw response body, with all
// failures classified.
func (c *Client) doJSON(ctx context.Context, path string, reqBody any) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}
	c.setHeaders(req)

	slog.Debug("api request", "method", req.Method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	slog.Debug("api response", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}

// setHeaders sets the required headers for backend requests.
// Note: no auth header; the backend's gate is the password endpoint.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

// readLimited reads a response body with the size cap applied.
func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// classifyStatus maps a non-200 HTTP status to a classified error. The
// body is captured as cause for the debug log, never shown to the user.
func classifyStatus(status int, body []byte) *ClientError {
	cause := fmt.Errorf("status %d: %s", status, previewBody(body))
	slog.Warn("backend error response", "status", status)

	if status >= 500 {
		return &ClientError{Type: ErrTypeServer, Message: ErrMsgServerFault, Cause: cause}
	}
	return &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: cause}
}

// classifyTransportError maps a request error to a classified error:
// deadline/timeouts first, then connection-level failures, then generic.
func classifyTransportError(err error) *ClientError {
	slog.Warn("transport failure", "err", err)

	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrMsgTimeout, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: ErrMsgTimeout, Cause: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &ClientError{Type: ErrTypeUnreachable, Message: ErrMsgUnreachable, Cause: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ClientError{Type: ErrTypeUnreachable, Message: ErrMsgUnreachable, Cause: err}
	}

	return &ClientError{Type: ErrTypeUnknown, Message: ErrMsgConnection, Cause: err}
}

// historyOrEmpty keeps the wire field an array rather than null.
func historyOrEmpty(history []HistoryMessage) []HistoryMessage {
	if history == nil {
		return []HistoryMessage{}
	}
	return history
}

// previewBody truncates an error body for the log.
func previewBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
