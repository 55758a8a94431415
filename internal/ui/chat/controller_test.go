// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/model"
)

func TestSubmitRejectsEmptyInput(t *testing.T) {
	c := NewController()

	for _, raw := range []string{"", "   ", "\n"} {
		if _, ok := c.Submit(raw); ok {
			t.Errorf("Submit(%q) should be rejected", raw)
		}
	}
	if c.Conversation().Len() != 0 {
		t.Error("rejected submissions must not touch the conversation")
	}
}

func TestSubmitOptimisticAppend(t *testing.T) {
	c := NewController()

	sub, ok := c.Submit("  hello  ")
	if !ok {
		t.Fatal("expected submission to be accepted")
	}

	if sub.Text != "hello" {
		t.Errorf("expected trimmed text, got %q", sub.Text)
	}
	if c.Conversation().Len() != 1 {
		t.Fatalf("expected optimistic user append, got %d messages", c.Conversation().Len())
	}
	if c.Conversation().Last().Role != model.RoleUser {
		t.Error("appended message should be the user turn")
	}
	if !c.InFlight() {
		t.Error("controller should be in flight after submit")
	}
}

func TestSubmitSnapshotExcludesNewTurn(t *testing.T) {
	c := NewController()

	first, _ := c.Submit("first")
	if len(first.History) != 0 {
		t.Errorf("first submission should carry empty history, got %d", len(first.History))
	}
	c.Resolve(first.Generation, &api.ChatResponse{Message: "reply"}, nil)

	second, _ := c.Submit("second")
	if len(second.History) != 2 {
		t.Fatalf("expected history of 2 prior turns, got %d", len(second.History))
	}
	if second.History[0].Content != "first" || second.History[1].Content != "reply" {
		t.Errorf("history must hold only prior turns: %+v", second.History)
	}
}

func TestSubmitWhileInFlightRejected(t *testing.T) {
	c := NewController()

	sub, _ := c.Submit("one")
	if _, ok := c.Submit("two"); ok {
		t.Fatal("second submit while in flight must be rejected")
	}
	if c.Conversation().Len() != 1 {
		t.Error("rejected submit must not append")
	}

	c.Resolve(sub.Generation, &api.ChatResponse{Message: "done"}, nil)
	if _, ok := c.Submit("three"); !ok {
		t.Error("submit should be accepted again after resolution")
	}
}

func TestResolveSuccess(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("show cars")

	c.Resolve(sub.Generation, &api.ChatResponse{
		Message: "Found 3 cars",
		Intent:  "car_recommendation",
		ToolResults: []api.ToolResult{
			{Name: "search_car", Status: 1},
		},
	}, nil)

	if c.InFlight() {
		t.Error("resolution should clear the in-flight guard")
	}
	if c.ErrorText() != "" {
		t.Errorf("no error expected, got %q", c.ErrorText())
	}

	last := c.Conversation().Last()
	if last.Role != model.RoleAssistant || last.PlainText() != "Found 3 cars" {
		t.Errorf("unexpected assistant turn: %+v", last)
	}
	if len(last.Structured().ToolResults) != 1 {
		t.Error("tool results should carry into the assistant turn")
	}
}

func TestResolveErrorRecordsApologyAndBanner(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")

	c.Resolve(sub.Generation, nil, &api.ClientError{
		Type:    api.ErrTypeTimeout,
		Message: api.ErrMsgTimeout,
	})

	if c.InFlight() {
		t.Error("error resolution should clear the in-flight guard")
	}
	if c.ErrorText() != api.ErrMsgTimeout {
		t.Errorf("expected banner %q, got %q", api.ErrMsgTimeout, c.ErrorText())
	}

	last := c.Conversation().Last()
	if last.Role != model.RoleAssistant || last.PlainText() != ApologyText {
		t.Errorf("expected apology turn, got %+v", last)
	}

	// The failed exchange stays in history for the next submission.
	next, _ := c.Submit("again")
	if len(next.History) != 2 {
		t.Errorf("expected 2 prior turns in history, got %d", len(next.History))
	}
}

func TestResolveStaleGenerationDropped(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")

	c.Abandon()
	before := c.Conversation().Len()

	c.Resolve(sub.Generation, &api.ChatResponse{Message: "late"}, nil)

	if c.Conversation().Len() != before {
		t.Error("a late result after abandonment must be dropped")
	}
	if c.ErrorText() != "" {
		t.Error("a dropped result must not set the error banner")
	}
}

func TestAbandonAllowsResubmit(t *testing.T) {
	c := NewController()
	c.Submit("one")
	c.Abandon()

	if c.InFlight() {
		t.Error("abandon should clear the in-flight guard")
	}
	if _, ok := c.Submit("two"); !ok {
		t.Error("submit should be accepted after abandon")
	}
}

func TestSubmitClearsErrorBanner(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")
	c.Resolve(sub.Generation, nil, errors.New("boom"))

	if c.ErrorText() == "" {
		t.Fatal("expected error banner")
	}

	c.Submit("retry")
	if c.ErrorText() != "" {
		t.Error("a new submission should clear the banner")
	}
}

func chunk(t *testing.T, typ string, data any) api.StreamChunk {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"type": typ, "data": data})
	if err != nil {
		t.Fatal(err)
	}
	encoded, _ := json.Marshal(data)
	return api.StreamChunk{Raw: raw, Type: typ, Data: encoded}
}

func TestStreamingAccumulation(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("compare cars")

	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeIntent, map[string]any{"intent": "car_comparison"}))
	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeThinking, map[string]any{"content": "comparing models"}))

	if c.Thinking() != "comparing models" {
		t.Errorf("expected thinking status, got %q", c.Thinking())
	}

	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeMessage, map[string]any{"content": "The XUV700 "}))
	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeMessage, map[string]any{"content": "has more range."}))
	c.FinishStream(sub.Generation, nil)

	last := c.Conversation().Last()
	if last.PlainText() != "The XUV700 has more range." {
		t.Errorf("unexpected accumulated text %q", last.PlainText())
	}
	if last.Intent != "car_comparison" {
		t.Errorf("expected intent from stream, got %q", last.Intent)
	}
	if c.InFlight() {
		t.Error("stream completion should clear the in-flight guard")
	}
}

func TestStreamingErrorChunk(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")

	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeError, map[string]any{"message": "backend overloaded"}))
	c.FinishStream(sub.Generation, nil)

	if c.ErrorText() != "backend overloaded" {
		t.Errorf("expected error chunk text in banner, got %q", c.ErrorText())
	}
	if c.Conversation().Last().PlainText() != ApologyText {
		t.Error("expected apology turn")
	}
}

func TestStreamingTransportError(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")

	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeMessage, map[string]any{"content": "partial"}))
	c.FinishStream(sub.Generation, &api.ClientError{
		Type:    api.ErrTypeUnreachable,
		Message: api.ErrMsgUnreachable,
	})

	if c.ErrorText() != api.ErrMsgUnreachable {
		t.Errorf("expected unreachable banner, got %q", c.ErrorText())
	}
	if c.Conversation().Last().PlainText() != ApologyText {
		t.Error("a transport failure discards partial text for the apology")
	}
}

func TestStreamingStaleChunksDropped(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")
	c.Abandon()

	c.ApplyChunk(sub.Generation, chunk(t, api.ChunkTypeMessage, map[string]any{"content": "late"}))
	c.FinishStream(sub.Generation, nil)

	if c.Conversation().Len() != 1 {
		t.Error("stale stream must not append an assistant turn")
	}
}

func TestStreamingEmptyStream(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")
	c.FinishStream(sub.Generation, nil)

	if c.Conversation().Last().PlainText() != ApologyText {
		t.Error("an empty stream resolves to the apology turn")
	}
	if c.ErrorText() != api.ErrMsgConnection {
		t.Errorf("expected generic banner, got %q", c.ErrorText())
	}
}

func TestReset(t *testing.T) {
	c := NewController()
	sub, _ := c.Submit("hi")
	c.Resolve(sub.Generation, nil, errors.New("boom"))

	c.Reset()

	if c.Conversation().Len() != 0 {
		t.Error("reset should start an empty conversation")
	}
	if c.ErrorText() != "" {
		t.Error("reset should clear the banner")
	}
	if _, ok := c.Submit("fresh"); !ok {
		t.Error("reset controller should accept submissions")
	}
}
