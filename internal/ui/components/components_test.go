// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/model"
	"github.com/vahanbot/vahan-tui/internal/ui/styles"
)

func TestDescribeKnownTools(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{"search_faq", "FAQ Search"},
		{"list_cars", "Car Catalog"},
		{"search_car", "Car Search"},
		{"get_car_comparison", "Car Comparison"},
		{"book_ride", "Ride Booking"},
		{"confirm_ride", "Ride Confirmation"},
		{"find_nearest_ev_charger", "EV Charger Lookup"},
		{"list_bikes", "Bike Catalog"},
		{"search_bike", "Bike Search"},
		{"get_bike_comparison", "Bike Comparison"},
	}

	for _, tt := range tests {
		d := Describe(tt.name)
		if d.Label != tt.label {
			t.Errorf("Describe(%q): expected label %q, got %q", tt.name, tt.label, d.Label)
		}
		if d.Icon == "" {
			t.Errorf("Describe(%q): expected an icon", tt.name)
		}
	}
}

func TestDescribeUnknownTool(t *testing.T) {
	d := Describe("scan_tyre_pressure")
	if d.Icon != "🔧" {
		t.Errorf("expected generic icon, got %q", d.Icon)
	}
	if d.Label != "scan tyre pressure" {
		t.Errorf("expected humanized label, got %q", d.Label)
	}
}

func TestStatusGlyph(t *testing.T) {
	if got := StatusGlyph(api.ToolResult{Status: 1}); got != "✓" {
		t.Errorf("status 1: expected ✓, got %q", got)
	}
	// Any status other than the success sentinel is failure, including
	// values that look truthy.
	for _, status := range []int{0, -1, 2, 200} {
		if got := StatusGlyph(api.ToolResult{Status: status}); got != "✗" {
			t.Errorf("status %d: expected ✗, got %q", status, got)
		}
	}
}

func TestToolResultView(t *testing.T) {
	theme := styles.NewTheme()

	t.Run("empty name renders nothing", func(t *testing.T) {
		v := NewToolResultView(theme)
		if got := v.View(); got != "" {
			t.Errorf("expected empty view, got %q", got)
		}
	})

	t.Run("header carries glyph and label", func(t *testing.T) {
		v := NewToolResultView(theme)
		v.SetResult(api.ToolResult{Name: "search_car", Status: 1})

		out := v.View()
		if !strings.Contains(out, "✓") {
			t.Error("expected success glyph in view")
		}
		if !strings.Contains(out, "Car Search") {
			t.Error("expected tool label in view")
		}
	})

	t.Run("toggle flips expansion", func(t *testing.T) {
		v := NewToolResultView(theme)
		v.SetResult(api.ToolResult{Name: "list_cars", Status: 1})

		if v.IsExpanded() {
			t.Error("new view should start collapsed")
		}
		v.Toggle()
		if !v.IsExpanded() {
			t.Error("toggle should expand")
		}
		v.SetResult(api.ToolResult{Name: "list_bikes", Status: 1})
		if v.IsExpanded() {
			t.Error("setting a new result should collapse")
		}
	})
}

func TestMessageBubbleUser(t *testing.T) {
	theme := styles.NewTheme()
	msg := model.NewUserMessage("show me **cars**")

	out := NewMessageBubble(msg, theme).View()

	if !strings.Contains(out, "You") {
		t.Error("expected sender name in view")
	}
	// User text is verbatim; markup markers stay as typed.
	if !strings.Contains(out, "**cars**") {
		t.Error("user text must not be markdown-rendered")
	}
}

func TestMessageBubbleAssistant(t *testing.T) {
	theme := styles.NewTheme()

	t.Run("markdown markers do not leak", func(t *testing.T) {
		msg := model.NewAssistantText("### Top picks\n- **XUV700**")
		out := NewMessageBubble(msg, theme).View()

		if strings.Contains(out, "###") || strings.Contains(out, "**") {
			t.Errorf("raw markers leaked into view:\n%s", out)
		}
		if !strings.Contains(out, "Top picks") || !strings.Contains(out, "XUV700") {
			t.Errorf("expected rendered text in view:\n%s", out)
		}
	})

	t.Run("tool results render after text", func(t *testing.T) {
		msg := model.NewAssistantMessage(&api.ChatResponse{
			Message: "Found 3 cars",
			ToolResults: []api.ToolResult{
				{Name: "search_car", Status: 1},
			},
		})
		out := NewMessageBubble(msg, theme).View()

		if !strings.Contains(out, "Found 3 cars") {
			t.Error("expected message text")
		}
		if !strings.Contains(out, "Car Search") {
			t.Error("expected tool result view")
		}
	})

	t.Run("intent badge shown when enabled", func(t *testing.T) {
		msg := model.NewAssistantMessage(&api.ChatResponse{
			Message: "Hello!",
			Intent:  "greeting",
		})
		b := NewMessageBubble(msg, theme)
		if !strings.Contains(b.View(), "greeting") {
			t.Error("expected intent badge")
		}

		b.ShowIntent = false
		if strings.Contains(b.View(), "👋") {
			t.Error("intent badge should be hidden when disabled")
		}
	})
}

func TestIntentBadge(t *testing.T) {
	if got := IntentBadge("car_recommendation"); got != "🚗 cars" {
		t.Errorf("expected known badge, got %q", got)
	}
	if got := IntentBadge("warranty_lookup"); got != "warranty lookup" {
		t.Errorf("expected humanized fallback, got %q", got)
	}
}
