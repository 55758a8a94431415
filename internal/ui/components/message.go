// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"encoding/json"
	"strings"

	"github.com/vahanbot/vahan-tui/internal/markdown"
	"github.com/vahanbot/vahan-tui/internal/model"
	"github.com/vahanbot/vahan-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one conversation turn.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowIntent    bool
	ShowTools     bool

	theme *styles.Theme
}

// NewMessageBubble creates a message bubble with display defaults.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowIntent:    true,
		ShowTools:     true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}

	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	default:
		return b.renderAssistant()
	}
}

// ==========================================================================
// USER BUBBLE
// ==========================================================================

func (b *MessageBubble) renderUser() string {
	header := b.theme.SenderUser.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}

	// User turns are verbatim text, never markdown.
	body := b.Message.PlainText()

	return header + "\n" + b.theme.UserBubble.Width(b.contentWidth()).Render(body)
}

// ==========================================================================
// ASSISTANT BUBBLE
// ==========================================================================

func (b *MessageBubble) renderAssistant() string {
	header := b.theme.SenderAssistant.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	if b.ShowIntent && b.Message.Intent != "" {
		header += " " + b.theme.IntentBadge.Render(IntentBadge(b.Message.Intent))
	}

	content := b.Message.Structured()

	var parts []string
	if content.Text != "" {
		parts = append(parts, b.renderMarkdown(content.Text))
	}
	if content.Image != "" {
		parts = append(parts, b.theme.ImageLink.Render("🖼 "+content.Image))
	}
	if len(content.Data) > 0 {
		parts = append(parts, b.renderData(content.Data))
	}
	if b.ShowTools {
		for _, result := range content.ToolResults {
			view := NewToolResultView(b.theme)
			view.SetResult(result)
			view.SetWidth(b.contentWidth())
			parts = append(parts, view.View())
		}
	}
	if len(parts) == 0 {
		parts = append(parts, b.theme.Timestamp.Render("(no content)"))
	}

	body := strings.Join(parts, "\n")
	return header + "\n" + b.theme.AssistantBubble.Width(b.contentWidth()).Render(body)
}

// renderMarkdown converts assistant text into styled lines via the segment
// tree. Raw markup never reaches the terminal directly.
func (b *MessageBubble) renderMarkdown(text string) string {
	var lines []string
	for _, seg := range markdown.Render(text) {
		lines = append(lines, b.renderSegment(seg))
	}
	return strings.Join(lines, "\n")
}

// renderSegment renders one display segment.
func (b *MessageBubble) renderSegment(seg markdown.Segment) string {
	switch seg.Kind {
	case markdown.SegmentHeading2:
		return b.theme.Heading2.Render(b.renderSpans(seg.Spans))
	case markdown.SegmentHeading3:
		return b.theme.Heading3.Render(b.renderSpans(seg.Spans))
	case markdown.SegmentBullet:
		return b.theme.Bullet.Render("• " + b.renderSpans(seg.Spans))
	case markdown.SegmentImage:
		label := seg.Alt
		if label == "" {
			label = seg.URL
		}
		return b.theme.ImageLink.Render("🖼 " + label)
	default:
		return b.theme.Paragraph.Render(b.renderSpans(seg.Spans))
	}
}

// renderSpans applies inline styles to a segment's spans.
func (b *MessageBubble) renderSpans(spans []markdown.Span) string {
	var builder strings.Builder
	for _, span := range spans {
		switch span.Style {
		case markdown.SpanBold:
			builder.WriteString(b.theme.Bold.Render(span.Text))
		case markdown.SpanItalic:
			builder.WriteString(b.theme.Italic.Render(span.Text))
		case markdown.SpanCode:
			builder.WriteString(b.theme.Code.Render(span.Text))
		default:
			builder.WriteString(span.Text)
		}
	}
	return builder.String()
}

// renderData shows a structured data payload verbatim as indented JSON.
func (b *MessageBubble) renderData(data map[string]any) string {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return ""
	}
	return b.theme.ToolDetail.Render(string(encoded))
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// INTENT BADGES
// =============================================================================

// intentBadges maps backend intent labels to compact display badges.
var intentBadges = map[string]string{
	"greeting":                 "👋 greeting",
	"general_qna":              "💬 q&a",
	"car_recommendation":       "🚗 cars",
	"car_comparison":           "⚖️ cars",
	"bike_recommendation":      "🏍️ bikes",
	"bike_comparison":          "⚖️ bikes",
	"book_ride":                "🗓️ ride",
	"find_ev_charger_location": "🔌 charger",
}

// IntentBadge maps an intent label to its display badge, falling back to
// the raw label with underscores humanized.
func IntentBadge(intent string) string {
	if badge, ok := intentBadges[intent]; ok {
		return badge
	}
	return strings.ReplaceAll(intent, "_", " ")
}
