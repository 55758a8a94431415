// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the vahan-tui
// chat client.
package components

import (
	"strconv"
	"strings"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/ui/styles"
	"github.com/vahanbot/vahan-tui/internal/util"
)

// =============================================================================
// TOOL PRESENTATION
// =============================================================================

// ToolDescription is the display form of a backend tool name.
type ToolDescription struct {
	Icon  string
	Label string
}

// toolDescriptions maps the backend's known tool names to display entries.
var toolDescriptions = map[string]ToolDescription{
	"search_faq":              {Icon: "📚", Label: "FAQ Search"},
	"list_cars":               {Icon: "🚗", Label: "Car Catalog"},
	"search_car":              {Icon: "🔍", Label: "Car Search"},
	"get_car_comparison":      {Icon: "⚖️", Label: "Car Comparison"},
	"book_ride":               {Icon: "🗓️", Label: "Ride Booking"},
	"confirm_ride":            {Icon: "✅", Label: "Ride Confirmation"},
	"find_nearest_ev_charger": {Icon: "🔌", Label: "EV Charger Lookup"},
	"list_bikes":              {Icon: "🏍️", Label: "Bike Catalog"},
	"search_bike":             {Icon: "🔍", Label: "Bike Search"},
	"get_bike_comparison":     {Icon: "⚖️", Label: "Bike Comparison"},
}

// Describe maps a tool name to its display entry. Unknown names get a
// generic icon and a humanized label so new backend tools degrade cleanly.
func Describe(name string) ToolDescription {
	if d, ok := toolDescriptions[name]; ok {
		return d
	}
	return ToolDescription{
		Icon:  "🔧",
		Label: strings.ReplaceAll(name, "_", " "),
	}
}

// StatusGlyph returns the success or failure marker for a tool result.
// Only the backend's success sentinel counts as success.
func StatusGlyph(result api.ToolResult) string {
	if result.Succeeded() {
		return "✓"
	}
	return "✗"
}

// =============================================================================
// TOOL RESULT VIEW
// =============================================================================

// ToolResultView displays one backend tool invocation inside an assistant
// message.
type ToolResultView struct {
	result api.ToolResult

	expanded     bool
	maxCollapsed int // max output lines when collapsed
	maxExpanded  int // max output lines when expanded
	width        int

	theme *styles.Theme
}

// NewToolResultView creates a new tool result view.
func NewToolResultView(theme *styles.Theme) *ToolResultView {
	return &ToolResultView{
		theme:        theme,
		maxCollapsed: 3,
		maxExpanded:  50,
		width:        80,
	}
}

// SetResult sets the tool result to display.
func (v *ToolResultView) SetResult(result api.ToolResult) {
	v.result = result
	v.expanded = false
}

// SetWidth sets the display width.
func (v *ToolResultView) SetWidth(width int) {
	v.width = width
}

// Toggle expands or collapses the result output.
func (v *ToolResultView) Toggle() {
	v.expanded = !v.expanded
}

// IsExpanded returns whether the result is expanded.
func (v *ToolResultView) IsExpanded() bool {
	return v.expanded
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the tool result.
func (v *ToolResultView) View() string {
	if v.result.Name == "" {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(v.renderHeader())

	maxLines := v.maxCollapsed
	if v.expanded {
		maxLines = v.maxExpanded
	}
	if output := v.renderOutput(maxLines); output != "" {
		builder.WriteString("\n")
		builder.WriteString(output)
	}

	style := v.theme.ToolError
	if v.result.Succeeded() {
		style = v.theme.ToolSuccess
	}
	return style.Render(builder.String())
}

// renderHeader renders the "glyph icon label" summary line.
func (v *ToolResultView) renderHeader() string {
	desc := Describe(v.result.Name)

	var builder strings.Builder
	builder.WriteString(StatusGlyph(v.result))
	builder.WriteString(" ")
	builder.WriteString(desc.Icon)
	builder.WriteString(" ")
	builder.WriteString(v.theme.ToolLabel.Render(desc.Label))
	return builder.String()
}

// renderOutput renders the tool output, truncated to maxLines.
func (v *ToolResultView) renderOutput(maxLines int) string {
	text := v.result.OutputText()
	if text == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	truncated := false
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		truncated = true
	}

	for i, line := range lines {
		lines[i] = util.TruncateWidth(line, v.width-4)
	}
	if truncated {
		lines = append(lines, "… ("+strconv.Itoa(len(strings.Split(text, "\n")))+" lines)")
	}

	return v.theme.ToolDetail.Render(strings.Join(lines, "\n"))
}
