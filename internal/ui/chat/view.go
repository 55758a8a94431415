// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vahanbot/vahan-tui/internal/ui/components"
)

// chromeHeight is the number of rows taken by everything that is not the
// transcript viewport: header, input area, status bar and spacing.
const chromeHeight = 7

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the complete chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting VahanBot..."
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if banner := m.renderErrorBanner(); banner != "" {
		sections = append(sections, banner)
	}

	sections = append(sections,
		m.renderInput(),
		m.renderStatusBar(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("VahanBot")
	subtitle := m.theme.HeaderSubtitle.Render(" · your vehicle assistant")
	return m.theme.Header.Width(m.width - 2).Render(title + subtitle)
}

// renderTranscript renders every conversation turn for the viewport.
func (m Model) renderTranscript() string {
	messages := m.controller.Conversation().Messages()
	if len(messages) == 0 {
		return m.renderWelcome()
	}

	var parts []string
	for _, msg := range messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.SetWidth(m.width)
		bubble.ShowIntent = m.showIntentBadges
		bubble.ShowTools = m.showToolDetails
		parts = append(parts, bubble.View())
	}

	if m.controller.InFlight() {
		parts = append(parts, m.renderThinking())
	}

	return strings.Join(parts, "\n\n")
}

// renderWelcome renders the empty-conversation greeting.
func (m Model) renderWelcome() string {
	lines := []string{
		m.theme.HeaderTitle.Render("Welcome to VahanBot 🚗"),
		"",
		m.theme.WelcomeText.Render("Ask about cars and bikes, compare models,"),
		m.theme.WelcomeText.Render("book a test ride or find an EV charger."),
	}
	return m.theme.WelcomeBox.Render(strings.Join(lines, "\n"))
}

// renderThinking renders the in-flight indicator, with the backend's
// thinking status when streaming provides one.
func (m Model) renderThinking() string {
	status := m.controller.Thinking()
	if status == "" {
		status = "thinking..."
	}
	return m.spinner.View() + " " + m.theme.ThinkingText.Render(status)
}

// renderErrorBanner renders the dismissible error banner, empty when clear.
func (m Model) renderErrorBanner() string {
	text := m.controller.ErrorText()
	if text == "" {
		return ""
	}
	return m.theme.ErrorBanner.Width(m.width - 2).Render("⚠ " + text)
}

// renderInput renders the input area.
func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("❯ ")
	return m.theme.InputContainer.Width(m.width - 2).Render(prompt + m.input.View())
}

// renderStatusBar renders the shortcut hints.
func (m Model) renderStatusBar() string {
	hints := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" send"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" cancel"),
		m.theme.ShortcutKey.Render("ctrl+l") + m.theme.ShortcutDesc.Render(" clear"),
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit"),
	}

	mode := "complete"
	if m.streaming {
		mode = "streaming"
	}
	hints = append(hints, m.theme.ShortcutDesc.Render(mode))

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(hints, "  "))
}
