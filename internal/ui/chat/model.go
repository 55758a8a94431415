// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/config"
	"github.com/vahanbot/vahan-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	controller *Controller
	active     *session

	// Transport
	client    *api.Client
	streaming bool

	// Styling
	theme *styles.Theme

	// Display options
	showToolDetails  bool
	showIntentBadges bool

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
}

// NewModel creates the chat view for the given backend client.
func NewModel(client *api.Client, cfg *config.Config, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Ask about cars, bikes, rides or EV chargers..."
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return Model{
		controller:       NewController(),
		client:           client,
		streaming:        cfg.Backend.Stream,
		theme:            theme,
		showToolDetails:  cfg.UI.ShowToolDetails,
		showIntentBadges: cfg.UI.ShowIntentBadges,
		input:            input,
		spinner:          spin,
	}
}

// Controller exposes the conversation state machine, primarily for tests.
func (m Model) Controller() *Controller {
	return m.controller
}
