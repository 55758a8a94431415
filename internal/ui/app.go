// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui wires the chat view into the top-level Bubble Tea program.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/config"
	"github.com/vahanbot/vahan-tui/internal/ui/chat"
	"github.com/vahanbot/vahan-tui/internal/ui/styles"
)

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	chat chat.Model
}

// NewApp builds the application model for the given backend client.
func NewApp(client *api.Client, cfg *config.Config) App {
	theme := styles.NewTheme()
	return App{
		chat: chat.NewModel(client, cfg, theme),
	}
}

// Init starts the chat view.
func (a App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update routes messages, handling quit at the top level.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "ctrl+d":
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

// View renders the chat view.
func (a App) View() string {
	return a.chat.View()
}
