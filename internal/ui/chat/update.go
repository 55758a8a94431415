// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case ResponseMsg:
		m.controller.Resolve(msg.Generation, msg.Response, msg.Err)
		m.finishSession(msg.Generation)
		m.refreshViewport()
		return m, nil

	case StreamChunkMsg:
		m.controller.ApplyChunk(msg.Generation, msg.Chunk)
		m.refreshViewport()
		if m.active != nil {
			return m, m.active.next()
		}
		return m, nil

	case StreamDoneMsg:
		m.controller.FinishStream(msg.Generation, msg.Err)
		m.finishSession(msg.Generation)
		m.refreshViewport()
		return m, nil

	case DismissErrorMsg:
		m.controller.ClearError()
		return m, nil

	case ClearConversationMsg:
		m.abandonActive()
		m.controller.Reset()
		m.refreshViewport()
		return m, nil

	default:
		var cmds []tea.Cmd

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "esc":
		if m.controller.InFlight() {
			m.abandonActive()
			m.controller.Abandon()
			m.refreshViewport()
			return m, nil
		}
		if m.controller.ErrorText() != "" {
			m.controller.ClearError()
			return m, nil
		}
		return m, nil

	case "ctrl+l":
		m.abandonActive()
		m.controller.Reset()
		m.refreshViewport()
		return m, nil

	default:
		var cmds []tea.Cmd

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}
}

// submit runs the submit state machine against the current input value.
func (m Model) submit() (Model, tea.Cmd) {
	sub, ok := m.controller.Submit(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.Reset()
	slog.Debug("submitting message", "generation", sub.Generation, "history", len(sub.History))

	if m.streaming {
		m.active = startStream(m.client, sub)
	} else {
		m.active = startSend(m.client, sub)
	}
	m.refreshViewport()

	return m, m.active.next()
}

// handleResize recomputes the layout for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	viewportHeight := msg.Height - chromeHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = msg.Width - 6

	m.refreshViewport()
	return m
}

// finishSession tears down the active session once its generation resolved.
func (m *Model) finishSession(gen int) {
	if m.active != nil && m.active.generation == gen {
		m.active.Cancel()
		m.active = nil
	}
}

// abandonActive cancels the active session, if any.
func (m *Model) abandonActive() {
	if m.active != nil {
		m.active.Cancel()
		m.active = nil
	}
}

// refreshViewport re-renders the transcript and keeps the view pinned to
// the latest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}
