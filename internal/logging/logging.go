// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide slog logger.
//
// The TUI owns the terminal, so logs go to a file under ~/.vahanbot rather
// than stderr. Transport code logs request/response lines through the
// default slog logger; message bodies and passwords are never logged.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger writing to the given file path.
// When debug is true the level drops to Debug. Returns a close function for
// the underlying file; on any setup failure logging is discarded rather
// than breaking the terminal.
func Setup(path string, debug bool) func() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		slog.SetDefault(discardLogger(level))
		return func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.SetDefault(discardLogger(level))
		return func() {}
	}

	handler := tint.NewHandler(f, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    true, // log file, not a terminal
	})
	slog.SetDefault(slog.New(handler))

	return func() { _ = f.Close() }
}

// discardLogger returns a logger that drops everything.
func discardLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(io.Discard, &tint.Options{Level: level}))
}
