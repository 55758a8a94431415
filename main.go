// vahan-tui - A terminal chat client for the VahanBot vehicle assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vahanbot/vahan-tui/internal/api"
	"github.com/vahanbot/vahan-tui/internal/config"
	"github.com/vahanbot/vahan-tui/internal/logging"
	"github.com/vahanbot/vahan-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

const maxLoginAttempts = 3

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.vahanbot/config.toml)")
		backendURL  = flag.String("url", "", "backend base URL (overrides config)")
		stream      = flag.Bool("stream", false, "use the streaming chat endpoint")
		debug       = flag.Bool("debug", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("vahan-tui %s (%s)\n", Version, GitCommit)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags win over config file and environment.
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *stream {
		cfg.Backend.Stream = true
	}
	if *debug {
		cfg.Debug = true
	}

	closeLog := logging.Setup(cfg.LogPath(), cfg.Debug)
	defer closeLog()

	slog.Info("starting vahan-tui",
		"version", Version,
		"backend", cfg.Backend.URL,
		"stream", cfg.Backend.Stream)

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.RequestTimeout(),
	})

	if cfg.Backend.RequireLogin {
		if err := login(client); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	program := tea.NewProgram(ui.NewApp(client, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration from the explicit path or the default
// location.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// login prompts for the backend password on the terminal, allowing a few
// attempts before giving up. The password is read without echo.
func login(client *api.Client) error {
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		valid, err := client.VerifyPassword(ctx, string(password))
		cancel()
		if err != nil {
			return fmt.Errorf("password verification failed: %s", api.UserMessage(err))
		}
		if valid {
			return nil
		}

		fmt.Println("Invalid password.")
	}
	return fmt.Errorf("too many failed login attempts")
}
