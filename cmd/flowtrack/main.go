package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Soham2411/flowtrack/internal/api"
	"github.com/Soham2411/flowtrack/internal/config"
	applog "github.com/Soham2411/flowtrack/internal/log"
	"github.com/Soham2411/flowtrack/internal/session"
	"github.com/Soham2411/flowtrack/internal/sheets"
	"github.com/Soham2411/flowtrack/internal/ui"
)

func main() {
	// Load .env file for local development (ignore errors when absent)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Logs can't share the terminal with the dashboard; they go to a file
	// when configured and nowhere otherwise.
	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := applog.New(logOut, applog.ParseLevel(cfg.LogLevel), "main")

	if err := session.RunMigrations(cfg.SessionDBPath); err != nil {
		fmt.Fprintf(os.Stderr, "migrate session store: %v\n", err)
		os.Exit(1)
	}
	store, err := session.NewSQLiteStore(cfg.SessionDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	manager := session.NewManager(client, store, logger)

	var target ui.SheetsTarget
	if cfg.SheetsEnabled() {
		cli, err := sheets.New(context.Background(), sheets.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Warn("sheets export disabled", "error", err)
		} else {
			target = cli
		}
	}

	model := ui.New(client, manager, target, logger, cfg.ExportDir)
	program := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting flowtrack", "api", cfg.APIBaseURL)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "flowtrack: %v\n", err)
		os.Exit(1)
	}
}
