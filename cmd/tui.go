package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/ygelfand/animctl/internal/config"
	"github.com/ygelfand/animctl/internal/library"
	"github.com/ygelfand/animctl/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Short:   "Launch the interactive TUI",
	GroupID: "tui",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func runTUI() error {
	cfg := config.Get()
	// Always log TUI sessions to a file for easier debugging
	cfg.LogFile = filepath.Join(cfg.CacheDir, "tui.log")
	cfg.SetupLogging()
	slog.Info("TUI Starting", "log_file", cfg.LogFile, "verbosity", cfg.Verbosity)

	idx := library.GetIndex()

	slog.Debug("TUI: Showing standalone splash")
	if err := tui.ShowStandaloneSplash(context.Background(), 1*time.Second, idx); err != nil {
		slog.Warn("TUI: Reindex failed", "error", err)
	}
	slog.Debug("TUI: Library ready", "entries", len(idx.List()))

	slog.Debug("TUI: Initializing controller and program")
	c := tui.NewController(idx)
	defer c.Close()
	p := tea.NewProgram(c, tea.WithAltScreen(), tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		slog.Error("TUI: Program run failed", "error", err)
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	slog.Info("TUI Finished normally")
	return nil
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
