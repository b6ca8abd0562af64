package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/wavedl/internal/download"
	"github.com/desertthunder/wavedl/internal/shared"
	"github.com/desertthunder/wavedl/internal/ui"
)

// TUI launches the interactive download manager.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if !download.YTDLPAvailable() {
		return fmt.Errorf("%w: yt-dlp is required, install it first", shared.ErrToolMissing)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/wavedl-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.logger = fileLogger

	if err := r.config.EnsureLibraryDirs(); err != nil {
		return err
	}

	worker, cancel := r.newWorker(ctx)
	defer cancel()

	model := ui.NewModel(ctx, worker, r.db, r.journal)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
