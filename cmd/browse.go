package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackfetch/internal/repositories"
	"github.com/desertthunder/trackfetch/internal/shared"
	"github.com/desertthunder/trackfetch/internal/tasks"
	"github.com/desertthunder/trackfetch/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive track browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	tracks := repositories.NewTrackRepository(db)

	var runner ui.SearchRunner
	token := cmd.String("token")
	if token != "" {
		searcher, err := r.spotify()
		if err != nil {
			return err
		}
		runner = tasks.NewPipeline(tasks.PipelineOpts{
			Searcher: searcher,
			Tracks:   tracks,
			History:  repositories.NewSearchRepository(db),
			Output:   io.Discard,
			Logger:   r.logger,
		})
	}

	model := ui.NewModel(ctx, tracks, runner, token)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
