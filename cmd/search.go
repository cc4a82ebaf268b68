package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackfetch/internal/repositories"
	"github.com/desertthunder/trackfetch/internal/shared"
	"github.com/desertthunder/trackfetch/internal/tasks"
	"github.com/urfave/cli/v3"
)

const searchUsage = "usage: trackfetch <search_query> <auth_token>"

// Search runs the pipeline for the positional query and token.
//
// Track blocks go to the runner's output; progress is logged at debug level.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	token := cmd.StringArg("token")

	if query == "" {
		return fmt.Errorf("%w: search query (%s)", shared.ErrMissingArgument, searchUsage)
	}
	if token == "" {
		return fmt.Errorf("%w: auth token (%s)", shared.ErrMissingArgument, searchUsage)
	}

	searcher, err := r.spotify()
	if err != nil {
		return err
	}

	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline := tasks.NewPipeline(tasks.PipelineOpts{
		Searcher: searcher,
		Tracks:   repositories.NewTrackRepository(db),
		History:  repositories.NewSearchRepository(db),
		Output:   r.output,
		Logger:   r.logger,
	})

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	r.logger.Info("searching", "service", searcher.Name(), "query", query)
	result, err := pipeline.Run(ctx, query, token, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.logger.Info("search complete", "id", result.Search.ID, "outcome", result.Search.Outcome, "tracks", len(result.Fetched))
	return nil
}
