package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackfetch/internal/formatter"
	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/repositories"
	"github.com/urfave/cli/v3"
)

// TracksList prints every stored track, either as blocks or as raw JSON rows.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewTrackRepository(db)

	if cmd.Bool("json") {
		rows, err := repo.Rows(ctx)
		if err != nil {
			return err
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	tracks, err := repo.All(ctx)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return r.writePlain("No stored tracks. Run 'trackfetch <search_query> <auth_token>' first.\n")
	}

	return formatter.PrintTracks(r.output, tracks)
}

// TracksExport writes stored rows to a file in the requested format.
func (r *Runner) TracksExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := repositories.NewTrackRepository(db).Rows(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("exporting tracks", "format", format, "count", len(rows))

	path, err := formatter.WriteExport(rows, format, cmd.String("output"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Exported %d tracks to %s\n", len(rows), path)
}

// TracksCount prints the number of stored rows.
func (r *Runner) TracksCount(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repositories.NewTrackRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("%d\n", n)
}

// History lists recorded searches, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	searches, err := repositories.NewSearchRepository(db).List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if searches == nil {
			searches = []models.Search{}
		}
		return r.writeJSON(searches, true)
	}

	if len(searches) == 0 {
		return r.writePlain("No searches recorded.\n")
	}

	for _, s := range searches {
		line := fmt.Sprintf("%s  %-14s %3d  %s\n", s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Outcome, s.TrackCount, s.Query)
		if err := r.writePlain("%s", line); err != nil {
			return err
		}
	}
	return nil
}
