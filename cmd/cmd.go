// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootCommand runs a search when given a query and token, and holds the management subcommands.
func rootCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "trackfetch",
		Usage:     "Search Spotify for tracks and keep the results in a local SQLite store",
		UsageText: "trackfetch [global options] <search_query> <auth_token>\ntrackfetch [global options] command [command options]",
		Version:   "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the SQLite database (overrides database.path)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query", UsageText: "search_query"},
			&cli.StringArg{Name: "token", UsageText: "auth_token"},
		},
		Before:   r.Before,
		Action:   r.Search,
		Commands: r.register(),
	}
}

// tracksCommand handles stored track operations
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Inspect stored tracks",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "Print every stored track in insertion order",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw rows as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TracksList,
			},
			{
				Name:  "export",
				Usage: "Export stored tracks to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, txt, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: tracks.<ext>)",
					},
				},
				Action: r.TracksExport,
			},
			{
				Name:   "count",
				Usage:  "Print the number of stored tracks",
				Action: r.TracksCount,
			},
		},
	}
}

// historyCommand lists recorded searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent searches",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of searches to show (0 for all)",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand initializes config and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml from the template and initialize the database",
		Action: r.Setup,
	}
}

// browseCommand returns the interactive browser command.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"tui", "ui"},
		Usage:   "Browse stored tracks interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Bearer token; enables new searches from the browser",
				Sources: cli.EnvVars("SPOTIFY_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the browser is open",
				Value: "./tmp/trackfetch-browse.log",
			},
		},
		Action: r.Browse,
	}
}
