package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackfetch/internal/repositories"
	"github.com/desertthunder/trackfetch/internal/services"
	"github.com/desertthunder/trackfetch/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	searcher   services.Searcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Searcher is built from the loaded config on first use.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Searcher   services.Searcher
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		searcher:   opts.Searcher,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tracksCommand, historyCommand, setupCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration and applies global flags ahead of any command action.
//
// A missing config file falls back to defaults unless --config was given explicitly for a command other than setup.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	case errors.Is(err, fs.ErrNotExist) && (!cmd.IsSet("config") || cmd.Args().First() == "setup"):
		r.logger.Debug("config file not found, using defaults", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	default:
		return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	if db := cmd.String("db"); db != "" {
		r.config.Database.Path = db
	}

	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	return ctx, nil
}

// openStore opens the configured database with migrations applied.
func (r *Runner) openStore() (*sql.DB, error) {
	r.logger.Debug("opening track store", "path", r.config.Database.Path)

	db, err := repositories.Open(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

// spotify returns the injected searcher, or builds a Spotify client from the loaded config.
func (r *Runner) spotify() (services.Searcher, error) {
	if r.searcher != nil {
		return r.searcher, nil
	}

	timeout, err := r.config.Spotify.RequestTimeout()
	if err != nil {
		return nil, err
	}

	r.searcher = services.NewSpotifyService(services.SpotifyOpts{
		BaseURL:     r.config.Spotify.BaseURL,
		SearchTypes: r.config.Spotify.SearchTypes,
		HTTPClient:  r.httpClient,
		RateLimit:   r.config.Spotify.RateLimit,
		Timeout:     timeout,
	})
	return r.searcher, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
