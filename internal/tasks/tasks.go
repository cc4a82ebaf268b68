package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackfetch/internal/formatter"
	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/services"
	"github.com/desertthunder/trackfetch/internal/shared"
)

const (
	// ShapeMismatchMessage is printed when a 200 response can't be decoded into tracks.
	ShapeMismatchMessage = "Hm, the response didn't match the shape we expected."
	// TokenExpiredMessage is printed when the search endpoint rejects the bearer token.
	TokenExpiredMessage = "Need to grab a new token"
)

// TrackStore persists fetched tracks and reads every stored track back.
//
// Satisfied by repositories.TrackRepository.
type TrackStore interface {
	Insert(ctx context.Context, track models.Track) (int64, error)
	All(ctx context.Context) ([]models.Track, error)
}

// SearchRecorder keeps a history of pipeline runs.
//
// Satisfied by repositories.SearchRepository.
type SearchRecorder interface {
	Create(ctx context.Context, search *models.Search) error
}

// RunResult contains everything a single pipeline run produced.
type RunResult struct {
	Search      models.Search    // History record for the run
	Encoded     string           // Percent-encoded query sent upstream
	Outcome     services.Outcome // Classified search response
	Fetched     []models.Track   // Tracks decoded from the response
	Stored      []models.Track   // Full read-back of the track store
	InsertedIDs []int64          // Row ids assigned to Fetched, in order
}

// Pipeline runs one search: encode, fetch, decode, persist, read back, and report.
type Pipeline struct {
	searcher services.Searcher
	tracks   TrackStore
	history  SearchRecorder
	out      io.Writer
	logger   *log.Logger
}

// PipelineOpts holds the dependencies of a [Pipeline].
//
// History is optional. Output defaults to [os.Stdout] and Logger to a stderr logger.
type PipelineOpts struct {
	Searcher services.Searcher
	Tracks   TrackStore
	History  SearchRecorder
	Output   io.Writer
	Logger   *log.Logger
}

// NewPipeline creates a new Pipeline with the provided dependencies.
func NewPipeline(opts PipelineOpts) *Pipeline {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Pipeline{
		searcher: opts.Searcher,
		tracks:   opts.Tracks,
		history:  opts.History,
		out:      out,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (p *Pipeline) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run searches for query with token and handles the classified response.
//
// A rejected token or an undecodable body prints a short notice to the output and returns a nil error with nothing
// persisted. Any other non-200 status returns a [*services.StatusError] and transport failures wrap
// [shared.ErrAPIRequest]. On success every fetched track is inserted, then the full store is printed followed by the
// fetched tracks.
func (p *Pipeline) Run(ctx context.Context, query, token string, progress chan<- ProgressUpdate) (*RunResult, error) {
	if p.searcher == nil {
		return nil, fmt.Errorf("%w: search service not initialized", shared.ErrInvalidConfig)
	}
	if p.tracks == nil {
		return nil, fmt.Errorf("%w: track store not initialized", shared.ErrInvalidConfig)
	}
	if query == "" {
		return nil, fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: auth token", shared.ErrMissingArgument)
	}

	result := &RunResult{
		Search: models.Search{ID: shared.GenerateID(), Query: query},
	}
	logger := shared.WithLogger(p.logger, "search", result.Search.ID)

	result.Encoded = services.EncodeQuery(query)
	p.sendProgress(progress, encodeQueryUpdate(query, result.Encoded))

	p.sendProgress(progress, searchTracksUpdate(p.searcher.Name()))
	result.Outcome = p.searcher.Search(ctx, result.Encoded, token)
	p.sendProgress(progress, searchOutcomeUpdate(result.Outcome))
	logger.Debug("search finished", "service", p.searcher.Name(), "outcome", result.Outcome.Kind, "status", result.Outcome.StatusCode)

	switch result.Outcome.Kind {
	case services.OutcomeSuccess:
		return p.handleSuccess(ctx, logger, result, progress)
	case services.OutcomeAuthFailure:
		logger.Warn("token rejected", "status", result.Outcome.StatusCode)
		if _, err := fmt.Fprintln(p.out, TokenExpiredMessage); err != nil {
			return result, fmt.Errorf("failed to write output: %w", err)
		}
		p.record(ctx, logger, result, models.SearchUnauthorized)
		return result, nil
	default:
		err := result.Outcome.Err()
		p.record(ctx, logger, result, models.SearchFailed)
		return result, err
	}
}

func (p *Pipeline) handleSuccess(ctx context.Context, logger *log.Logger, result *RunResult, progress chan<- ProgressUpdate) (*RunResult, error) {
	resp, err := services.DecodeSearchResponse(result.Outcome.Body)
	if errors.Is(err, shared.ErrShapeMismatch) {
		logger.Warn("unexpected response shape", "error", err)
		if _, err := fmt.Fprintln(p.out, ShapeMismatchMessage); err != nil {
			return result, fmt.Errorf("failed to write output: %w", err)
		}
		p.record(ctx, logger, result, models.SearchShapeMismatch)
		return result, nil
	} else if err != nil {
		p.record(ctx, logger, result, models.SearchFailed)
		return result, err
	}

	result.Fetched = resp.Tracks
	p.sendProgress(progress, decodeResponseUpdate(len(resp.Tracks)))

	total := len(resp.Tracks)
	result.InsertedIDs = make([]int64, 0, total)
	for i, track := range resp.Tracks {
		id, err := p.tracks.Insert(ctx, track)
		if err != nil {
			p.record(ctx, logger, result, models.SearchFailed)
			return result, err
		}
		result.InsertedIDs = append(result.InsertedIDs, id)
		p.sendProgress(progress, persistTrackUpdate(i+1, total, track.Name))
	}
	logger.Info("saved tracks", "count", total)

	stored, err := p.tracks.All(ctx)
	if err != nil {
		p.record(ctx, logger, result, models.SearchFailed)
		return result, err
	}
	result.Stored = stored
	p.sendProgress(progress, readBackUpdate(len(stored)))

	if err := formatter.PrintTracks(p.out, stored); err != nil {
		return result, err
	}
	if err := formatter.PrintTracks(p.out, result.Fetched); err != nil {
		return result, err
	}
	p.sendProgress(progress, reportUpdate(len(stored), len(result.Fetched)))

	result.Search.TrackCount = total
	p.record(ctx, logger, result, models.SearchSucceeded)
	return result, nil
}

// record writes the history entry for the run. Failures are logged and never change the run's result.
func (p *Pipeline) record(ctx context.Context, logger *log.Logger, result *RunResult, outcome models.SearchOutcome) {
	result.Search.Outcome = outcome
	if p.history == nil {
		return
	}

	if err := p.history.Create(ctx, &result.Search); err != nil {
		logger.Warn("failed to record search", "error", err)
	}
}
