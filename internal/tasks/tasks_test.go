package tasks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/repositories"
	"github.com/desertthunder/trackfetch/internal/services"
	"github.com/desertthunder/trackfetch/internal/shared"
	tu "github.com/desertthunder/trackfetch/internal/testing"
)

type failingStore struct {
	insertErr error
	allErr    error
	inserted  int
}

func (f *failingStore) Insert(ctx context.Context, track models.Track) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted++
	return int64(f.inserted), nil
}

func (f *failingStore) All(ctx context.Context) ([]models.Track, error) {
	return nil, f.allErr
}

type fixture struct {
	tracks  *repositories.TrackRepository
	history *repositories.SearchRepository
	out     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := repositories.Open(filepath.Join(t.TempDir(), "spotify.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &fixture{
		tracks:  repositories.NewTrackRepository(db),
		history: repositories.NewSearchRepository(db),
		out:     &bytes.Buffer{},
	}
}

func (f *fixture) pipeline(searcher services.Searcher) *Pipeline {
	return NewPipeline(PipelineOpts{
		Searcher: searcher,
		Tracks:   f.tracks,
		History:  f.history,
		Output:   f.out,
		Logger:   shared.NewLogger(io.Discard),
	})
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	n, err := f.tracks.Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count tracks: %v", err)
	}
	return n
}

func (f *fixture) lastSearch(t *testing.T) models.Search {
	t.Helper()
	searches, err := f.history.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to list searches: %v", err)
	}
	if len(searches) != 1 {
		t.Fatalf("expected a recorded search, got %d", len(searches))
	}
	return searches[0]
}

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()
	fetched := []models.Track{
		tu.NewTrack("Get Lucky", "Random Access Memories", "Daft Punk", "Pharrell Williams"),
		tu.NewTrack("Lose Yourself to Dance", "Random Access Memories", "Daft Punk"),
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, tu.SearchBody(t, fetched...))}

		result, err := f.pipeline(searcher).Run(ctx, "daft punk", "token", nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if searcher.Query != "daft%20punk" {
			t.Errorf("expected encoded query, got %s", searcher.Query)
		}
		if searcher.Token != "token" {
			t.Errorf("expected token to be forwarded, got %s", searcher.Token)
		}
		if got := f.count(t); got != len(fetched) {
			t.Errorf("expected %d rows, got %d", len(fetched), got)
		}
		if len(result.InsertedIDs) != len(fetched) {
			t.Errorf("expected %d ids, got %d", len(fetched), len(result.InsertedIDs))
		}
		if len(result.Stored) != len(fetched) || len(result.Fetched) != len(fetched) {
			t.Errorf("unexpected result sizes: stored=%d fetched=%d", len(result.Stored), len(result.Fetched))
		}

		output := f.out.String()
		if strings.Count(output, "---------\n") != 2*len(fetched) {
			t.Errorf("expected read-back and fetched blocks, got:\n%s", output)
		}
		if !strings.Contains(output, "Daft PunkPharrell Williams\n") {
			t.Errorf("expected concatenated artist names, got:\n%s", output)
		}

		search := f.lastSearch(t)
		if search.Outcome != models.SearchSucceeded || search.TrackCount != len(fetched) || search.Query != "daft punk" {
			t.Errorf("unexpected search record %+v", search)
		}
	})

	t.Run("Read Back Precedes Fetched", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.tracks.Insert(ctx, tu.NewTrack("Earlier", "Old Album", "Someone")); err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, tu.SearchBody(t, fetched[0]))}

		result, err := f.pipeline(searcher).Run(ctx, "q", "token", nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(result.Stored) != 2 {
			t.Fatalf("expected read-back of 2 tracks, got %d", len(result.Stored))
		}

		lines := strings.Split(f.out.String(), "\n")
		wantNames := map[int]string{0: "Earlier", 5: "Get Lucky", 10: "Get Lucky"}
		for i, name := range wantNames {
			if lines[i] != name {
				t.Errorf("line %d = %q, want %q", i, lines[i], name)
			}
		}

		// read-back drops album and artist urls but keeps the track url
		if lines[8] != fetched[0].ExternalURLs.Spotify || lines[13] != fetched[0].ExternalURLs.Spotify {
			t.Errorf("expected track url on both blocks, got %q and %q", lines[8], lines[13])
		}
	})

	t.Run("Empty Results", func(t *testing.T) {
		f := newFixture(t)
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, tu.SearchBody(t))}

		if _, err := f.pipeline(searcher).Run(ctx, "nothing", "token", nil); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if got := f.count(t); got != 0 {
			t.Errorf("expected no rows, got %d", got)
		}
		if f.out.Len() != 0 {
			t.Errorf("expected no output, got %q", f.out.String())
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		f := newFixture(t)
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusUnauthorized, nil)}

		result, err := f.pipeline(searcher).Run(ctx, "daft punk", "expired", nil)
		if err != nil {
			t.Fatalf("expected 401 to be handled, got %v", err)
		}

		if f.out.String() != TokenExpiredMessage+"\n" {
			t.Errorf("expected token message, got %q", f.out.String())
		}
		if got := f.count(t); got != 0 {
			t.Errorf("expected no rows, got %d", got)
		}
		if result.Outcome.Kind != services.OutcomeAuthFailure {
			t.Errorf("expected auth failure outcome, got %s", result.Outcome.Kind)
		}
		if search := f.lastSearch(t); search.Outcome != models.SearchUnauthorized {
			t.Errorf("expected unauthorized record, got %s", search.Outcome)
		}
	})

	t.Run("Shape Mismatch", func(t *testing.T) {
		bodies := map[string]string{
			"missing tracks":   `{"artists":{"items":[]}}`,
			"null items":       `{"tracks":{"items":null}}`,
			"missing album":    `{"tracks":{"items":[{"name":"x","external_urls":{"spotify":"u"}}]}}`,
			"not json":         `<html>`,
			"wrong items type": `{"tracks":{"items":{}}}`,
		}

		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				f := newFixture(t)
				searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, []byte(body))}

				if _, err := f.pipeline(searcher).Run(ctx, "q", "token", nil); err != nil {
					t.Fatalf("expected shape mismatch to be handled, got %v", err)
				}

				if f.out.String() != ShapeMismatchMessage+"\n" {
					t.Errorf("expected shape message, got %q", f.out.String())
				}
				if got := f.count(t); got != 0 {
					t.Errorf("expected no rows, got %d", got)
				}
				if search := f.lastSearch(t); search.Outcome != models.SearchShapeMismatch {
					t.Errorf("expected shape_mismatch record, got %s", search.Outcome)
				}
			})
		}
	})

	t.Run("Unexpected Status", func(t *testing.T) {
		statuses := []int{http.StatusBadRequest, http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusFound}

		for _, status := range statuses {
			t.Run(http.StatusText(status), func(t *testing.T) {
				f := newFixture(t)
				searcher := &tu.MockSearcher{Outcome: services.Classify(status, nil)}

				_, err := f.pipeline(searcher).Run(ctx, "q", "token", nil)

				var statusErr *services.StatusError
				if !errors.As(err, &statusErr) {
					t.Fatalf("expected StatusError, got %v", err)
				}
				if statusErr.StatusCode != status {
					t.Errorf("expected status %d, got %d", status, statusErr.StatusCode)
				}
				if !errors.Is(err, shared.ErrUnexpectedStatus) {
					t.Error("expected error to wrap ErrUnexpectedStatus")
				}
				if f.out.Len() != 0 {
					t.Errorf("expected no output, got %q", f.out.String())
				}
				if got := f.count(t); got != 0 {
					t.Errorf("expected no rows, got %d", got)
				}
				if search := f.lastSearch(t); search.Outcome != models.SearchFailed {
					t.Errorf("expected failed record, got %s", search.Outcome)
				}
			})
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		f := newFixture(t)
		cause := errors.New("connection refused")
		searcher := &tu.MockSearcher{Outcome: services.TransportFailure(cause)}

		_, err := f.pipeline(searcher).Run(ctx, "q", "token", nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected cause to be preserved, got %v", err)
		}
	})

	t.Run("Missing Arguments", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
			token string
		}{
			{"no query", "", "token"},
			{"no token", "query", ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				searcher := &tu.MockSearcher{}

				_, err := f.pipeline(searcher).Run(ctx, tt.query, tt.token, nil)
				if !errors.Is(err, shared.ErrMissingArgument) {
					t.Errorf("expected ErrMissingArgument, got %v", err)
				}
				if searcher.Calls != 0 {
					t.Errorf("expected no search calls, got %d", searcher.Calls)
				}
			})
		}
	})

	t.Run("Missing Dependencies", func(t *testing.T) {
		p := NewPipeline(PipelineOpts{Output: io.Discard})
		if _, err := p.Run(ctx, "q", "t", nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}

		p = NewPipeline(PipelineOpts{Searcher: &tu.MockSearcher{}, Output: io.Discard})
		if _, err := p.Run(ctx, "q", "t", nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Storage Failures", func(t *testing.T) {
		ok := services.Classify(http.StatusOK, tu.SearchBody(t, fetched...))

		t.Run("insert", func(t *testing.T) {
			store := &failingStore{insertErr: shared.ErrStorageWrite}
			p := NewPipeline(PipelineOpts{
				Searcher: &tu.MockSearcher{Outcome: ok},
				Tracks:   store,
				Output:   io.Discard,
				Logger:   shared.NewLogger(io.Discard),
			})

			result, err := p.Run(ctx, "q", "t", nil)
			if !errors.Is(err, shared.ErrStorageWrite) {
				t.Errorf("expected ErrStorageWrite, got %v", err)
			}
			if result.Search.Outcome != models.SearchFailed {
				t.Errorf("expected failed outcome, got %s", result.Search.Outcome)
			}
		})

		t.Run("read back", func(t *testing.T) {
			store := &failingStore{allErr: shared.ErrStorageRead}
			p := NewPipeline(PipelineOpts{
				Searcher: &tu.MockSearcher{Outcome: ok},
				Tracks:   store,
				Output:   io.Discard,
				Logger:   shared.NewLogger(io.Discard),
			})

			_, err := p.Run(ctx, "q", "t", nil)
			if !errors.Is(err, shared.ErrStorageRead) {
				t.Errorf("expected ErrStorageRead, got %v", err)
			}
			if store.inserted != len(fetched) {
				t.Errorf("expected %d inserts before read back, got %d", len(fetched), store.inserted)
			}
		})
	})

	t.Run("Output Failure", func(t *testing.T) {
		f := newFixture(t)
		p := NewPipeline(PipelineOpts{
			Searcher: &tu.MockSearcher{Outcome: services.Classify(http.StatusUnauthorized, nil)},
			Tracks:   f.tracks,
			Output:   &tu.FWriter{},
			Logger:   shared.NewLogger(io.Discard),
		})

		if _, err := p.Run(ctx, "q", "t", nil); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("Progress", func(t *testing.T) {
		f := newFixture(t)
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, tu.SearchBody(t, fetched...))}
		progress := make(chan ProgressUpdate, 32)

		if _, err := f.pipeline(searcher).Run(ctx, "q", "token", progress); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		close(progress)

		var phases []Phase
		for update := range progress {
			if len(phases) == 0 || phases[len(phases)-1] != update.Phase {
				phases = append(phases, update.Phase)
			}
		}

		want := []Phase{EncodeQuery, SearchTracks, DecodeResponse, PersistTracks, ReadBack, Report}
		if len(phases) != len(want) {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d = %s, want %s", i, phases[i], want[i])
			}
		}
	})

	t.Run("Full Progress Channel", func(t *testing.T) {
		f := newFixture(t)
		searcher := &tu.MockSearcher{Outcome: services.Classify(http.StatusOK, tu.SearchBody(t, fetched...))}
		progress := make(chan ProgressUpdate)

		if _, err := f.pipeline(searcher).Run(ctx, "q", "token", progress); err != nil {
			t.Fatalf("Run should not block on an unread channel: %v", err)
		}
	})
}

func TestPipelineWithSpotify(t *testing.T) {
	ctx := context.Background()
	tracks := []models.Track{
		tu.NewTrack("Around the World", "Homework", "Daft Punk"),
		tu.NewTrack("EARFQUAKE", "IGOR", "Tyler, The Creator"),
	}

	t.Run("Status Classification", func(t *testing.T) {
		tests := []struct {
			name     string
			status   int
			body     string
			wantRows int
			wantOut  string
			wantErr  error
		}{
			{name: "valid body", status: http.StatusOK, wantRows: len(tracks)},
			{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"status":401}}`, wantOut: TokenExpiredMessage + "\n"},
			{name: "no tracks key", status: http.StatusOK, body: `{"artists":{"items":[]}}`, wantOut: ShapeMismatchMessage + "\n"},
			{name: "server error", status: http.StatusInternalServerError, wantErr: shared.ErrUnexpectedStatus},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				body := tt.body
				if body == "" && tt.status == http.StatusOK {
					body = string(tu.SearchBody(t, tracks...))
				}

				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Header.Get("Authorization") != "Bearer abc" {
						t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
					}
					if r.URL.Query().Get("q") != "tyler, the creator" {
						t.Errorf("unexpected q parameter %q", r.URL.Query().Get("q"))
					}
					w.WriteHeader(tt.status)
					w.Write([]byte(body))
				}))
				defer server.Close()

				f := newFixture(t)
				spotify := services.NewSpotifyService(services.SpotifyOpts{BaseURL: server.URL})

				_, err := f.pipeline(spotify).Run(ctx, "tyler, the creator", "abc", nil)
				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Fatalf("expected %v, got %v", tt.wantErr, err)
					}
				} else if err != nil {
					t.Fatalf("Run failed: %v", err)
				}

				if got := f.count(t); got != tt.wantRows {
					t.Errorf("expected %d rows, got %d", tt.wantRows, got)
				}
				if tt.wantOut != "" && f.out.String() != tt.wantOut {
					t.Errorf("expected output %q, got %q", tt.wantOut, f.out.String())
				}
			})
		}
	})
}
