// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/services"
)

// MockSearcher is a test double for [services.Searcher] returning a fixed [services.Outcome].
type MockSearcher struct {
	Outcome services.Outcome
	Calls   int
	Query   string
	Token   string
}

func (m *MockSearcher) Search(ctx context.Context, encodedQuery, token string) services.Outcome {
	m.Calls++
	m.Query = encodedQuery
	m.Token = token
	return m.Outcome
}

func (m *MockSearcher) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper returns a canned response or error and records the last request
type MockRoundTripper struct {
	response *http.Response
	err      error
	Request  *http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Request = req
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// NewTrack builds a fully populated [models.Track] whose URLs derive from the names.
func NewTrack(name, album string, artists ...string) models.Track {
	t := models.Track{
		Name: name,
		Album: models.Album{
			Name:         album,
			Artists:      make([]models.Artist, 0, len(artists)),
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/album/" + album},
		},
		ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/track/" + name},
	}
	for _, a := range artists {
		t.Album.Artists = append(t.Album.Artists, models.Artist{
			Name:         a,
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/artist/" + a},
		})
	}
	return t
}

// SearchBody encodes tracks in the search API response shape, with an unrelated artists page alongside.
func SearchBody(t *testing.T, tracks ...models.Track) []byte {
	t.Helper()

	if tracks == nil {
		tracks = []models.Track{}
	}

	payload := map[string]any{
		"tracks":  map[string]any{"items": tracks, "total": len(tracks), "limit": 20},
		"artists": map[string]any{"items": []any{}},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode search body: %v", err)
	}
	return data
}
