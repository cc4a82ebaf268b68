// Spotify search API implementation of [Searcher]
//
// Response shape based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyBaseURL     = "https://api.spotify.com/v1"
	defaultSearchTypes = "track,artist"
)

// SpotifyOpts configures a [SpotifyService]. Zero values fall back to the public API defaults.
type SpotifyOpts struct {
	BaseURL     string
	SearchTypes string
	HTTPClient  *http.Client
	RateLimit   float64 // requests per second, <= 0 disables pacing
	Timeout     time.Duration
}

// SpotifyService implements [Searcher] for the Spotify Web API.
type SpotifyService struct {
	baseURL     string
	searchTypes string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewSpotifyService creates a new Spotify search client.
func NewSpotifyService(opts SpotifyOpts) *SpotifyService {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.SearchTypes == "" {
		opts.SearchTypes = defaultSearchTypes
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	timeout := opts.HTTPClient.Timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	return &SpotifyService{
		baseURL:     opts.BaseURL,
		searchTypes: opts.SearchTypes,
		httpClient:  &http.Client{Transport: opts.HTTPClient.Transport, Timeout: timeout},
		limiter:     rate.NewLimiter(limit, 1),
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SearchURL builds the request URL for an already encoded query.
func (s *SpotifyService) SearchURL(encodedQuery string) string {
	return fmt.Sprintf("%s/search?q=%s&type=%s", s.baseURL, encodedQuery, s.searchTypes)
}

// bearerClient returns a client whose transport attaches token as "Authorization: Bearer <token>".
func (s *SpotifyService) bearerClient(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport: &oauth2.Transport{Source: src, Base: s.httpClient.Transport},
		Timeout:   s.httpClient.Timeout,
	}
}

// Search performs one GET against the search endpoint and classifies the response.
func (s *SpotifyService) Search(ctx context.Context, encodedQuery, token string) Outcome {
	if err := s.limiter.Wait(ctx); err != nil {
		return TransportFailure(fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SearchURL(encodedQuery), nil)
	if err != nil {
		return TransportFailure(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.bearerClient(token).Do(req)
	if err != nil {
		return TransportFailure(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classify(resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportFailure(fmt.Errorf("failed to read response: %w", err))
	}

	return Classify(resp.StatusCode, body)
}
