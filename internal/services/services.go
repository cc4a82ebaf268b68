package services

import "context"

// Searcher runs a track search against a music catalog.
type Searcher interface {
	// Search issues the request for an already percent-encoded query and classifies the response.
	Search(ctx context.Context, encodedQuery, token string) Outcome

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
