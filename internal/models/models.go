// package models defines the data model for trackfetch
package models

import (
	"strings"
	"time"
)

// ArtistSeparator joins artist names in the artist_names column.
const ArtistSeparator = ", "

// ExternalURLs holds the canonical web URL for an entity.
type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

// Artist is an album artist.
type Artist struct {
	Name         string       `json:"name"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Album is the album a track belongs to. Artists keep the API order and may be empty.
type Album struct {
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// Track is a search result. Its identity is ExternalURLs.Spotify, which is not enforced as unique.
type Track struct {
	Name         string       `json:"name"`
	Album        Album        `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

// ArtistNames returns the album artist names in order.
func (t Track) ArtistNames() []string {
	names := make([]string, len(t.Album.Artists))
	for i, a := range t.Album.Artists {
		names[i] = a.Name
	}
	return names
}

// SearchResponse is the decoded tracks page of a search.
type SearchResponse struct {
	Tracks []Track
}

// JoinArtistNames flattens names into a single column value.
func JoinArtistNames(names []string) string {
	return strings.Join(names, ArtistSeparator)
}

// SplitArtistNames reverses [JoinArtistNames].
//
// Lossy: a name containing [ArtistSeparator] is split apart, and "" yields one empty name rather than none.
func SplitArtistNames(joined string) []string {
	return strings.Split(joined, ArtistSeparator)
}

// StoredTrack is a row of the tracks table.
type StoredTrack struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AlbumName   string `json:"album_name"`
	ArtistNames string `json:"artist_names"`
	SpotifyURL  string `json:"spotify_url"`
}

// NewStoredTrack flattens t into its persisted projection. ID is assigned by the store.
func NewStoredTrack(t Track) StoredTrack {
	return StoredTrack{
		Name:        t.Name,
		AlbumName:   t.Album.Name,
		ArtistNames: JoinArtistNames(t.ArtistNames()),
		SpotifyURL:  t.ExternalURLs.Spotify,
	}
}

// Track rebuilds a [Track] from the row. Album and artist URLs are not stored and come back empty.
func (s StoredTrack) Track() Track {
	names := SplitArtistNames(s.ArtistNames)
	artists := make([]Artist, len(names))
	for i, name := range names {
		artists[i] = Artist{Name: name, ExternalURLs: ExternalURLs{Spotify: ""}}
	}

	return Track{
		Name: s.Name,
		Album: Album{
			Name:         s.AlbumName,
			Artists:      artists,
			ExternalURLs: ExternalURLs{Spotify: ""},
		},
		ExternalURLs: ExternalURLs{Spotify: s.SpotifyURL},
	}
}

// SearchOutcome labels how a pipeline run ended.
type SearchOutcome string

const (
	SearchSucceeded     SearchOutcome = "success"
	SearchUnauthorized  SearchOutcome = "unauthorized"
	SearchShapeMismatch SearchOutcome = "shape_mismatch"
	SearchFailed        SearchOutcome = "failed"
)

// Search records one pipeline run.
type Search struct {
	ID         string        `json:"id"`
	Query      string        `json:"query"`
	Outcome    SearchOutcome `json:"outcome"`
	TrackCount int           `json:"track_count"`
	CreatedAt  time.Time     `json:"created_at"`
}
