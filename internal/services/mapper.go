package services

import (
	"encoding/json"
	"fmt"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/shared"
)

// Wire types use pointers so an absent or null field can be told apart from an empty one.
type (
	wireExternalURLs struct {
		Spotify *string `json:"spotify"`
	}

	wireArtist struct {
		Name         *string           `json:"name"`
		ExternalURLs *wireExternalURLs `json:"external_urls"`
	}

	wireAlbum struct {
		Name         *string           `json:"name"`
		Artists      []*wireArtist     `json:"artists"`
		ExternalURLs *wireExternalURLs `json:"external_urls"`
	}

	wireTrack struct {
		Name         *string           `json:"name"`
		Album        *wireAlbum        `json:"album"`
		ExternalURLs *wireExternalURLs `json:"external_urls"`
	}

	wireTracksPage struct {
		Items []*wireTrack `json:"items"`
	}

	wireSearchResponse struct {
		Tracks *wireTracksPage `json:"tracks"`
	}
)

// DecodeSearchResponse decodes a search response body into a [models.SearchResponse].
//
// Only the tracks page is read. Failures wrap [shared.ErrShapeMismatch] and name the offending field.
func DecodeSearchResponse(body []byte) (*models.SearchResponse, error) {
	var wire wireSearchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrShapeMismatch, err)
	}

	if wire.Tracks == nil {
		return nil, missing("tracks")
	}
	if wire.Tracks.Items == nil {
		return nil, missing("tracks.items")
	}

	tracks := make([]models.Track, 0, len(wire.Tracks.Items))
	for i, item := range wire.Tracks.Items {
		track, err := item.toModel(fmt.Sprintf("tracks.items[%d]", i))
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	return &models.SearchResponse{Tracks: tracks}, nil
}

func missing(path string) error {
	return fmt.Errorf("%w: %s is missing or null", shared.ErrShapeMismatch, path)
}

func (u *wireExternalURLs) toModel(path string) (models.ExternalURLs, error) {
	if u == nil {
		return models.ExternalURLs{}, missing(path)
	}
	if u.Spotify == nil {
		return models.ExternalURLs{}, missing(path + ".spotify")
	}
	return models.ExternalURLs{Spotify: *u.Spotify}, nil
}

func (a *wireArtist) toModel(path string) (models.Artist, error) {
	if a == nil {
		return models.Artist{}, missing(path)
	}
	if a.Name == nil {
		return models.Artist{}, missing(path + ".name")
	}
	urls, err := a.ExternalURLs.toModel(path + ".external_urls")
	if err != nil {
		return models.Artist{}, err
	}
	return models.Artist{Name: *a.Name, ExternalURLs: urls}, nil
}

func (a *wireAlbum) toModel(path string) (models.Album, error) {
	if a == nil {
		return models.Album{}, missing(path)
	}
	if a.Name == nil {
		return models.Album{}, missing(path + ".name")
	}
	if a.Artists == nil {
		return models.Album{}, missing(path + ".artists")
	}

	artists := make([]models.Artist, 0, len(a.Artists))
	for i, wa := range a.Artists {
		artist, err := wa.toModel(fmt.Sprintf("%s.artists[%d]", path, i))
		if err != nil {
			return models.Album{}, err
		}
		artists = append(artists, artist)
	}

	urls, err := a.ExternalURLs.toModel(path + ".external_urls")
	if err != nil {
		return models.Album{}, err
	}

	return models.Album{Name: *a.Name, Artists: artists, ExternalURLs: urls}, nil
}

func (t *wireTrack) toModel(path string) (models.Track, error) {
	if t == nil {
		return models.Track{}, missing(path)
	}
	if t.Name == nil {
		return models.Track{}, missing(path + ".name")
	}

	album, err := t.Album.toModel(path + ".album")
	if err != nil {
		return models.Track{}, err
	}

	urls, err := t.ExternalURLs.toModel(path + ".external_urls")
	if err != nil {
		return models.Track{}, err
	}

	return models.Track{Name: *t.Name, Album: album, ExternalURLs: urls}, nil
}
