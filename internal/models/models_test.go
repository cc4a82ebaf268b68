package models

import (
	"reflect"
	"testing"
)

func TestStoredTrack(t *testing.T) {
	track := Track{
		Name: "Get Lucky",
		Album: Album{
			Name: "Random Access Memories",
			Artists: []Artist{
				{Name: "Daft Punk", ExternalURLs: ExternalURLs{Spotify: "https://open.spotify.com/artist/dp"}},
				{Name: "Pharrell Williams", ExternalURLs: ExternalURLs{Spotify: "https://open.spotify.com/artist/pw"}},
			},
			ExternalURLs: ExternalURLs{Spotify: "https://open.spotify.com/album/ram"},
		},
		ExternalURLs: ExternalURLs{Spotify: "https://open.spotify.com/track/gl"},
	}

	t.Run("NewStoredTrack flattens", func(t *testing.T) {
		row := NewStoredTrack(track)

		if row.ArtistNames != "Daft Punk, Pharrell Williams" {
			t.Errorf("expected joined artist names, got %q", row.ArtistNames)
		}
		if row.AlbumName != "Random Access Memories" {
			t.Errorf("unexpected album name %q", row.AlbumName)
		}
		if row.SpotifyURL != track.ExternalURLs.Spotify {
			t.Errorf("unexpected spotify url %q", row.SpotifyURL)
		}
		if row.ID != 0 {
			t.Errorf("expected unassigned id, got %d", row.ID)
		}
	})

	t.Run("Track reconstructs with placeholders", func(t *testing.T) {
		got := NewStoredTrack(track).Track()

		if got.Name != track.Name || got.Album.Name != track.Album.Name {
			t.Errorf("names not preserved: %+v", got)
		}
		if got.ExternalURLs.Spotify != track.ExternalURLs.Spotify {
			t.Errorf("track url not preserved: %q", got.ExternalURLs.Spotify)
		}
		if got.Album.ExternalURLs.Spotify != "" {
			t.Errorf("expected empty album url, got %q", got.Album.ExternalURLs.Spotify)
		}
		if !reflect.DeepEqual(got.ArtistNames(), track.ArtistNames()) {
			t.Errorf("artist names = %v, want %v", got.ArtistNames(), track.ArtistNames())
		}
		for _, a := range got.Album.Artists {
			if a.ExternalURLs.Spotify != "" {
				t.Errorf("expected empty artist url, got %q", a.ExternalURLs.Spotify)
			}
		}
	})
}

func TestSplitArtistNames(t *testing.T) {
	tests := []struct {
		name   string
		joined string
		want   []string
	}{
		{name: "single", joined: "Björk", want: []string{"Björk"}},
		{name: "several", joined: "A, B, C", want: []string{"A", "B", "C"}},
		{name: "empty yields one empty name", joined: "", want: []string{""}},
		{name: "comma without space is kept", joined: "Crosby,Stills", want: []string{"Crosby,Stills"}},
		{name: "separator inside a name re-fragments", joined: "Tyler, The Creator", want: []string{"Tyler", "The Creator"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitArtistNames(tt.joined); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitArtistNames(%q) = %q, want %q", tt.joined, got, tt.want)
			}
		})
	}
}

func TestJoinArtistNames(t *testing.T) {
	if got := JoinArtistNames(nil); got != "" {
		t.Errorf("expected empty string for no artists, got %q", got)
	}
	if got := JoinArtistNames([]string{"A", "B"}); got != "A, B" {
		t.Errorf("JoinArtistNames() = %q", got)
	}
}
