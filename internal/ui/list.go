package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/trackfetch/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.StoredTrack] to implement [list.Item].
type trackItem struct {
	track models.StoredTrack
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", i.track.Name, i.track.ArtistNames, i.track.AlbumName)
}

func (i trackItem) Title() string { return i.track.Name }

func (i trackItem) Description() string {
	desc := i.track.ArtistNames
	if i.track.AlbumName != "" {
		if desc == "" {
			return i.track.AlbumName
		}
		desc = fmt.Sprintf("%s • %s", desc, i.track.AlbumName)
	}
	return desc
}

func trackItems(tracks []models.StoredTrack) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	return items
}
