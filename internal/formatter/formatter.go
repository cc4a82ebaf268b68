// package formatter renders tracks for the terminal and exports stored rows to files (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/shared"
)

// Separator ends each track block written by [PrintTracks].
const Separator = "---------"

// Format names an export format accepted by [Export] and [WriteExport].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatMarkdown, FormatText, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// PrintTracks writes one block per track: name, album name, the artist names run together, the track URL, and [Separator].
//
// Artist names are concatenated without a delimiter.
func PrintTracks(w io.Writer, tracks []models.Track) error {
	for _, track := range tracks {
		lines := []string{
			track.Name,
			track.Album.Name,
			strings.Join(track.ArtistNames(), ""),
			track.ExternalURLs.Spotify,
			Separator,
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write track %q: %w", track.Name, err)
			}
		}
	}
	return nil
}

// ExportToCSV converts stored rows to CSV with columns: ID, Name, Album, Artists, URL
func ExportToCSV(tracks []models.StoredTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Album", "Artists", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			strconv.FormatInt(track.ID, 10),
			track.Name,
			track.AlbumName,
			track.ArtistNames,
			track.SpotifyURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts stored rows to a Markdown document with a numbered, linked track list
func ExportToMarkdown(tracks []models.StoredTrack) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Tracks\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(tracks)))

	for i, track := range tracks {
		title := track.Name
		if track.SpotifyURL != "" {
			title = fmt.Sprintf("[%s](%s)", track.Name, track.SpotifyURL)
		}

		albumPart := ""
		if track.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", track.AlbumName)
		}

		if track.ArtistNames == "" {
			buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, title, albumPart))
			continue
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, track.ArtistNames, title, albumPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts stored rows to plain text
func ExportToText(tracks []models.StoredTrack) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.ArtistNames, track.Name))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts stored rows to an indented JSON array
func ExportToJSON(tracks []models.StoredTrack) ([]byte, error) {
	if tracks == nil {
		tracks = []models.StoredTrack{}
	}
	return shared.MarshalJSON(tracks, true)
}

// Export renders tracks in the given format.
func Export(tracks []models.StoredTrack, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(tracks)
	case FormatText:
		return ExportToText(tracks)
	case FormatJSON:
		return ExportToJSON(tracks)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders tracks and writes them to path, creating parent directories as needed.
//
// Defaults to tracks.{ext} in the working directory. Returns the path written.
func WriteExport(tracks []models.StoredTrack, format Format, path string) (string, error) {
	if path == "" {
		path = "tracks." + format.Extension()
	}

	data, err := Export(tracks, format)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
