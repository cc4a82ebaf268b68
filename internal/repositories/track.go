package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/shared"
)

// TrackRepository stores [models.Track] values as flattened [models.StoredTrack] rows.
//
// Rows are append-only: there is no dedup, update, or delete.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Insert appends one row for track and returns its assigned id.
func (r *TrackRepository) Insert(ctx context.Context, track models.Track) (int64, error) {
	row := models.NewStoredTrack(track)

	query := `
		INSERT INTO tracks (name, album_name, artist_names, spotify_url)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, row.Name, row.AlbumName, row.ArtistNames, row.SpotifyURL)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read assigned id: %v", shared.ErrStorageWrite, err)
	}

	return id, nil
}

// All reads every row in insertion order and rebuilds tracks from them. See [models.StoredTrack.Track].
func (r *TrackRepository) All(ctx context.Context) ([]models.Track, error) {
	rows, err := r.Rows(ctx)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.Track, len(rows))
	for i, row := range rows {
		tracks[i] = row.Track()
	}
	return tracks, nil
}

// Rows reads every stored row in ascending id order.
func (r *TrackRepository) Rows(ctx context.Context) ([]models.StoredTrack, error) {
	query := `
		SELECT id, name, album_name, artist_names, spotify_url
		FROM tracks
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query tracks: %v", shared.ErrStorageRead, err)
	}
	defer rows.Close()

	stored := []models.StoredTrack{}
	for rows.Next() {
		var s models.StoredTrack
		if err := rows.Scan(&s.ID, &s.Name, &s.AlbumName, &s.ArtistNames, &s.SpotifyURL); err != nil {
			return nil, fmt.Errorf("%w: failed to scan track: %v", shared.ErrStorageRead, err)
		}
		stored = append(stored, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStorageRead, err)
	}

	return stored, nil
}

// Count returns the number of stored rows.
func (r *TrackRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrStorageRead, err)
	}
	return n, nil
}
