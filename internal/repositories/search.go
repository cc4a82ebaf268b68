package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/trackfetch/internal/models"
	"github.com/desertthunder/trackfetch/internal/shared"
)

// SearchRepository records pipeline runs in the searches table.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new SearchRepository with the given database connection
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Create inserts search, generating an ID and timestamp when unset.
func (r *SearchRepository) Create(ctx context.Context, search *models.Search) error {
	if search.ID == "" {
		search.ID = shared.GenerateID()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}
	if search.Outcome == "" {
		return fmt.Errorf("%w: search outcome is required", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO searches (id, query, outcome, track_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, search.ID, search.Query, string(search.Outcome), search.TrackCount, search.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to insert search: %v", shared.ErrStorageWrite, err)
	}

	return nil
}

// List returns the most recent searches first. A limit of zero or less returns all of them.
func (r *SearchRepository) List(ctx context.Context, limit int) ([]models.Search, error) {
	query := `
		SELECT id, query, outcome, track_count, created_at
		FROM searches
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query searches: %v", shared.ErrStorageRead, err)
	}
	defer rows.Close()

	var searches []models.Search
	for rows.Next() {
		var (
			s       models.Search
			outcome string
		)
		if err := rows.Scan(&s.ID, &s.Query, &outcome, &s.TrackCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan search: %v", shared.ErrStorageRead, err)
		}
		s.Outcome = models.SearchOutcome(outcome)
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStorageRead, err)
	}

	return searches, nil
}
