package repositories

import (
	"database/sql"

	"github.com/desertthunder/trackfetch/internal/shared"
)

// Open opens the SQLite database at path, creating the file if absent, and ensures the schema exists.
//
// Errors wrap [shared.ErrStorageOpen].
func Open(path string) (*sql.DB, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
