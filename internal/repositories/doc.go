// package repositories provides the persistence layer over the local SQLite database.
//
// [Open] creates the database file if needed and applies the embedded migrations, so it is safe to call on every run.
// [TrackRepository] appends flattened tracks and reads them back in insertion order; [SearchRepository] keeps a
// history of pipeline runs.
package repositories
