// Package models defines the domain entities for trackfetch.
//
// The package contains two categories of types:
//
// 1. Search entities: nested shapes mirroring the search API JSON
//   - [Track] : a track with its [Album] and canonical [ExternalURLs]
//   - [Album] : album name and its ordered [Artist] list
//   - [SearchResponse] : the decoded tracks page of a search
//
// 2. Persistent entities: rows owned by the local SQLite store
//   - [StoredTrack] : lossy, single-row projection of a [Track]
//   - [Search] : one record per pipeline run
//
// Flattening a [Track] into a [StoredTrack] joins artist names with [ArtistSeparator] and discards every URL except the
// track's own. [StoredTrack.Track] rebuilds a [Track] with empty-string placeholders for the discarded URLs.
package models
