// Package tasks runs the search pipeline with real-time progress reporting.
//
// # Pipeline
//
// [Pipeline.Run] performs one search, start to finish:
//
//  1. Encode the free-text query for the URL
//  2. Search the catalog ([services.Searcher]) and classify the response
//  3. Decode the body into tracks ([services.DecodeSearchResponse])
//  4. Insert every track into the [TrackStore], duplicates included
//  5. Read the whole store back and print it, then print the freshly fetched tracks
//
// # Outcomes
//
// A rejected token prints [TokenExpiredMessage] and a body of the wrong shape prints [ShapeMismatchMessage]. Neither
// is an error and neither persists anything. Every other non-200 response and every transport failure is returned to
// the caller.
//
// # Progress Reporting
//
// Updates use select with default to prevent blocking; pass a nil channel to skip them.
//
// # History
//
// The optional [SearchRecorder] stores one [models.Search] per run. Recording failures are logged and ignored.
package tasks
