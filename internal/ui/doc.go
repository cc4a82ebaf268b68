// Package ui implements an interactive terminal browser for stored tracks using bubbletea's Elm architecture.
//
// The TUI provides a small multi-view workflow:
//  1. [TrackListView] : Browse and filter every stored track
//  2. [DetailView] : Inspect one stored row, with artist names split back apart
//  3. [QueryView] : Enter a new search query (only when a token was supplied)
//  4. [SearchView] : Monitor pipeline progress updates
//  5. [ResultView] : Display the outcome of the search
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Pipeline].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
